package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postMovement runs the ledger on an item already locked by the caller's
// transaction and writes the movement row and the new stock together.
func postMovement(
	ctx context.Context,
	repos TransactionalRepositories,
	item *inventory.InventoryItem,
	spec inventory.MovementSpec,
) (*inventory.InventoryMovement, error) {
	movement, err := inventory.Post(item, spec)
	if err != nil {
		return nil, err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to create movement: %w", err)
	}
	if err := repos.ItemRepo().Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item stock: %w", err)
	}
	return movement, nil
}

// LedgerService is the entry point for single-item stock changes
type LedgerService struct {
	scope   TransactionScope
	audit   shared.AuditSink
	metrics *telemetry.LedgerMetrics
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope TransactionScope, audit shared.AuditSink) *LedgerService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &LedgerService{scope: scope, audit: audit}
}

// SetLedgerMetrics sets the metrics collector
func (s *LedgerService) SetLedgerMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// AdjustStock books a manual correction. A positive quantity is a manual_in,
// a negative one a manual_out.
func (s *LedgerService) AdjustStock(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req AdjustStockRequest) (*StockChangeResponse, error) {
	if err := actor.Require("adjust stock", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}
	movementType := inventory.MovementManualIn
	if req.Quantity.IsNegative() {
		movementType = inventory.MovementManualOut
	}
	return s.record(ctx, actor, itemID, inventory.MovementSpec{
		Type:      movementType,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		CreatedBy: actor.UserRef(),
	})
}

// RecordMovement books an operational movement (sale, recipe consumption).
// Manual, transfer and revert movements have their own entry points.
func (s *LedgerService) RecordMovement(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req RecordMovementRequest) (*StockChangeResponse, error) {
	movementType, err := inventory.ParseMovementType(req.MovementType)
	if err != nil {
		return nil, err
	}
	switch movementType {
	case inventory.MovementSale, inventory.MovementRecipeConsumption:
	case inventory.MovementManualIn, inventory.MovementManualOut:
		return s.AdjustStock(ctx, actor, itemID, AdjustStockRequest{Quantity: req.Quantity, Reason: req.Reason})
	default:
		return nil, shared.NewValidationError(fmt.Sprintf("Movements of type %s cannot be recorded directly", movementType))
	}
	return s.record(ctx, actor, itemID, inventory.MovementSpec{
		Type:        movementType,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		ReferenceID: req.ReferenceID,
		CreatedBy:   actor.UserRef(),
	})
}

func (s *LedgerService) record(ctx context.Context, actor shared.Actor, itemID uuid.UUID, spec inventory.MovementSpec) (*StockChangeResponse, error) {
	var (
		item     *inventory.InventoryItem
		movement *inventory.InventoryMovement
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, actor.TenantID, itemID)
		if err != nil {
			return notFoundItem(err, itemID)
		}
		movement, err = postMovement(ctx, repos, item, spec)
		return err
	})
	if err != nil {
		if shared.IsDomainError(err, shared.CodeInsufficientStock) {
			s.metrics.RecordInsufficientStock(ctx, actor.TenantID)
		}
		return nil, err
	}

	s.metrics.RecordMovement(ctx, actor.TenantID, movement.Type.String(), movement.Quantity)
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Stock movement %s on %s: %s %s (stock now %s %s)%s. By %s",
		movement.Type, item.Name,
		signed(movement.Quantity), item.UnitOfMeasure,
		item.QuantityInStock.StringFixed(shared.QuantityScale), item.UnitOfMeasure,
		reasonSuffix(movement.Reason), actor.DisplayName(),
	)))

	return &StockChangeResponse{
		Item:     ToItemResponse(item),
		Movement: ToMovementResponse(movement),
	}, nil
}

// notFoundItem turns a bare repository miss into an error naming the item
func notFoundItem(err error, itemID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return inventory.NewItemNotFoundError(itemID)
	}
	return err
}

func signed(d decimal.Decimal) string {
	s := d.StringFixed(shared.QuantityScale)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return ". Reason: " + reason
}
