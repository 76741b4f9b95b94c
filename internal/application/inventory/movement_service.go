package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// MovementService reads the movement log and reverts movements
type MovementService struct {
	movementRepo inventory.InventoryMovementRepository
	itemRepo     inventory.InventoryItemRepository
	scope        TransactionScope
	audit        shared.AuditSink
	metrics      *telemetry.LedgerMetrics
}

// NewMovementService creates a new MovementService
func NewMovementService(
	movementRepo inventory.InventoryMovementRepository,
	itemRepo inventory.InventoryItemRepository,
	scope TransactionScope,
	audit shared.AuditSink,
) *MovementService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &MovementService{
		movementRepo: movementRepo,
		itemRepo:     itemRepo,
		scope:        scope,
		audit:        audit,
	}
}

// SetLedgerMetrics sets the metrics collector
func (s *MovementService) SetLedgerMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// GetByID retrieves one movement of the actor's business
func (s *MovementService) GetByID(ctx context.Context, actor shared.Actor, movementID uuid.UUID) (*MovementResponse, error) {
	m, err := s.movementRepo.FindByIDForTenant(ctx, actor.TenantID, movementID)
	if err != nil {
		return nil, notFoundMovement(err, movementID)
	}
	resp := ToMovementResponse(m)
	return &resp, nil
}

// History lists the movements of one item, newest first
func (s *MovementService) History(ctx context.Context, actor shared.Actor, itemID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	if _, err := s.itemRepo.FindByIDForTenant(ctx, actor.TenantID, itemID); err != nil {
		return nil, 0, notFoundItem(err, itemID)
	}
	filter.InventoryItemID = &itemID
	return s.List(ctx, actor, filter)
}

// List lists movements with optional type, item and reference filters
func (s *MovementService) List(ctx context.Context, actor shared.Actor, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := newDomainFilter(filter.Page, filter.PageSize, "created_at", "desc")
	if filter.MovementType != "" {
		movementType, err := inventory.ParseMovementType(filter.MovementType)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Filters["movement_type"] = movementType.String()
	}
	if filter.InventoryItemID != nil {
		domainFilter.Filters["inventory_item_id"] = *filter.InventoryItemID
	}
	if filter.ReferenceID != nil {
		domainFilter.Filters["reference_id"] = *filter.ReferenceID
	}

	movements, err := s.movementRepo.FindAllForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.CountForTenant(ctx, actor.TenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMovementResponses(movements), total, nil
}

// Revert books the compensating movement of movementID and marks the
// original as reverted. A movement is reverted at most once; the original
// row is locked so concurrent attempts serialize and all but one fail.
func (s *MovementService) Revert(ctx context.Context, actor shared.Actor, movementID uuid.UUID, req RevertMovementRequest) (*StockChangeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "movement", "revert",
		telemetry.WithAttribute(telemetry.SpanAttrMovementID, movementID),
		telemetry.WithAttribute(telemetry.SpanAttrBusinessID, actor.TenantID),
	)
	defer span.End()

	resp, err := s.revert(ctx, actor, movementID, req)
	telemetry.RecordError(span, err)
	return resp, err
}

func (s *MovementService) revert(ctx context.Context, actor shared.Actor, movementID uuid.UUID, req RevertMovementRequest) (*StockChangeResponse, error) {
	if err := actor.Require("revert movements", shared.RoleOwner); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, shared.NewValidationError("A reason is required to revert a movement")
	}

	var (
		original *inventory.InventoryMovement
		reversal *inventory.InventoryMovement
		item     *inventory.InventoryItem
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		original, err = repos.MovementRepo().FindByIDForUpdate(ctx, actor.TenantID, movementID)
		if err != nil {
			return notFoundMovement(err, movementID)
		}
		if err := original.EnsureRevertible(); err != nil {
			return err
		}

		item, err = repos.ItemRepo().FindByIDForUpdate(ctx, actor.TenantID, original.InventoryItemID)
		if err != nil {
			return notFoundItem(err, original.InventoryItemID)
		}
		reversal, err = postMovement(ctx, repos, item, original.ReversalSpec(reason, actor.UserRef()))
		if err != nil {
			return err
		}

		if err := original.MarkReverted(reversal.ID); err != nil {
			return err
		}
		return repos.MovementRepo().MarkReverted(ctx, original)
	})
	if err != nil {
		if shared.IsDomainError(err, shared.CodeInsufficientStock) {
			s.metrics.RecordInsufficientStock(ctx, actor.TenantID)
		}
		return nil, err
	}

	s.metrics.RecordMovement(ctx, actor.TenantID, reversal.Type.String(), reversal.Quantity)
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Movement reverted: %s (original movement #%s, type: %s, quantity: %s). Reason: %s. Reverted by %s",
		item.Name, original.ID, original.Type, signed(original.Quantity), reason, actor.DisplayName(),
	)))

	return &StockChangeResponse{
		Item:     ToItemResponse(item),
		Movement: ToMovementResponse(reversal),
	}, nil
}

func notFoundMovement(err error, movementID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Movement %s", movementID)).
			WithDetail("movement_id", movementID.String())
	}
	return err
}
