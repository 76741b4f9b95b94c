package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

// RelationshipGate answers whether two businesses may exchange stock
type RelationshipGate interface {
	IsActiveBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// BusinessLookup resolves businesses by id; a missing business is shared.ErrNotFound
type BusinessLookup interface {
	GetBusiness(ctx context.Context, id uuid.UUID) (*business.Business, error)
}

// TransferService orchestrates stock transfers between related businesses
type TransferService struct {
	transferRepo inventory.InventoryTransferRepository
	itemRepo     inventory.InventoryItemRepository
	scope        TransactionScope
	gate         RelationshipGate
	businesses   BusinessLookup
	audit        shared.AuditSink
	metrics      *telemetry.LedgerMetrics
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo inventory.InventoryTransferRepository,
	itemRepo inventory.InventoryItemRepository,
	scope TransactionScope,
	gate RelationshipGate,
	businesses BusinessLookup,
	audit shared.AuditSink,
) *TransferService {
	if audit == nil {
		audit = shared.NopAuditSink{}
	}
	return &TransferService{
		transferRepo: transferRepo,
		itemRepo:     itemRepo,
		scope:        scope,
		gate:         gate,
		businesses:   businesses,
		audit:        audit,
	}
}

// SetLedgerMetrics sets the metrics collector
func (s *TransferService) SetLedgerMetrics(m *telemetry.LedgerMetrics) {
	s.metrics = m
}

// Create records a pending transfer from the actor's business. Stock is
// checked but not moved until the destination accepts.
func (s *TransferService) Create(ctx context.Context, actor shared.Actor, req CreateTransferRequest) (*TransferResponse, error) {
	if err := actor.Require("create transfers", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}
	from, to := actor.TenantID, req.ToBusinessID
	if from == to {
		return nil, shared.NewValidationError("Cannot transfer inventory to the same business")
	}
	target, err := s.businesses.GetBusiness(ctx, to)
	if err != nil {
		return nil, notFoundBusiness(err, to)
	}
	if err := s.requireRelationship(ctx, from, to); err != nil {
		return nil, err
	}

	lines := make([]inventory.TransferLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = inventory.TransferLine{
			InventoryItemID: it.InventoryItemID,
			Quantity:        it.Quantity,
			Notes:           it.Notes,
		}
	}
	transfer, err := inventory.NewInventoryTransfer(from, to, actor.UserRef(), req.Notes, lines)
	if err != nil {
		return nil, err
	}

	var origin map[uuid.UUID]*inventory.InventoryItem
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		origin, err = loadItems(ctx, repos.ItemRepo(), from, transfer.ItemIDs())
		if err != nil {
			return err
		}
		for _, line := range transfer.Items {
			item, ok := origin[line.InventoryItemID]
			if !ok {
				return inventory.NewItemNotFoundError(line.InventoryItemID)
			}
			if !item.IsActive {
				return inventory.NewInactiveItemError(item)
			}
			if !item.CanSupply(line.Quantity) {
				return inventory.NewInsufficientStockError(item, line.Quantity.Neg())
			}
		}
		return repos.TransferRepo().Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransfer(ctx, string(inventory.TransferPending))
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Inventory transfer created to '%s' (ID: %s, %d items) by %s. Status: PENDING",
		target.Name, transfer.ID, len(transfer.Items), actor.DisplayName(),
	)))

	resp := ToTransferResponse(transfer, origin)
	return &resp, nil
}

// Accept completes a pending transfer on behalf of the destination.
//
// Everything happens in one transaction: the transfer row is locked first,
// then destination items are resolved by (name, unit of measure), then all
// origin and matched destination items are locked in ascending id order,
// stock is re-validated and one transfer_out and one transfer_in movement is
// posted per line. Any failure rolls the whole transfer back.
// The relationship is checked at creation only; active relationships are terminal.
func (s *TransferService) Accept(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transfer", "accept",
		telemetry.WithAttribute(telemetry.SpanAttrTransferID, transferID),
		telemetry.WithAttribute(telemetry.SpanAttrBusinessID, actor.TenantID),
	)
	defer span.End()

	resp, err := s.accept(ctx, actor, transferID)
	telemetry.RecordError(span, err)
	return resp, err
}

func (s *TransferService) accept(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	if err := actor.Require("accept transfers", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}

	var (
		transfer *inventory.InventoryTransfer
		origin   map[uuid.UUID]*inventory.InventoryItem
		clones   int
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = s.lockForDecision(ctx, repos, actor, transferID)
		if err != nil {
			return err
		}
		if actor.TenantID != transfer.ToBusinessID {
			return shared.NewForbiddenError("Only the destination business can accept this transfer")
		}
		if err := transfer.EnsurePending(); err != nil {
			return err
		}

		// Unlocked read: only name and unit are needed to find destination matches.
		snapshot, err := loadItems(ctx, repos.ItemRepo(), transfer.FromBusinessID, transfer.ItemIDs())
		if err != nil {
			return err
		}
		matches := make(map[uuid.UUID]uuid.UUID, len(snapshot)) // origin id -> destination id
		var unmatched []*inventory.InventoryItem
		for _, line := range transfer.Items {
			src, ok := snapshot[line.InventoryItemID]
			if !ok {
				return inventory.NewItemNotFoundError(line.InventoryItemID)
			}
			found, err := findDestination(ctx, repos, transfer.ToBusinessID, src, matches)
			if err != nil {
				return err
			}
			if !found {
				unmatched = append(unmatched, src)
			}
		}

		// A concurrent accept may be cloning the same item into this
		// destination; hold the name slot and look again once it is ours.
		if len(unmatched) > 0 {
			names := make([]inventory.NameKey, 0, len(unmatched))
			for _, src := range unmatched {
				names = append(names, inventory.NameKey{
					TenantID: transfer.ToBusinessID, Name: src.Name, UnitOfMeasure: src.UnitOfMeasure,
				})
			}
			if err := repos.ItemRepo().LockNames(ctx, names); err != nil {
				return err
			}
			for _, src := range unmatched {
				if _, err := findDestination(ctx, repos, transfer.ToBusinessID, src, matches); err != nil {
					return err
				}
			}
		}

		keys := make([]inventory.ItemKey, 0, 2*len(snapshot))
		for _, line := range transfer.Items {
			keys = append(keys, inventory.ItemKey{TenantID: transfer.FromBusinessID, ItemID: line.InventoryItemID})
			if dstID, ok := matches[line.InventoryItemID]; ok {
				keys = append(keys, inventory.ItemKey{TenantID: transfer.ToBusinessID, ItemID: dstID})
			}
		}

		locked, err := repos.ItemRepo().LockItems(ctx, keys)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*inventory.InventoryItem, len(locked))
		for i := range locked {
			byID[locked[i].ID] = &locked[i]
		}

		origin = make(map[uuid.UUID]*inventory.InventoryItem, len(transfer.Items))
		created := make(map[string]*inventory.InventoryItem)
		for _, line := range transfer.Items {
			src, ok := byID[line.InventoryItemID]
			if !ok || src.TenantID != transfer.FromBusinessID {
				return inventory.NewItemNotFoundError(line.InventoryItemID)
			}
			origin[src.ID] = src

			if _, err := postMovement(ctx, repos, src, inventory.MovementSpec{
				Type:        inventory.MovementTransferOut,
				Quantity:    line.Quantity.Neg(),
				Reason:      "Transfer " + transfer.ID.String(),
				ReferenceID: &transfer.ID,
				CreatedBy:   actor.UserRef(),
			}); err != nil {
				return err
			}

			dst, err := resolveDestination(ctx, repos, src, transfer.ToBusinessID, matches, byID, created)
			if err != nil {
				return err
			}
			if _, err := postMovement(ctx, repos, dst, inventory.MovementSpec{
				Type:        inventory.MovementTransferIn,
				Quantity:    line.Quantity,
				Reason:      "Transfer " + transfer.ID.String(),
				ReferenceID: &transfer.ID,
				CreatedBy:   actor.UserRef(),
			}); err != nil {
				return err
			}
		}
		clones = len(created)

		if err := transfer.Complete(actor.TenantID); err != nil {
			return err
		}
		return repos.TransferRepo().UpdateStatus(ctx, transfer)
	})
	if err != nil {
		if shared.IsDomainError(err, shared.CodeInsufficientStock) {
			s.metrics.RecordInsufficientStock(ctx, actor.TenantID)
		}
		return nil, err
	}

	s.metrics.RecordTransfer(ctx, string(inventory.TransferCompleted))
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Inventory transfer accepted (ID: %s) from '%s' by %s. %d items received, %d new items created. Status: COMPLETED",
		transfer.ID, s.businessName(ctx, transfer.FromBusinessID), actor.DisplayName(), len(transfer.Items), clones,
	)))

	resp := ToTransferResponse(transfer, origin)
	return &resp, nil
}

// findDestination records the active destination item matching src, if any
func findDestination(
	ctx context.Context,
	repos TransactionalRepositories,
	destTenant uuid.UUID,
	src *inventory.InventoryItem,
	matches map[uuid.UUID]uuid.UUID,
) (bool, error) {
	dst, err := repos.ItemRepo().FindActiveByNameAndUnit(ctx, destTenant, src.Name, src.UnitOfMeasure)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	matches[src.ID] = dst.ID
	return true, nil
}

// resolveDestination returns the locked destination item matching src, or a
// fresh clone in the destination tenant. Clones are reused when two origin
// items share a name and unit of measure.
func resolveDestination(
	ctx context.Context,
	repos TransactionalRepositories,
	src *inventory.InventoryItem,
	destTenant uuid.UUID,
	matches map[uuid.UUID]uuid.UUID,
	locked map[uuid.UUID]*inventory.InventoryItem,
	created map[string]*inventory.InventoryItem,
) (*inventory.InventoryItem, error) {
	if id, ok := matches[src.ID]; ok {
		dst, ok := locked[id]
		if ok && dst.IsActive && dst.Matches(src.Name, src.UnitOfMeasure) {
			return dst, nil
		}
	}
	key := src.Name + "\x00" + src.UnitOfMeasure
	if dst, ok := created[key]; ok {
		return dst, nil
	}
	clone := src.CloneFor(destTenant)
	if err := repos.ItemRepo().Save(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to create destination item: %w", err)
	}
	created[key] = clone
	return clone, nil
}

// Reject refuses a pending transfer on behalf of the destination
func (s *TransferService) Reject(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	if err := actor.Require("reject transfers", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}
	transfer, err := s.decide(ctx, actor, transferID, func(t *inventory.InventoryTransfer) error {
		return t.Reject(actor.TenantID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransfer(ctx, string(inventory.TransferRejected))
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Inventory transfer rejected (ID: %s) from '%s' by %s. Status: REJECTED",
		transfer.ID, s.businessName(ctx, transfer.FromBusinessID), actor.DisplayName(),
	)))
	resp := ToTransferResponse(transfer, nil)
	return &resp, nil
}

// Cancel withdraws a pending transfer on behalf of the origin
func (s *TransferService) Cancel(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	if err := actor.Require("cancel transfers", shared.RoleOwner, shared.RoleAdmin); err != nil {
		return nil, err
	}
	transfer, err := s.decide(ctx, actor, transferID, func(t *inventory.InventoryTransfer) error {
		return t.Cancel(actor.TenantID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransfer(ctx, string(inventory.TransferCancelled))
	s.audit.Record(ctx, shared.NewAuditEntry(actor, fmt.Sprintf(
		"Inventory transfer cancelled (ID: %s) to '%s' by %s. Status: CANCELLED",
		transfer.ID, s.businessName(ctx, transfer.ToBusinessID), actor.DisplayName(),
	)))
	resp := ToTransferResponse(transfer, nil)
	return &resp, nil
}

func (s *TransferService) decide(ctx context.Context, actor shared.Actor, transferID uuid.UUID, transition func(*inventory.InventoryTransfer) error) (*inventory.InventoryTransfer, error) {
	var transfer *inventory.InventoryTransfer
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		transfer, err = s.lockForDecision(ctx, repos, actor, transferID)
		if err != nil {
			return err
		}
		if err := transition(transfer); err != nil {
			return err
		}
		return repos.TransferRepo().UpdateStatus(ctx, transfer)
	})
	return transfer, err
}

// lockForDecision locks the transfer row and hides transfers the actor is not party to
func (s *TransferService) lockForDecision(ctx context.Context, repos TransactionalRepositories, actor shared.Actor, transferID uuid.UUID) (*inventory.InventoryTransfer, error) {
	transfer, err := repos.TransferRepo().FindByIDForUpdate(ctx, transferID)
	if err != nil {
		return nil, notFoundTransfer(err, transferID)
	}
	if !transfer.IsParty(actor.TenantID) {
		return nil, notFoundTransfer(shared.ErrNotFound, transferID)
	}
	return transfer, nil
}

// GetByID returns a transfer visible to either party, with origin item names
func (s *TransferService) GetByID(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, transferID)
	if err != nil {
		return nil, notFoundTransfer(err, transferID)
	}
	if !transfer.IsParty(actor.TenantID) {
		return nil, notFoundTransfer(shared.ErrNotFound, transferID)
	}
	origin, err := loadItems(ctx, s.itemRepo, transfer.FromBusinessID, transfer.ItemIDs())
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(transfer, origin)
	return &resp, nil
}

// List lists transfers of the actor's business
func (s *TransferService) List(ctx context.Context, actor shared.Actor, filter TransferListFilter) ([]TransferResponse, int64, error) {
	query := inventory.TransferQuery{
		Direction: inventory.TransferDirection(filter.Direction),
		Filter:    newDomainFilter(filter.Page, filter.PageSize, "created_at", "desc"),
	}
	if filter.Status != "" {
		status := inventory.TransferStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Invalid transfer status: " + filter.Status)
		}
		query.Status = &status
	}

	transfers, err := s.transferRepo.FindForBusiness(ctx, actor.TenantID, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.CountForBusiness(ctx, actor.TenantID, query)
	if err != nil {
		return nil, 0, err
	}
	return ToTransferResponses(transfers), total, nil
}

func (s *TransferService) requireRelationship(ctx context.Context, a, b uuid.UUID) error {
	active, err := s.gate.IsActiveBetween(ctx, a, b)
	if err != nil {
		return err
	}
	if !active {
		return shared.ErrRelationshipRequired.
			WithDetail("from_business_id", a.String()).
			WithDetail("to_business_id", b.String())
	}
	return nil
}

// businessName is used for audit text only; lookups failing after commit fall back to the id
func (s *TransferService) businessName(ctx context.Context, id uuid.UUID) string {
	b, err := s.businesses.GetBusiness(ctx, id)
	if err != nil {
		return id.String()
	}
	return b.Name
}

func loadItems(ctx context.Context, repo inventory.InventoryItemRepository, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*inventory.InventoryItem, error) {
	items, err := repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID, nil
}

func notFoundTransfer(err error, transferID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Transfer %s", transferID)).
			WithDetail("transfer_id", transferID.String())
	}
	return err
}

func notFoundBusiness(err error, businessID uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewNotFoundError(fmt.Sprintf("Business %s", businessID)).
			WithDetail("business_id", businessID.String())
	}
	return err
}
