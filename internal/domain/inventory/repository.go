package inventory

import (
	"context"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ItemKey identifies an item inside a tenant
type ItemKey struct {
	TenantID uuid.UUID
	ItemID   uuid.UUID
}

// NameKey identifies a (name, unit of measure) slot inside a tenant
type NameKey struct {
	TenantID      uuid.UUID
	Name          string
	UnitOfMeasure string
}

// String is the lock key for the slot
func (k NameKey) String() string {
	return k.TenantID.String() + "|" + k.Name + "|" + k.UnitOfMeasure
}

// InventoryItemRepository persists InventoryItem aggregates.
// Every lookup is scoped by tenant, except LockItems which the transfer
// flow uses to lock rows of two tenants in a single ordered pass.
type InventoryItemRepository interface {
	// FindByIDForTenant finds an item by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForUpdate finds an item and takes a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindByIDs finds the given items of a tenant (missing ids are skipped)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]InventoryItem, error)

	// LockItems row-locks the given items in ascending id order and returns them
	LockItems(ctx context.Context, keys []ItemKey) ([]InventoryItem, error)

	// FindActiveByNameAndUnit finds an active item of a tenant by exact name and unit of measure
	FindActiveByNameAndUnit(ctx context.Context, tenantID uuid.UUID, name, unitOfMeasure string) (*InventoryItem, error)

	// LockNames serializes item creation per (tenant, name, unit) until the
	// transaction ends. Keys are locked in ascending order.
	LockNames(ctx context.Context, keys []NameKey) error

	// FindAllForTenant lists items. Filters: "category", "is_active".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// CountForTenant counts items matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindBelowMinimum lists active items whose stock is under their minimum
	FindBelowMinimum(ctx context.Context, tenantID uuid.UUID) ([]InventoryItem, error)

	// ExistsBySKU checks SKU uniqueness within a tenant, optionally ignoring one item
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates an item
	Save(ctx context.Context, item *InventoryItem) error
}

// InventoryMovementRepository stores the append-only movement log
type InventoryMovementRepository interface {
	// FindByIDForTenant finds a movement by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryMovement, error)

	// FindByIDForUpdate finds a movement and takes a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*InventoryMovement, error)

	// FindByItem lists the movements of one item, newest first
	FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]InventoryMovement, error)

	// FindAllForTenant lists movements. Filters: "movement_type", "inventory_item_id", "reference_id".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryMovement, error)

	// CountForTenant counts movements matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Create appends a movement
	Create(ctx context.Context, movement *InventoryMovement) error

	// MarkReverted persists the reversal link of a movement
	MarkReverted(ctx context.Context, movement *InventoryMovement) error
}

// TransferQuery narrows transfer listings for one business
type TransferQuery struct {
	Direction TransferDirection
	Status    *TransferStatus
	Filter    shared.Filter
}

// InventoryTransferRepository persists transfers with their items
type InventoryTransferRepository interface {
	// FindByID loads a transfer with its items. Party checks are the caller's job.
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransfer, error)

	// FindByIDForUpdate loads and row-locks a transfer header
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*InventoryTransfer, error)

	// FindForBusiness lists transfers where the business is a party
	FindForBusiness(ctx context.Context, businessID uuid.UUID, query TransferQuery) ([]InventoryTransfer, error)

	// CountForBusiness counts transfers where the business is a party
	CountForBusiness(ctx context.Context, businessID uuid.UUID, query TransferQuery) (int64, error)

	// Create persists the header and all items
	Create(ctx context.Context, transfer *InventoryTransfer) error

	// UpdateStatus persists status, completed_at and updated_at
	UpdateStatus(ctx context.Context, transfer *InventoryTransfer) error
}
