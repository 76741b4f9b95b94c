package partner

import (
	"context"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByIDForTenant finds a supplier by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)

	// FindAllForTenant finds all suppliers for a tenant. Filters: "is_active".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// CountForTenant counts suppliers matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsByEmail checks email uniqueness within a tenant
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID *uuid.UUID) (bool, error)

	// ExistsByTaxID checks tax id uniqueness within a tenant
	ExistsByTaxID(ctx context.Context, tenantID uuid.UUID, taxID string, excludeID *uuid.UUID) (bool, error)

	// CountItemReferences counts inventory items linked to the supplier
	CountItemReferences(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// Delete removes the supplier row; a missing row returns shared.ErrNotFound
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
