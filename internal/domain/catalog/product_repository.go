package catalog

import (
	"context"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository persists products with their ingredient lines
type ProductRepository interface {
	// FindByIDForTenant loads a product and its ingredients
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate loads and row-locks a product and its ingredients
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindAllForTenant lists products without ingredients. Filters: "category", "is_active".
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForTenant counts products matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Create inserts the product and its ingredients
	Create(ctx context.Context, product *Product) error

	// Update saves the product header
	Update(ctx context.Context, product *Product) error

	// ReplaceIngredients deletes all ingredient rows and inserts the current ones
	ReplaceIngredients(ctx context.Context, product *Product) error
}

// ModifierRepository persists groups, modifiers and product assignments
type ModifierRepository interface {
	FindGroupByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ModifierGroup, error)
	FindGroupsForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ModifierGroup, error)
	SaveGroup(ctx context.Context, group *ModifierGroup) error

	// FindByIDForTenant loads a modifier with its items and group name
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Modifier, error)
	FindByGroup(ctx context.Context, tenantID, groupID uuid.UUID) ([]Modifier, error)
	NameExistsInGroup(ctx context.Context, groupID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, modifier *Modifier) error
	Update(ctx context.Context, modifier *Modifier) error

	FindAssignment(ctx context.Context, productID, modifierID uuid.UUID) (*ProductModifier, error)
	FindForProduct(ctx context.Context, productID uuid.UUID) ([]AssignedModifier, error)
	Assign(ctx context.Context, pm *ProductModifier) error
	Unassign(ctx context.Context, productID, modifierID uuid.UUID) error
}
