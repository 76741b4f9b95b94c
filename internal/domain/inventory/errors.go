package inventory

import (
	"fmt"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewInsufficientStockError reports that applying delta to item would make its stock negative
func NewInsufficientStockError(item *InventoryItem, delta decimal.Decimal) *shared.DomainError {
	return &shared.DomainError{
		Code: shared.CodeInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for '%s': current %s %s, requested change %s %s",
			item.Name,
			item.QuantityInStock.StringFixed(shared.QuantityScale), item.UnitOfMeasure,
			delta.StringFixed(shared.QuantityScale), item.UnitOfMeasure,
		),
		Details: map[string]any{
			"item_id":         item.ID.String(),
			"current_stock":   item.QuantityInStock.StringFixed(shared.QuantityScale),
			"requested":       delta.StringFixed(shared.QuantityScale),
			"unit_of_measure": item.UnitOfMeasure,
		},
	}
}

// NewItemNotFoundError reports an item missing from the given tenant
func NewItemNotFoundError(itemID uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError(fmt.Sprintf("Inventory item %s", itemID)).
		WithDetail("item_id", itemID.String())
}

// NewInactiveItemError reports an item that cannot take part in stock operations
func NewInactiveItemError(item *InventoryItem) *shared.DomainError {
	return shared.NewValidationError(fmt.Sprintf("Item '%s' is inactive", item.Name)).
		WithDetail("item_id", item.ID.String())
}
