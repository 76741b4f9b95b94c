package catalog

import (
	"fmt"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred         = decimal.NewFromInt(100)
	marginTolerance = decimal.New(1, -2)
)

// ProductIngredient is one recipe line. UnitCost is a snapshot of the item's
// unit price when the line was created; it does not follow later price changes.
type ProductIngredient struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
}

// IngredientCost is a resolved ingredient request: quantity plus the unit
// price read from the inventory item.
type IngredientCost struct {
	InventoryItemID uuid.UUID
	ItemName        string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
}

// LineTotal returns quantity × unit price at money scale
func (c IngredientCost) LineTotal() decimal.Decimal {
	return shared.RoundMoney(c.Quantity.Mul(c.UnitPrice))
}

// SumCost adds up the line totals
func SumCost(lines []ProductIngredient) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalCost)
	}
	return shared.RoundMoney(total)
}

// DeriveMargin returns (sale − cost) / sale × 100 at money scale, or zero for a free product
func DeriveMargin(salePrice, totalCost decimal.Decimal) decimal.Decimal {
	if salePrice.IsZero() {
		return decimal.Zero
	}
	return shared.RoundMoney(salePrice.Sub(totalCost).Div(salePrice).Mul(hundred))
}

// CheckDuplicateItems fails when the same item id appears twice
func CheckDuplicateItems(ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return shared.NewValidationError(fmt.Sprintf("Item %s appears more than once", id)).
				WithDetail("item_id", id.String())
		}
		seen[id] = struct{}{}
	}
	return nil
}

func buildIngredients(productID uuid.UUID, costs []IngredientCost) ([]ProductIngredient, error) {
	if len(costs) == 0 {
		return nil, shared.NewValidationError("A product needs at least one ingredient")
	}
	ids := make([]uuid.UUID, len(costs))
	for i, c := range costs {
		ids[i] = c.InventoryItemID
	}
	if err := CheckDuplicateItems(ids); err != nil {
		return nil, err
	}

	lines := make([]ProductIngredient, 0, len(costs))
	for _, c := range costs {
		qty := shared.RoundQuantity(c.Quantity)
		if !qty.IsPositive() {
			return nil, shared.NewValidationError("Ingredient quantity must be greater than zero").
				WithDetail("item_id", c.InventoryItemID.String())
		}
		if c.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("Ingredient unit cost cannot be negative")
		}
		c.Quantity = qty
		lines = append(lines, ProductIngredient{
			ID:              uuid.New(),
			ProductID:       productID,
			InventoryItemID: c.InventoryItemID,
			ItemName:        c.ItemName,
			Quantity:        qty,
			UnitCost:        shared.RoundMoney(c.UnitPrice),
			TotalCost:       c.LineTotal(),
		})
	}
	return lines, nil
}
