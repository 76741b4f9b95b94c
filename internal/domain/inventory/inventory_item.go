package inventory

import (
	"strings"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem is a tenant-scoped stock-keeping unit.
// QuantityInStock is only changed through Post (the stock ledger).
type InventoryItem struct {
	shared.TenantAggregateRoot
	SupplierID      *uuid.UUID
	Name            string
	Category        string
	UnitOfMeasure   string
	SKU             *string
	QuantityInStock decimal.Decimal
	MinStock        *decimal.Decimal
	MaxStock        *decimal.Decimal
	UnitPrice       decimal.Decimal
	TaxPercentage   *decimal.Decimal
	IncludeTax      bool
	IsActive        bool
}

// NewInventoryItem creates an active item with zero stock
func NewInventoryItem(tenantID uuid.UUID, name, category, unitOfMeasure string, unitPrice decimal.Decimal) (*InventoryItem, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Tenant ID cannot be empty")
	}
	item := &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		QuantityInStock:     decimal.Zero,
		IsActive:            true,
	}
	if err := item.SetDetails(name, category, unitOfMeasure); err != nil {
		return nil, err
	}
	if err := item.SetUnitPrice(unitPrice); err != nil {
		return nil, err
	}
	return item, nil
}

// SetDetails updates the descriptive fields
func (i *InventoryItem) SetDetails(name, category, unitOfMeasure string) error {
	name = strings.TrimSpace(name)
	unitOfMeasure = strings.TrimSpace(unitOfMeasure)
	if name == "" {
		return shared.NewValidationError("Item name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("Item name cannot exceed 255 characters")
	}
	if unitOfMeasure == "" {
		return shared.NewValidationError("Unit of measure cannot be empty")
	}
	i.Name = name
	i.Category = strings.TrimSpace(category)
	i.UnitOfMeasure = unitOfMeasure
	i.Touch()
	return nil
}

// SetUnitPrice sets the price per unit, rounded to cents
func (i *InventoryItem) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Unit price cannot be negative")
	}
	i.UnitPrice = shared.RoundMoney(price)
	i.Touch()
	return nil
}

// SetThresholds sets the optional min/max stock levels
func (i *InventoryItem) SetThresholds(minStock, maxStock *decimal.Decimal) error {
	if minStock != nil && minStock.IsNegative() {
		return shared.NewValidationError("Minimum stock cannot be negative")
	}
	if maxStock != nil && maxStock.IsNegative() {
		return shared.NewValidationError("Maximum stock cannot be negative")
	}
	if minStock != nil && maxStock != nil && maxStock.LessThan(*minStock) {
		return shared.NewValidationError("Maximum stock must be greater than or equal to minimum stock")
	}
	i.MinStock = roundedQuantityPtr(minStock)
	i.MaxStock = roundedQuantityPtr(maxStock)
	i.Touch()
	return nil
}

// SetTax sets the optional tax percentage and whether prices include it
func (i *InventoryItem) SetTax(percentage *decimal.Decimal, includeTax bool) error {
	if percentage != nil && (percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100))) {
		return shared.NewValidationError("Tax percentage must be between 0 and 100")
	}
	if percentage != nil {
		p := shared.RoundMoney(*percentage)
		i.TaxPercentage = &p
	} else {
		i.TaxPercentage = nil
	}
	i.IncludeTax = includeTax
	i.Touch()
	return nil
}

// SetSKU sets or clears the SKU; uniqueness is checked by the caller
func (i *InventoryItem) SetSKU(sku *string) {
	if sku != nil {
		trimmed := strings.TrimSpace(*sku)
		if trimmed == "" {
			sku = nil
		} else {
			sku = &trimmed
		}
	}
	i.SKU = sku
	i.Touch()
}

// SetSupplier sets or clears the supplier reference
func (i *InventoryItem) SetSupplier(supplierID *uuid.UUID) {
	i.SupplierID = supplierID
	i.Touch()
}

// Deactivate soft-deletes the item
func (i *InventoryItem) Deactivate() error {
	if !i.IsActive {
		return shared.NewInvalidStateError("Item '" + i.Name + "' is already inactive")
	}
	i.IsActive = false
	i.IncrementVersion()
	return nil
}

// IsBelowMinimum reports whether stock is under the configured minimum
func (i *InventoryItem) IsBelowMinimum() bool {
	return i.MinStock != nil && i.QuantityInStock.LessThan(*i.MinStock)
}

// CanSupply reports whether the item holds at least qty in stock
func (i *InventoryItem) CanSupply(qty decimal.Decimal) bool {
	return i.QuantityInStock.GreaterThanOrEqual(qty)
}

// Matches reports whether the item is the same stock-keeping unit by name and unit of measure
func (i *InventoryItem) Matches(name, unitOfMeasure string) bool {
	return i.Name == name && i.UnitOfMeasure == unitOfMeasure
}

// CloneFor creates an empty copy of the item in another tenant.
// Supplier and SKU stay behind: they are meaningful only in the source tenant.
func (i *InventoryItem) CloneFor(tenantID uuid.UUID) *InventoryItem {
	clone := &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                i.Name,
		Category:            i.Category,
		UnitOfMeasure:       i.UnitOfMeasure,
		QuantityInStock:     decimal.Zero,
		MinStock:            copyDecimalPtr(i.MinStock),
		MaxStock:            copyDecimalPtr(i.MaxStock),
		UnitPrice:           i.UnitPrice,
		TaxPercentage:       copyDecimalPtr(i.TaxPercentage),
		IncludeTax:          i.IncludeTax,
		IsActive:            true,
	}
	return clone
}

// applyDelta changes the stock by delta. The result must stay non-negative.
func (i *InventoryItem) applyDelta(delta decimal.Decimal) error {
	next := i.QuantityInStock.Add(delta)
	if next.IsNegative() {
		return NewInsufficientStockError(i, delta)
	}
	i.QuantityInStock = shared.RoundQuantity(next)
	i.IncrementVersion()
	return nil
}

func roundedQuantityPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := shared.RoundQuantity(*d)
	return &v
}

func copyDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
