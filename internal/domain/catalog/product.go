package catalog

import (
	"fmt"
	"strings"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable recipe whose cost derives from its ingredients.
// SalePrice >= TotalCost holds at all times.
type Product struct {
	shared.TenantAggregateRoot
	Name                   string
	Description            string
	Category               string
	ImageURL               string
	SalePrice              decimal.Decimal
	TotalCost              decimal.Decimal
	ProfitAmount           decimal.Decimal
	ProfitMarginPercentage decimal.Decimal
	IsActive               bool
	Ingredients            []ProductIngredient
}

// ProductDetails carries the descriptive fields of a product
type ProductDetails struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
}

// NewProduct creates an active product priced from its ingredients.
// margin, when given, must agree with salePrice (see Reprice).
func NewProduct(tenantID uuid.UUID, details ProductDetails, salePrice decimal.Decimal, margin *decimal.Decimal, ingredients []IngredientCost) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewValidationError("Tenant ID cannot be empty")
	}
	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := p.SetDetails(details); err != nil {
		return nil, err
	}
	lines, err := buildIngredients(p.ID, ingredients)
	if err != nil {
		return nil, err
	}
	p.Ingredients = lines
	p.TotalCost = SumCost(lines)
	if err := p.Reprice(salePrice, margin); err != nil {
		return nil, err
	}
	return p, nil
}

// SetDetails updates the descriptive fields
func (p *Product) SetDetails(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewValidationError("Product name cannot exceed 255 characters")
	}
	p.Name = name
	p.Description = strings.TrimSpace(d.Description)
	p.Category = strings.TrimSpace(d.Category)
	p.ImageURL = strings.TrimSpace(d.ImageURL)
	p.Touch()
	return nil
}

// Reprice sets the sale price against the current total cost.
// With an explicit margin the price must equal cost × (1 + margin/100)
// within one cent; otherwise the margin is derived from the price.
func (p *Product) Reprice(salePrice decimal.Decimal, margin *decimal.Decimal) error {
	salePrice = shared.RoundMoney(salePrice)
	if salePrice.IsNegative() {
		return shared.NewValidationError("Sale price cannot be negative")
	}
	if salePrice.LessThan(p.TotalCost) {
		return newInsufficientMarginError(salePrice, p.TotalCost)
	}

	if margin != nil {
		if margin.IsNegative() || margin.GreaterThan(hundred) {
			return shared.NewValidationError("Profit margin must be between 0 and 100")
		}
		expected := p.TotalCost.Mul(decimal.NewFromInt(1).Add(margin.Div(hundred)))
		if salePrice.Sub(expected).Abs().GreaterThan(marginTolerance) {
			return shared.NewValidationError(fmt.Sprintf(
				"Sale price %s does not match total cost %s with a %s%% margin (expected %s)",
				salePrice.StringFixed(shared.MoneyScale),
				p.TotalCost.StringFixed(shared.MoneyScale),
				margin.StringFixed(shared.MoneyScale),
				shared.RoundMoney(expected).StringFixed(shared.MoneyScale),
			)).WithDetail("expected_sale_price", shared.RoundMoney(expected).StringFixed(shared.MoneyScale))
		}
		p.ProfitMarginPercentage = shared.RoundMoney(*margin)
	} else {
		p.ProfitMarginPercentage = DeriveMargin(salePrice, p.TotalCost)
	}

	p.SalePrice = salePrice
	p.ProfitAmount = salePrice.Sub(p.TotalCost)
	p.IncrementVersion()
	return nil
}

// ReplaceIngredients swaps the whole ingredient set and re-derives cost,
// profit and margin. The current sale price must cover the new cost; raising
// the price first is the caller's job.
func (p *Product) ReplaceIngredients(ingredients []IngredientCost) error {
	lines, err := buildIngredients(p.ID, ingredients)
	if err != nil {
		return err
	}
	total := SumCost(lines)
	if p.SalePrice.LessThan(total) {
		return newInsufficientMarginError(p.SalePrice, total)
	}
	p.Ingredients = lines
	p.TotalCost = total
	p.ProfitAmount = p.SalePrice.Sub(total)
	p.ProfitMarginPercentage = DeriveMargin(p.SalePrice, total)
	p.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the product
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewInvalidStateError("Product '" + p.Name + "' is already inactive")
	}
	p.IsActive = false
	p.IncrementVersion()
	return nil
}

// IngredientItemIDs returns the set of inventory items used by the recipe
func (p *Product) IngredientItemIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		ids[ing.InventoryItemID] = struct{}{}
	}
	return ids
}

func newInsufficientMarginError(salePrice, totalCost decimal.Decimal) *shared.DomainError {
	return &shared.DomainError{
		Code: shared.CodeInsufficientMargin,
		Message: fmt.Sprintf("Sale price %s is lower than total cost %s",
			salePrice.StringFixed(shared.MoneyScale), totalCost.StringFixed(shared.MoneyScale)),
		Details: map[string]any{
			"sale_price": salePrice.StringFixed(shared.MoneyScale),
			"total_cost": totalCost.StringFixed(shared.MoneyScale),
		},
	}
}
