package catalog

import (
	"time"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientRequest is one recipe line in a request
type IngredientRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// CreateProductRequest represents a request to create a product.
// ProfitMarginPercentage, when set, must agree with SalePrice within one cent.
type CreateProductRequest struct {
	Name                   string              `json:"name" binding:"required,min=1,max=255"`
	Description            string              `json:"description" binding:"max=2000"`
	Category               string              `json:"category" binding:"max=100"`
	ImageURL               string              `json:"image_url" binding:"omitempty,url,max=500"`
	SalePrice              decimal.Decimal     `json:"sale_price"`
	ProfitMarginPercentage *decimal.Decimal    `json:"profit_margin_percentage"`
	Ingredients            []IngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
}

// UpdateProductRequest represents a partial product update; ingredients are
// replaced through ReplaceIngredientsRequest.
type UpdateProductRequest struct {
	Name                   *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description            *string          `json:"description" binding:"omitempty,max=2000"`
	Category               *string          `json:"category" binding:"omitempty,max=100"`
	ImageURL               *string          `json:"image_url" binding:"omitempty,max=500"`
	SalePrice              *decimal.Decimal `json:"sale_price"`
	ProfitMarginPercentage *decimal.Decimal `json:"profit_margin_percentage"`
}

// ReplaceIngredientsRequest replaces the whole ingredient set
type ReplaceIngredientsRequest struct {
	Ingredients []IngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                     uuid.UUID            `json:"id"`
	TenantID               uuid.UUID            `json:"tenant_id"`
	Name                   string               `json:"name"`
	Description            string               `json:"description,omitempty"`
	Category               string               `json:"category,omitempty"`
	ImageURL               string               `json:"image_url,omitempty"`
	SalePrice              decimal.Decimal      `json:"sale_price"`
	TotalCost              decimal.Decimal      `json:"total_cost"`
	ProfitAmount           decimal.Decimal      `json:"profit_amount"`
	ProfitMarginPercentage decimal.Decimal      `json:"profit_margin_percentage"`
	IsActive               bool                 `json:"is_active"`
	Ingredients            []IngredientResponse `json:"ingredients,omitempty"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
	Version                int                  `json:"version"`
}

// IngredientResponse represents a recipe line in API responses
type IngredientResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// CreateModifierGroupRequest represents a request to create a modifier group
type CreateModifierGroupRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	Description   string `json:"description" binding:"max=500"`
	AllowMultiple bool   `json:"allow_multiple"`
	IsRequired    bool   `json:"is_required"`
}

// UpdateModifierGroupRequest represents a partial group update
type UpdateModifierGroupRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string `json:"description" binding:"omitempty,max=500"`
	AllowMultiple *bool   `json:"allow_multiple"`
	IsRequired    *bool   `json:"is_required"`
	IsActive      *bool   `json:"is_active"`
}

// ModifierGroupResponse represents a modifier group in API responses
type ModifierGroupResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	AllowMultiple bool      `json:"allow_multiple"`
	IsRequired    bool      `json:"is_required"`
	IsActive      bool      `json:"is_active"`
	ModifierCount int       `json:"modifier_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ModifierItemRequest is one stock effect of a modifier. Quantity is signed:
// positive consumes more of the item, negative consumes less.
type ModifierItemRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// CreateModifierRequest represents a request to create a modifier
type CreateModifierRequest struct {
	GroupID     uuid.UUID             `json:"group_id" binding:"required"`
	Name        string                `json:"name" binding:"required,min=1,max=100"`
	Description string                `json:"description" binding:"max=500"`
	PriceExtra  decimal.Decimal       `json:"price_extra"`
	Items       []ModifierItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateModifierRequest represents a partial modifier update
type UpdateModifierRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	PriceExtra  *decimal.Decimal `json:"price_extra"`
	IsActive    *bool            `json:"is_active"`
}

// ModifierResponse represents a modifier in API responses
type ModifierResponse struct {
	ID          uuid.UUID              `json:"id"`
	GroupID     uuid.UUID              `json:"group_id"`
	GroupName   string                 `json:"group_name,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	PriceExtra  decimal.Decimal        `json:"price_extra"`
	IsActive    bool                   `json:"is_active"`
	Items       []ModifierItemResponse `json:"items,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ModifierItemResponse represents a modifier stock effect in API responses
type ModifierItemResponse struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// AssignModifierRequest attaches a modifier to a product
type AssignModifierRequest struct {
	ModifierID uuid.UUID `json:"modifier_id" binding:"required"`
}

// ProductModifierResponse represents an assignment in API responses
type ProductModifierResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ModifierID   uuid.UUID       `json:"modifier_id"`
	ModifierName string          `json:"modifier_name,omitempty"`
	GroupName    string          `json:"group_name,omitempty"`
	PriceExtra   decimal.Decimal `json:"price_extra"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToProductResponse converts a domain Product
func ToProductResponse(p *catalog.Product) ProductResponse {
	resp := ProductResponse{
		ID:                     p.ID,
		TenantID:               p.TenantID,
		Name:                   p.Name,
		Description:            p.Description,
		Category:               p.Category,
		ImageURL:               p.ImageURL,
		SalePrice:              p.SalePrice,
		TotalCost:              p.TotalCost,
		ProfitAmount:           p.ProfitAmount,
		ProfitMarginPercentage: p.ProfitMarginPercentage,
		IsActive:               p.IsActive,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
		Version:                p.Version,
	}
	if len(p.Ingredients) > 0 {
		resp.Ingredients = make([]IngredientResponse, len(p.Ingredients))
		for i, ing := range p.Ingredients {
			resp.Ingredients[i] = IngredientResponse{
				ID:              ing.ID,
				InventoryItemID: ing.InventoryItemID,
				ItemName:        ing.ItemName,
				Quantity:        ing.Quantity,
				UnitCost:        ing.UnitCost,
				TotalCost:       ing.TotalCost,
			}
		}
	}
	return resp
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// ToModifierGroupResponse converts a domain ModifierGroup
func ToModifierGroupResponse(g *catalog.ModifierGroup) ModifierGroupResponse {
	return ModifierGroupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		AllowMultiple: g.AllowMultiple,
		IsRequired:    g.IsRequired,
		IsActive:      g.IsActive,
		ModifierCount: g.ModifierCount,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// ToModifierResponse converts a domain Modifier
func ToModifierResponse(m *catalog.Modifier) ModifierResponse {
	resp := ModifierResponse{
		ID:          m.ID,
		GroupID:     m.GroupID,
		GroupName:   m.GroupName,
		Name:        m.Name,
		Description: m.Description,
		PriceExtra:  m.PriceExtra,
		IsActive:    m.IsActive,
		Items:       make([]ModifierItemResponse, len(m.Items)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i, it := range m.Items {
		resp.Items[i] = ModifierItemResponse{
			InventoryItemID: it.InventoryItemID,
			ItemName:        it.ItemName,
			Quantity:        it.Quantity,
		}
	}
	return resp
}

// ToProductModifierResponse converts an assignment with display fields
func ToProductModifierResponse(a *catalog.AssignedModifier) ProductModifierResponse {
	return ProductModifierResponse{
		ID:           a.ID,
		ProductID:    a.ProductID,
		ModifierID:   a.ModifierID,
		ModifierName: a.ModifierName,
		GroupName:    a.GroupName,
		PriceExtra:   a.PriceExtra,
		CreatedAt:    a.CreatedAt,
	}
}
