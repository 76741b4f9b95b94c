package models

import (
	"time"

	"github.com/cafeops/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	TenantAggregateModel
	Name                   string                   `gorm:"type:varchar(255);not null"`
	Description            string                   `gorm:"type:text"`
	Category               string                   `gorm:"type:varchar(100);index"`
	ImageURL               string                   `gorm:"type:varchar(500)"`
	SalePrice              decimal.Decimal          `gorm:"type:decimal(12,2);not null;check:chk_products_sale_price_covers_cost,sale_price >= total_cost"`
	TotalCost              decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	ProfitAmount           decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	ProfitMarginPercentage decimal.Decimal          `gorm:"type:decimal(5,2);not null;default:0"`
	IsActive               bool                     `gorm:"not null;default:true;index"`
	Ingredients            []ProductIngredientModel `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantAggregateRoot:    m.ToDomainTenantAggregateRoot(),
		Name:                   m.Name,
		Description:            m.Description,
		Category:               m.Category,
		ImageURL:               m.ImageURL,
		SalePrice:              m.SalePrice,
		TotalCost:              m.TotalCost,
		ProfitAmount:           m.ProfitAmount,
		ProfitMarginPercentage: m.ProfitMarginPercentage,
		IsActive:               m.IsActive,
	}
	if len(m.Ingredients) > 0 {
		p.Ingredients = make([]catalog.ProductIngredient, len(m.Ingredients))
		for i := range m.Ingredients {
			p.Ingredients[i] = m.Ingredients[i].ToDomain()
		}
	}
	return p
}

// FromDomain populates the header columns; ingredients are written separately.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Category = p.Category
	m.ImageURL = p.ImageURL
	m.SalePrice = p.SalePrice
	m.TotalCost = p.TotalCost
	m.ProfitAmount = p.ProfitAmount
	m.ProfitMarginPercentage = p.ProfitMarginPercentage
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductIngredientModel is one recipe line.
type ProductIngredientModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_ingredients_product_item,priority:1"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_ingredients_product_item,priority:2"`
	ItemName        string          `gorm:"type:varchar(255)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (ProductIngredientModel) TableName() string {
	return "product_ingredients"
}

// ToDomain converts the persistence model to a domain ProductIngredient.
func (m *ProductIngredientModel) ToDomain() catalog.ProductIngredient {
	return catalog.ProductIngredient{
		ID:              m.ID,
		ProductID:       m.ProductID,
		InventoryItemID: m.InventoryItemID,
		ItemName:        m.ItemName,
		Quantity:        m.Quantity,
		UnitCost:        m.UnitCost,
		TotalCost:       m.TotalCost,
	}
}

// ProductIngredientModelsFromDomain converts the recipe lines of a product.
func ProductIngredientModelsFromDomain(p *catalog.Product) []ProductIngredientModel {
	out := make([]ProductIngredientModel, len(p.Ingredients))
	for i, ing := range p.Ingredients {
		out[i] = ProductIngredientModel{
			ID:              ing.ID,
			ProductID:       p.ID,
			InventoryItemID: ing.InventoryItemID,
			ItemName:        ing.ItemName,
			Quantity:        ing.Quantity,
			UnitCost:        ing.UnitCost,
			TotalCost:       ing.TotalCost,
		}
	}
	return out
}

// ModifierGroupModel is the persistence model for modifier groups.
type ModifierGroupModel struct {
	TenantAggregateModel
	Name          string `gorm:"type:varchar(100);not null"`
	Description   string `gorm:"type:text"`
	AllowMultiple bool   `gorm:"not null;default:false"`
	IsRequired    bool   `gorm:"not null;default:false"`
	IsActive      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ModifierGroupModel) TableName() string {
	return "modifier_groups"
}

// ToDomain converts the persistence model to a domain ModifierGroup.
func (m *ModifierGroupModel) ToDomain() *catalog.ModifierGroup {
	return &catalog.ModifierGroup{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		AllowMultiple:       m.AllowMultiple,
		IsRequired:          m.IsRequired,
		IsActive:            m.IsActive,
	}
}

// ModifierGroupModelFromDomain creates a new persistence model from a domain ModifierGroup.
func ModifierGroupModelFromDomain(g *catalog.ModifierGroup) *ModifierGroupModel {
	m := &ModifierGroupModel{
		Name:          g.Name,
		Description:   g.Description,
		AllowMultiple: g.AllowMultiple,
		IsRequired:    g.IsRequired,
		IsActive:      g.IsActive,
	}
	m.FromDomainTenantAggregateRoot(g.TenantAggregateRoot)
	return m
}

// ModifierModel is the persistence model for modifiers.
type ModifierModel struct {
	TenantAggregateModel
	GroupID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_modifiers_group_name,priority:1"`
	Name        string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_modifiers_group_name,priority:2"`
	Description string              `gorm:"type:text"`
	PriceExtra  decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive    bool                `gorm:"not null;default:true"`
	Group       *ModifierGroupModel `gorm:"foreignKey:GroupID;references:ID"`
	Items       []ModifierItemModel `gorm:"foreignKey:ModifierID;references:ID"`
}

// TableName returns the table name for GORM
func (ModifierModel) TableName() string {
	return "modifiers"
}

// ToDomain converts the persistence model to a domain Modifier.
func (m *ModifierModel) ToDomain() *catalog.Modifier {
	mod := &catalog.Modifier{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		GroupID:             m.GroupID,
		Name:                m.Name,
		Description:         m.Description,
		PriceExtra:          m.PriceExtra,
		IsActive:            m.IsActive,
		Items:               make([]catalog.ModifierItem, len(m.Items)),
	}
	if m.Group != nil {
		mod.GroupName = m.Group.Name
	}
	for i, it := range m.Items {
		mod.Items[i] = catalog.ModifierItem{
			ID:              it.ID,
			ModifierID:      it.ModifierID,
			InventoryItemID: it.InventoryItemID,
			ItemName:        it.ItemName,
			Quantity:        it.Quantity,
		}
	}
	return mod
}

// FromDomain populates the header columns; items are written separately.
func (m *ModifierModel) FromDomain(mod *catalog.Modifier) {
	m.FromDomainTenantAggregateRoot(mod.TenantAggregateRoot)
	m.GroupID = mod.GroupID
	m.Name = mod.Name
	m.Description = mod.Description
	m.PriceExtra = mod.PriceExtra
	m.IsActive = mod.IsActive
}

// ModifierItemModel is one stock effect of a modifier.
type ModifierItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ModifierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName        string          `gorm:"type:varchar(255)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,3);not null"`
}

// TableName returns the table name for GORM
func (ModifierItemModel) TableName() string {
	return "modifier_items"
}

// ModifierItemModelsFromDomain converts the item effects of a modifier.
func ModifierItemModelsFromDomain(mod *catalog.Modifier) []ModifierItemModel {
	out := make([]ModifierItemModel, len(mod.Items))
	for i, it := range mod.Items {
		out[i] = ModifierItemModel{
			ID:              it.ID,
			ModifierID:      mod.ID,
			InventoryItemID: it.InventoryItemID,
			ItemName:        it.ItemName,
			Quantity:        it.Quantity,
		}
	}
	return out
}

// ProductModifierModel records a modifier assignment.
type ProductModifierModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_modifiers_pair,priority:1"`
	ModifierID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_modifiers_pair,priority:2"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModifierModel) TableName() string {
	return "product_modifiers"
}

// ToDomain converts the persistence model to a domain ProductModifier.
func (m *ProductModifierModel) ToDomain() *catalog.ProductModifier {
	return &catalog.ProductModifier{
		ID:         m.ID,
		ProductID:  m.ProductID,
		ModifierID: m.ModifierID,
		CreatedAt:  m.CreatedAt,
	}
}
