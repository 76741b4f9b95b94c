package models

import (
	"time"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root.
type InventoryItemModel struct {
	TenantAggregateModel
	SupplierID      *uuid.UUID       `gorm:"type:uuid;index"`
	Name            string           `gorm:"type:varchar(255);not null;index:idx_inventory_items_name_unit,priority:1"`
	Category        string           `gorm:"type:varchar(100)"`
	UnitOfMeasure   string           `gorm:"type:varchar(50);not null;index:idx_inventory_items_name_unit,priority:2"`
	SKU             *string          `gorm:"column:sku;type:varchar(100);index"`
	QuantityInStock decimal.Decimal  `gorm:"type:decimal(14,3);not null;default:0"`
	MinStock        *decimal.Decimal `gorm:"type:decimal(14,3)"`
	MaxStock        *decimal.Decimal `gorm:"type:decimal(14,3)"`
	UnitPrice       decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	TaxPercentage   *decimal.Decimal `gorm:"type:decimal(5,2)"`
	IncludeTax      bool             `gorm:"not null;default:false"`
	IsActive        bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem entity.
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		SupplierID:          m.SupplierID,
		Name:                m.Name,
		Category:            m.Category,
		UnitOfMeasure:       m.UnitOfMeasure,
		SKU:                 m.SKU,
		QuantityInStock:     m.QuantityInStock,
		MinStock:            m.MinStock,
		MaxStock:            m.MaxStock,
		UnitPrice:           m.UnitPrice,
		TaxPercentage:       m.TaxPercentage,
		IncludeTax:          m.IncludeTax,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain InventoryItem entity.
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	m.SupplierID = i.SupplierID
	m.Name = i.Name
	m.Category = i.Category
	m.UnitOfMeasure = i.UnitOfMeasure
	m.SKU = i.SKU
	m.QuantityInStock = i.QuantityInStock
	m.MinStock = i.MinStock
	m.MaxStock = i.MaxStock
	m.UnitPrice = i.UnitPrice
	m.TaxPercentage = i.TaxPercentage
	m.IncludeTax = i.IncludeTax
	m.IsActive = i.IsActive
}

// InventoryItemModelFromDomain creates a new persistence model from a domain InventoryItem entity.
func InventoryItemModelFromDomain(i *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{}
	m.FromDomain(i)
	return m
}

// InventoryMovementModel is the persistence model for ledger entries.
// Rows are never deleted; only the reversal columns are updated.
type InventoryMovementModel struct {
	TenantModel
	InventoryItemID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	CreatedBy            *uuid.UUID             `gorm:"type:uuid"`
	MovementType         inventory.MovementType `gorm:"type:varchar(30);not null;index"`
	Quantity             decimal.Decimal        `gorm:"type:decimal(14,3);not null"`
	Reason               string                 `gorm:"type:text"`
	ReferenceID          *uuid.UUID             `gorm:"type:uuid;index"`
	Reverted             bool                   `gorm:"not null;default:false"`
	RevertedByMovementID *uuid.UUID             `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryMovementModel) TableName() string {
	return "inventory_movements"
}

// ToDomain converts the persistence model to a domain InventoryMovement.
func (m *InventoryMovementModel) ToDomain() *inventory.InventoryMovement {
	return &inventory.InventoryMovement{
		TenantEntity:         m.TenantModel.ToDomain(),
		InventoryItemID:      m.InventoryItemID,
		CreatedBy:            m.CreatedBy,
		Type:                 m.MovementType,
		Quantity:             m.Quantity,
		Reason:               m.Reason,
		ReferenceID:          m.ReferenceID,
		Reverted:             m.Reverted,
		RevertedByMovementID: m.RevertedByMovementID,
	}
}

// InventoryMovementModelFromDomain creates a new persistence model from a domain InventoryMovement.
func InventoryMovementModelFromDomain(mv *inventory.InventoryMovement) *InventoryMovementModel {
	m := &InventoryMovementModel{
		InventoryItemID:      mv.InventoryItemID,
		CreatedBy:            mv.CreatedBy,
		MovementType:         mv.Type,
		Quantity:             mv.Quantity,
		Reason:               mv.Reason,
		ReferenceID:          mv.ReferenceID,
		Reverted:             mv.Reverted,
		RevertedByMovementID: mv.RevertedByMovementID,
	}
	m.FromDomainTenantEntity(mv.TenantEntity)
	return m
}

// InventoryTransferModel is the persistence model for transfer headers.
type InventoryTransferModel struct {
	BaseModel
	FromBusinessID uuid.UUID                    `gorm:"type:uuid;not null;index"`
	ToBusinessID   uuid.UUID                    `gorm:"type:uuid;not null;index"`
	CreatedBy      *uuid.UUID                   `gorm:"type:uuid"`
	Status         inventory.TransferStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes          string                       `gorm:"type:text"`
	CompletedAt    *time.Time
	Items          []InventoryTransferItemModel `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (InventoryTransferModel) TableName() string {
	return "inventory_transfers"
}

// ToDomain converts the persistence model to a domain InventoryTransfer.
func (m *InventoryTransferModel) ToDomain() *inventory.InventoryTransfer {
	t := &inventory.InventoryTransfer{
		BaseEntity:     m.BaseModel.ToDomain(),
		FromBusinessID: m.FromBusinessID,
		ToBusinessID:   m.ToBusinessID,
		CreatedBy:      m.CreatedBy,
		Status:         m.Status,
		Notes:          m.Notes,
		CompletedAt:    m.CompletedAt,
		Items:          make([]inventory.TransferItem, len(m.Items)),
	}
	for i, item := range m.Items {
		t.Items[i] = inventory.TransferItem{
			ID:              item.ID,
			TransferID:      item.TransferID,
			InventoryItemID: item.InventoryItemID,
			Quantity:        item.Quantity,
			Notes:           item.Notes,
		}
	}
	return t
}

// InventoryTransferModelFromDomain creates a new persistence model, items included.
func InventoryTransferModelFromDomain(t *inventory.InventoryTransfer) *InventoryTransferModel {
	m := &InventoryTransferModel{
		FromBusinessID: t.FromBusinessID,
		ToBusinessID:   t.ToBusinessID,
		CreatedBy:      t.CreatedBy,
		Status:         t.Status,
		Notes:          t.Notes,
		CompletedAt:    t.CompletedAt,
		Items:          make([]InventoryTransferItemModel, len(t.Items)),
	}
	m.FromDomainBaseEntity(t.BaseEntity)
	for i, item := range t.Items {
		m.Items[i] = InventoryTransferItemModel{
			ID:              item.ID,
			TransferID:      t.ID,
			InventoryItemID: item.InventoryItemID,
			Quantity:        item.Quantity,
			Notes:           item.Notes,
		}
	}
	return m
}

// InventoryTransferItemModel is one line of a transfer. Its item id always
// refers to the origin business's item.
type InventoryTransferItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_transfer_items_transfer_item"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_transfer_items_transfer_item"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	Notes           string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InventoryTransferItemModel) TableName() string {
	return "inventory_transfer_items"
}
