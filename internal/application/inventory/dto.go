package inventory

import (
	"time"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create an inventory item.
// InitialStock, when positive, is booked as a manual_in movement.
type CreateItemRequest struct {
	Name          string           `json:"name" binding:"required,min=1,max=255"`
	Category      string           `json:"category" binding:"max=100"`
	UnitOfMeasure string           `json:"unit_of_measure" binding:"required,min=1,max=50"`
	SKU           *string          `json:"sku" binding:"omitempty,max=100"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	InitialStock  *decimal.Decimal `json:"initial_stock"`
	MinStock      *decimal.Decimal `json:"min_stock"`
	MaxStock      *decimal.Decimal `json:"max_stock"`
	UnitPrice     decimal.Decimal  `json:"unit_price"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	IncludeTax    bool             `json:"include_tax"`
}

// UpdateItemRequest represents a partial update of an inventory item.
// Stock is not editable here; use AdjustStock.
type UpdateItemRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	UnitOfMeasure *string          `json:"unit_of_measure" binding:"omitempty,min=1,max=50"`
	SKU           *string          `json:"sku" binding:"omitempty,max=100"`
	SupplierID    *uuid.UUID       `json:"supplier_id"`
	MinStock      *decimal.Decimal `json:"min_stock"`
	MaxStock      *decimal.Decimal `json:"max_stock"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage"`
	IncludeTax    *bool            `json:"include_tax"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID              uuid.UUID        `json:"id"`
	TenantID        uuid.UUID        `json:"tenant_id"`
	SupplierID      *uuid.UUID       `json:"supplier_id,omitempty"`
	Name            string           `json:"name"`
	Category        string           `json:"category"`
	UnitOfMeasure   string           `json:"unit_of_measure"`
	SKU             *string          `json:"sku,omitempty"`
	QuantityInStock decimal.Decimal  `json:"quantity_in_stock"`
	MinStock        *decimal.Decimal `json:"min_stock,omitempty"`
	MaxStock        *decimal.Decimal `json:"max_stock,omitempty"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	TaxPercentage   *decimal.Decimal `json:"tax_percentage,omitempty"`
	IncludeTax      bool             `json:"include_tax"`
	IsActive        bool             `json:"is_active"`
	IsBelowMinimum  bool             `json:"is_below_minimum"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Version         int              `json:"version"`
}

// AdjustStockRequest is a manual stock correction. The sign of Quantity picks
// manual_in or manual_out.
type AdjustStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason" binding:"required,min=1,max=500"`
}

// RecordMovementRequest books an operational movement such as a sale or
// recipe consumption. Quantity is the signed stock delta.
type RecordMovementRequest struct {
	MovementType string          `json:"movement_type" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason" binding:"max=500"`
	ReferenceID  *uuid.UUID      `json:"reference_id"`
}

// RevertMovementRequest represents a request to revert a movement
type RevertMovementRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// MovementListFilter represents filter options for movement lists
type MovementListFilter struct {
	MovementType    string     `form:"movement_type"`
	InventoryItemID *uuid.UUID `form:"inventory_item_id"`
	ReferenceID     *uuid.UUID `form:"reference_id"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MovementResponse represents a ledger movement in API responses
type MovementResponse struct {
	ID                   uuid.UUID       `json:"id"`
	TenantID             uuid.UUID       `json:"tenant_id"`
	InventoryItemID      uuid.UUID       `json:"inventory_item_id"`
	CreatedBy            *uuid.UUID      `json:"created_by,omitempty"`
	MovementType         string          `json:"movement_type"`
	Quantity             decimal.Decimal `json:"quantity"`
	Reason               string          `json:"reason,omitempty"`
	ReferenceID          *uuid.UUID      `json:"reference_id,omitempty"`
	Reverted             bool            `json:"reverted"`
	RevertedByMovementID *uuid.UUID      `json:"reverted_by_movement_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// StockChangeResponse is returned by operations that post one movement
type StockChangeResponse struct {
	Item     ItemResponse     `json:"item"`
	Movement MovementResponse `json:"movement"`
}

// CreateTransferRequest represents a request to send stock to a related business
type CreateTransferRequest struct {
	ToBusinessID uuid.UUID             `json:"to_business_id" binding:"required"`
	Notes        string                `json:"notes" binding:"max=1000"`
	Items        []TransferItemRequest `json:"items" binding:"required,min=1,dive"`
}

// TransferItemRequest is one requested transfer line
type TransferItemRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// TransferListFilter represents filter options for the transfer list
type TransferListFilter struct {
	Direction string `form:"direction" binding:"omitempty,oneof=incoming outgoing"`
	Status    string `form:"status" binding:"omitempty,oneof=pending completed cancelled rejected"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID             uuid.UUID              `json:"id"`
	FromBusinessID uuid.UUID              `json:"from_business_id"`
	ToBusinessID   uuid.UUID              `json:"to_business_id"`
	CreatedBy      *uuid.UUID             `json:"created_by,omitempty"`
	Status         string                 `json:"status"`
	Notes          string                 `json:"notes,omitempty"`
	CompletedAt    *time.Time             `json:"completed_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Items          []TransferItemResponse `json:"items,omitempty"`
}

// TransferItemResponse represents a transfer line in API responses
type TransferItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	UnitOfMeasure   string          `json:"unit_of_measure,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes,omitempty"`
}

// ToItemResponse converts a domain InventoryItem to its response DTO
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:              item.ID,
		TenantID:        item.TenantID,
		SupplierID:      item.SupplierID,
		Name:            item.Name,
		Category:        item.Category,
		UnitOfMeasure:   item.UnitOfMeasure,
		SKU:             item.SKU,
		QuantityInStock: item.QuantityInStock,
		MinStock:        item.MinStock,
		MaxStock:        item.MaxStock,
		UnitPrice:       item.UnitPrice,
		TaxPercentage:   item.TaxPercentage,
		IncludeTax:      item.IncludeTax,
		IsActive:        item.IsActive,
		IsBelowMinimum:  item.IsBelowMinimum(),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
		Version:         item.Version,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []inventory.InventoryItem) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

// ToMovementResponse converts a domain InventoryMovement to its response DTO
func ToMovementResponse(m *inventory.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:                   m.ID,
		TenantID:             m.TenantID,
		InventoryItemID:      m.InventoryItemID,
		CreatedBy:            m.CreatedBy,
		MovementType:         m.Type.String(),
		Quantity:             m.Quantity,
		Reason:               m.Reason,
		ReferenceID:          m.ReferenceID,
		Reverted:             m.Reverted,
		RevertedByMovementID: m.RevertedByMovementID,
		CreatedAt:            m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain movements
func ToMovementResponses(movements []inventory.InventoryMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// ToTransferResponse converts a domain transfer. names maps origin item ids to
// their item for display; it may be nil.
func ToTransferResponse(t *inventory.InventoryTransfer, names map[uuid.UUID]*inventory.InventoryItem) TransferResponse {
	resp := TransferResponse{
		ID:             t.ID,
		FromBusinessID: t.FromBusinessID,
		ToBusinessID:   t.ToBusinessID,
		CreatedBy:      t.CreatedBy,
		Status:         string(t.Status),
		Notes:          t.Notes,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Items:          make([]TransferItemResponse, len(t.Items)),
	}
	for i, it := range t.Items {
		line := TransferItemResponse{
			ID:              it.ID,
			InventoryItemID: it.InventoryItemID,
			Quantity:        it.Quantity,
			Notes:           it.Notes,
		}
		if item, ok := names[it.InventoryItemID]; ok {
			line.ItemName = item.Name
			line.UnitOfMeasure = item.UnitOfMeasure
		}
		resp.Items[i] = line
	}
	return resp
}

// ToTransferResponses converts a slice of domain transfers without item names
func ToTransferResponses(transfers []inventory.InventoryTransfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i], nil)
	}
	return responses
}
