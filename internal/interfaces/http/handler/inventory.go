package handler

import (
	"context"

	inventoryapp "github.com/cafeops/backend/internal/application/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemUseCases is the item catalogue of a business
type ItemUseCases interface {
	Create(ctx context.Context, actor shared.Actor, req inventoryapp.CreateItemRequest) (*inventoryapp.ItemResponse, error)
	GetByID(ctx context.Context, actor shared.Actor, itemID uuid.UUID) (*inventoryapp.ItemResponse, error)
	List(ctx context.Context, actor shared.Actor, filter inventoryapp.ItemListFilter) ([]inventoryapp.ItemResponse, int64, error)
	ListLowStock(ctx context.Context, actor shared.Actor) ([]inventoryapp.ItemResponse, error)
	Update(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req inventoryapp.UpdateItemRequest) (*inventoryapp.ItemResponse, error)
	Deactivate(ctx context.Context, actor shared.Actor, itemID uuid.UUID) error
}

// LedgerUseCases posts stock movements
type LedgerUseCases interface {
	AdjustStock(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req inventoryapp.AdjustStockRequest) (*inventoryapp.StockChangeResponse, error)
	RecordMovement(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req inventoryapp.RecordMovementRequest) (*inventoryapp.StockChangeResponse, error)
}

// MovementUseCases reads and reverts ledger movements
type MovementUseCases interface {
	GetByID(ctx context.Context, actor shared.Actor, movementID uuid.UUID) (*inventoryapp.MovementResponse, error)
	History(ctx context.Context, actor shared.Actor, itemID uuid.UUID, filter inventoryapp.MovementListFilter) ([]inventoryapp.MovementResponse, int64, error)
	List(ctx context.Context, actor shared.Actor, filter inventoryapp.MovementListFilter) ([]inventoryapp.MovementResponse, int64, error)
	Revert(ctx context.Context, actor shared.Actor, movementID uuid.UUID, req inventoryapp.RevertMovementRequest) (*inventoryapp.StockChangeResponse, error)
}

// InventoryHandler handles inventory items, stock changes and the movement ledger
type InventoryHandler struct {
	BaseHandler
	items     ItemUseCases
	ledger    LedgerUseCases
	movements MovementUseCases
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(items ItemUseCases, ledger LedgerUseCases, movements MovementUseCases) *InventoryHandler {
	return &InventoryHandler{items: items, ledger: ledger, movements: movements}
}

// CreateItem handles POST /inventory/items
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.items.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem handles GET /inventory/items/:id
func (h *InventoryHandler) GetItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "id", "inventory item")
	if !ok {
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), actor, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems handles GET /inventory/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter inventoryapp.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	items, total, err := h.items.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListLowStock handles GET /inventory/items/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	items, err := h.items.ListLowStock(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateItem handles PUT /inventory/items/:id
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "id", "inventory item")
	if !ok {
		return
	}
	var req inventoryapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.items.Update(c.Request.Context(), actor, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeactivateItem handles DELETE /inventory/items/:id
func (h *InventoryHandler) DeactivateItem(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "id", "inventory item")
	if !ok {
		return
	}

	if err := h.items.Deactivate(c.Request.Context(), actor, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock handles POST /inventory/items/:id/adjust
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "id", "inventory item")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.ledger.AdjustStock(c.Request.Context(), actor, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// RecordMovement handles POST /inventory/items/:id/movements
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "id", "inventory item")
	if !ok {
		return
	}
	var req inventoryapp.RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.ledger.RecordMovement(c.Request.Context(), actor, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ItemHistory handles GET /inventory/items/:id/movements
func (h *InventoryHandler) ItemHistory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "id", "inventory item")
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	movements, total, err := h.movements.History(c.Request.Context(), actor, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// ListMovements handles GET /inventory/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter inventoryapp.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	movements, total, err := h.movements.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// GetMovement handles GET /inventory/movements/:id
func (h *InventoryHandler) GetMovement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	movementID, ok := h.parseID(c, "id", "movement")
	if !ok {
		return
	}

	movement, err := h.movements.GetByID(c.Request.Context(), actor, movementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movement)
}

// RevertMovement handles POST /inventory/movements/:id/revert
func (h *InventoryHandler) RevertMovement(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	movementID, ok := h.parseID(c, "id", "movement")
	if !ok {
		return
	}
	var req inventoryapp.RevertMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.movements.Revert(c.Request.Context(), actor, movementID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
