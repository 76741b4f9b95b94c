package handler

import (
	"context"

	inventoryapp "github.com/cafeops/backend/internal/application/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferUseCases moves stock between related businesses
type TransferUseCases interface {
	Create(ctx context.Context, actor shared.Actor, req inventoryapp.CreateTransferRequest) (*inventoryapp.TransferResponse, error)
	Accept(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*inventoryapp.TransferResponse, error)
	Reject(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*inventoryapp.TransferResponse, error)
	Cancel(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*inventoryapp.TransferResponse, error)
	GetByID(ctx context.Context, actor shared.Actor, transferID uuid.UUID) (*inventoryapp.TransferResponse, error)
	List(ctx context.Context, actor shared.Actor, filter inventoryapp.TransferListFilter) ([]inventoryapp.TransferResponse, int64, error)
}

// TransferHandler handles inventory transfers
type TransferHandler struct {
	BaseHandler
	transfers TransferUseCases
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers TransferUseCases) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Create handles POST /inventory/transfers
func (h *TransferHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	transfer, err := h.transfers.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}

// Get handles GET /inventory/transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	transferID, ok := h.parseID(c, "id", "transfer")
	if !ok {
		return
	}

	transfer, err := h.transfers.GetByID(c.Request.Context(), actor, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}

// List handles GET /inventory/transfers
func (h *TransferHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter inventoryapp.TransferListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	transfers, total, err := h.transfers.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, transfers, total, filter.Page, filter.PageSize)
}

// Accept handles POST /inventory/transfers/:id/accept
func (h *TransferHandler) Accept(c *gin.Context) {
	h.decide(c, h.transfers.Accept)
}

// Reject handles POST /inventory/transfers/:id/reject
func (h *TransferHandler) Reject(c *gin.Context) {
	h.decide(c, h.transfers.Reject)
}

// Cancel handles POST /inventory/transfers/:id/cancel
func (h *TransferHandler) Cancel(c *gin.Context) {
	h.decide(c, h.transfers.Cancel)
}

func (h *TransferHandler) decide(c *gin.Context, op func(context.Context, shared.Actor, uuid.UUID) (*inventoryapp.TransferResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	transferID, ok := h.parseID(c, "id", "transfer")
	if !ok {
		return
	}

	transfer, err := op(c.Request.Context(), actor, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, transfer)
}
