package handler

import (
	"context"

	partnerapp "github.com/cafeops/backend/internal/application/partner"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplierUseCases manages a business's suppliers
type SupplierUseCases interface {
	Create(ctx context.Context, actor shared.Actor, req partnerapp.CreateSupplierRequest) (*partnerapp.SupplierResponse, error)
	GetByID(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) (*partnerapp.SupplierResponse, error)
	List(ctx context.Context, actor shared.Actor, filter partnerapp.SupplierListFilter) ([]partnerapp.SupplierResponse, int64, error)
	Update(ctx context.Context, actor shared.Actor, supplierID uuid.UUID, req partnerapp.UpdateSupplierRequest) (*partnerapp.SupplierResponse, error)
	Deactivate(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) (*partnerapp.SupplierResponse, error)
	DeletePermanently(ctx context.Context, actor shared.Actor, supplierID uuid.UUID) error
}

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	BaseHandler
	suppliers SupplierUseCases
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(suppliers SupplierUseCases) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partnerapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.suppliers.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Get handles GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	supplierID, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}

	supplier, err := h.suppliers.GetByID(c.Request.Context(), actor, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter partnerapp.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	suppliers, total, err := h.suppliers.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, suppliers, total, filter.Page, filter.PageSize)
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	supplierID, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}
	var req partnerapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	supplier, err := h.suppliers.Update(c.Request.Context(), actor, supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Deactivate handles DELETE /suppliers/:id
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	supplierID, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}

	supplier, err := h.suppliers.Deactivate(c.Request.Context(), actor, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// DeletePermanently handles DELETE /suppliers/:id/permanent
func (h *SupplierHandler) DeletePermanently(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	supplierID, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}

	if err := h.suppliers.DeletePermanently(c.Request.Context(), actor, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
