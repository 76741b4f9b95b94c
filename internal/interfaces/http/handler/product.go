package handler

import (
	"context"

	catalogapp "github.com/cafeops/backend/internal/application/catalog"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductUseCases manages recipes and their costing
type ProductUseCases interface {
	Create(ctx context.Context, actor shared.Actor, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	GetByID(ctx context.Context, actor shared.Actor, productID uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, actor shared.Actor, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)
	Update(ctx context.Context, actor shared.Actor, productID uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	ReplaceIngredients(ctx context.Context, actor shared.Actor, productID uuid.UUID, req catalogapp.ReplaceIngredientsRequest) (*catalogapp.ProductResponse, error)
	Deactivate(ctx context.Context, actor shared.Actor, productID uuid.UUID) (*catalogapp.ProductResponse, error)
}

// ProductModifierUseCases assigns modifiers to products
type ProductModifierUseCases interface {
	Assign(ctx context.Context, actor shared.Actor, productID uuid.UUID, req catalogapp.AssignModifierRequest) (*catalogapp.ProductModifierResponse, error)
	ListForProduct(ctx context.Context, actor shared.Actor, productID uuid.UUID) ([]catalogapp.ProductModifierResponse, error)
	Unassign(ctx context.Context, actor shared.Actor, productID, modifierID uuid.UUID) error
}

// ProductHandler handles products, their ingredients and modifier assignments
type ProductHandler struct {
	BaseHandler
	products  ProductUseCases
	modifiers ProductModifierUseCases
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductUseCases, modifiers ProductModifierUseCases) *ProductHandler {
	return &ProductHandler{products: products, modifiers: modifiers}
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), actor, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var filter catalogapp.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	products, total, err := h.products.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), actor, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ReplaceIngredients handles PUT /products/:id/ingredients
func (h *ProductHandler) ReplaceIngredients(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}
	var req catalogapp.ReplaceIngredientsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.products.ReplaceIngredients(c.Request.Context(), actor, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Deactivate handles DELETE /products/:id
func (h *ProductHandler) Deactivate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.products.Deactivate(c.Request.Context(), actor, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AssignModifier handles POST /products/:id/modifiers
func (h *ProductHandler) AssignModifier(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}
	var req catalogapp.AssignModifierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	assignment, err := h.modifiers.Assign(c.Request.Context(), actor, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, assignment)
}

// ListModifiers handles GET /products/:id/modifiers
func (h *ProductHandler) ListModifiers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}

	assignments, err := h.modifiers.ListForProduct(c.Request.Context(), actor, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, assignments)
}

// UnassignModifier handles DELETE /products/:id/modifiers/:modifier_id
func (h *ProductHandler) UnassignModifier(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id", "product")
	if !ok {
		return
	}
	modifierID, ok := h.parseID(c, "modifier_id", "modifier")
	if !ok {
		return
	}

	if err := h.modifiers.Unassign(c.Request.Context(), actor, productID, modifierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
