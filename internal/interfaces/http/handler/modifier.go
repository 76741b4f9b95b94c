package handler

import (
	"context"
	"strconv"

	catalogapp "github.com/cafeops/backend/internal/application/catalog"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ModifierUseCases manages modifier groups and modifiers
type ModifierUseCases interface {
	CreateGroup(ctx context.Context, actor shared.Actor, req catalogapp.CreateModifierGroupRequest) (*catalogapp.ModifierGroupResponse, error)
	GetGroup(ctx context.Context, actor shared.Actor, groupID uuid.UUID) (*catalogapp.ModifierGroupResponse, error)
	ListGroups(ctx context.Context, actor shared.Actor, activeOnly bool) ([]catalogapp.ModifierGroupResponse, error)
	UpdateGroup(ctx context.Context, actor shared.Actor, groupID uuid.UUID, req catalogapp.UpdateModifierGroupRequest) (*catalogapp.ModifierGroupResponse, error)
	Create(ctx context.Context, actor shared.Actor, req catalogapp.CreateModifierRequest) (*catalogapp.ModifierResponse, error)
	GetByID(ctx context.Context, actor shared.Actor, modifierID uuid.UUID) (*catalogapp.ModifierResponse, error)
	ListByGroup(ctx context.Context, actor shared.Actor, groupID uuid.UUID) ([]catalogapp.ModifierResponse, error)
	Update(ctx context.Context, actor shared.Actor, modifierID uuid.UUID, req catalogapp.UpdateModifierRequest) (*catalogapp.ModifierResponse, error)
}

// ModifierHandler handles modifier groups and modifiers
type ModifierHandler struct {
	BaseHandler
	modifiers ModifierUseCases
}

// NewModifierHandler creates a new ModifierHandler
func NewModifierHandler(modifiers ModifierUseCases) *ModifierHandler {
	return &ModifierHandler{modifiers: modifiers}
}

// CreateGroup handles POST /modifier-groups
func (h *ModifierHandler) CreateGroup(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req catalogapp.CreateModifierGroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.modifiers.CreateGroup(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, group)
}

// GetGroup handles GET /modifier-groups/:id
func (h *ModifierHandler) GetGroup(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	groupID, ok := h.parseID(c, "id", "modifier group")
	if !ok {
		return
	}

	group, err := h.modifiers.GetGroup(c.Request.Context(), actor, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// ListGroups handles GET /modifier-groups?active_only=true
func (h *ModifierHandler) ListGroups(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	activeOnly := false
	if raw := c.Query("active_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "active_only must be a boolean")
			return
		}
		activeOnly = v
	}

	groups, err := h.modifiers.ListGroups(c.Request.Context(), actor, activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// UpdateGroup handles PUT /modifier-groups/:id
func (h *ModifierHandler) UpdateGroup(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	groupID, ok := h.parseID(c, "id", "modifier group")
	if !ok {
		return
	}
	var req catalogapp.UpdateModifierGroupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	group, err := h.modifiers.UpdateGroup(c.Request.Context(), actor, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, group)
}

// ListGroupModifiers handles GET /modifier-groups/:id/modifiers
func (h *ModifierHandler) ListGroupModifiers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	groupID, ok := h.parseID(c, "id", "modifier group")
	if !ok {
		return
	}

	modifiers, err := h.modifiers.ListByGroup(c.Request.Context(), actor, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modifiers)
}

// Create handles POST /modifiers
func (h *ModifierHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req catalogapp.CreateModifierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	modifier, err := h.modifiers.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, modifier)
}

// Get handles GET /modifiers/:id
func (h *ModifierHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	modifierID, ok := h.parseID(c, "id", "modifier")
	if !ok {
		return
	}

	modifier, err := h.modifiers.GetByID(c.Request.Context(), actor, modifierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modifier)
}

// Update handles PUT /modifiers/:id
func (h *ModifierHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	modifierID, ok := h.parseID(c, "id", "modifier")
	if !ok {
		return
	}
	var req catalogapp.UpdateModifierRequest
	if !h.bindJSON(c, &req) {
		return
	}

	modifier, err := h.modifiers.Update(c.Request.Context(), actor, modifierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, modifier)
}
