package handler

import (
	"context"

	businessapp "github.com/cafeops/backend/internal/application/business"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RelationshipUseCases manages relationships between businesses
type RelationshipUseCases interface {
	CreateRequest(ctx context.Context, actor shared.Actor, req businessapp.CreateRelationshipRequest) (*businessapp.RelationshipResponse, error)
	Accept(ctx context.Context, actor shared.Actor, relationshipID uuid.UUID) (*businessapp.RelationshipResponse, error)
	Reject(ctx context.Context, actor shared.Actor, relationshipID uuid.UUID) (*businessapp.RelationshipResponse, error)
	ListPending(ctx context.Context, actor shared.Actor) ([]businessapp.RelationshipResponse, error)
	ListActive(ctx context.Context, actor shared.Actor) ([]businessapp.RelationshipResponse, error)
}

// BusinessLookup resolves businesses
type BusinessLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*businessapp.BusinessResponse, error)
	List(ctx context.Context) ([]businessapp.BusinessResponse, error)
}

// BusinessHandler handles business lookups and relationships
type BusinessHandler struct {
	BaseHandler
	relationships RelationshipUseCases
	directory     BusinessLookup
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(relationships RelationshipUseCases, directory BusinessLookup) *BusinessHandler {
	return &BusinessHandler{relationships: relationships, directory: directory}
}

// Current handles GET /businesses/me
func (h *BusinessHandler) Current(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	b, err := h.directory.Get(c.Request.Context(), actor.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// List handles GET /businesses
func (h *BusinessHandler) List(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	businesses, err := h.directory.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, businesses)
}

// Get handles GET /businesses/:id. Any authenticated caller may resolve a
// business by id to address a relationship request.
func (h *BusinessHandler) Get(c *gin.Context) {
	if _, ok := h.actor(c); !ok {
		return
	}
	businessID, ok := h.parseID(c, "id", "business")
	if !ok {
		return
	}
	b, err := h.directory.Get(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// RequestRelationship handles POST /relationships
func (h *BusinessHandler) RequestRelationship(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req businessapp.CreateRelationshipRequest
	if !h.bindJSON(c, &req) {
		return
	}

	rel, err := h.relationships.CreateRequest(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rel)
}

// AcceptRelationship handles POST /relationships/:id/accept
func (h *BusinessHandler) AcceptRelationship(c *gin.Context) {
	h.decide(c, h.relationships.Accept)
}

// RejectRelationship handles POST /relationships/:id/reject
func (h *BusinessHandler) RejectRelationship(c *gin.Context) {
	h.decide(c, h.relationships.Reject)
}

// ListPending handles GET /relationships/pending
func (h *BusinessHandler) ListPending(c *gin.Context) {
	h.list(c, h.relationships.ListPending)
}

// ListActive handles GET /relationships
func (h *BusinessHandler) ListActive(c *gin.Context) {
	h.list(c, h.relationships.ListActive)
}

func (h *BusinessHandler) decide(c *gin.Context, op func(context.Context, shared.Actor, uuid.UUID) (*businessapp.RelationshipResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	relationshipID, ok := h.parseID(c, "id", "relationship")
	if !ok {
		return
	}
	rel, err := op(c.Request.Context(), actor, relationshipID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rel)
}

func (h *BusinessHandler) list(c *gin.Context, op func(context.Context, shared.Actor) ([]businessapp.RelationshipResponse, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	rels, err := op(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rels)
}
