package handler

import (
	"context"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLogReader reads a business's audit trail
type AuditLogReader interface {
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]shared.AuditEntry, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// AuditLogQuery represents query options for the audit log
type AuditLogQuery struct {
	UserID   *uuid.UUID `form:"user_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AuditLogResponse is one audit entry in API responses
type AuditLogResponse struct {
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuditLogHandler exposes the audit trail to business managers
type AuditLogHandler struct {
	BaseHandler
	reader AuditLogReader
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(reader AuditLogReader) *AuditLogHandler {
	return &AuditLogHandler{reader: reader}
}

// List handles GET /audit-logs, newest first
func (h *AuditLogHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if err := actor.Require("read the audit log", shared.RoleOwner, shared.RoleAdmin); err != nil {
		h.HandleError(c, err)
		return
	}
	var query AuditLogQuery
	if !h.bindQuery(c, &query) {
		return
	}
	query.Page, query.PageSize = pageDefaults(query.Page, query.PageSize)

	filter := shared.Filter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Filters:  map[string]interface{}{},
	}
	if query.UserID != nil {
		filter.Filters["user_id"] = *query.UserID
	}

	ctx := c.Request.Context()
	entries, err := h.reader.FindForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.reader.CountForTenant(ctx, actor.TenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]AuditLogResponse, len(entries))
	for i, e := range entries {
		resp[i] = AuditLogResponse{UserID: e.UserID, Message: e.Message, CreatedAt: e.OccurredAt}
	}
	h.SuccessWithMeta(c, resp, total, query.Page, query.PageSize)
}
