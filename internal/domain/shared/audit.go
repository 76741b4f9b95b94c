package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one human-readable record of a committed state change
type AuditEntry struct {
	TenantID   uuid.UUID
	UserID     *uuid.UUID
	Message    string
	OccurredAt time.Time
}

// NewAuditEntry builds an entry attributed to the actor
func NewAuditEntry(actor Actor, message string) AuditEntry {
	return AuditEntry{
		TenantID:   actor.TenantID,
		UserID:     actor.UserRef(),
		Message:    message,
		OccurredAt: time.Now(),
	}
}

// AuditSink receives audit entries after a successful commit.
// Implementations must not fail the caller; delivery errors are theirs to log.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

// NopAuditSink discards all entries
type NopAuditSink struct{}

// Record implements AuditSink
func (NopAuditSink) Record(context.Context, AuditEntry) {}
