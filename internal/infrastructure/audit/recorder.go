// Package audit delivers committed audit entries to the configured writers.
package audit

import (
	"context"

	"github.com/cafeops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Writer stores or forwards one audit entry
type Writer interface {
	Write(ctx context.Context, entry shared.AuditEntry) error
}

// Recorder implements shared.AuditSink by fanning each entry out to all writers.
// A failing writer is logged and skipped; the state change it describes has
// already committed.
type Recorder struct {
	writers []namedWriter
	logger  *zap.Logger
}

type namedWriter struct {
	name   string
	writer Writer
}

// NewRecorder creates a recorder with no writers
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{logger: logger.Named("audit")}
}

// AddWriter registers a writer under a name used in failure logs
func (r *Recorder) AddWriter(name string, w Writer) *Recorder {
	r.writers = append(r.writers, namedWriter{name: name, writer: w})
	return r
}

// Record implements shared.AuditSink
func (r *Recorder) Record(ctx context.Context, entry shared.AuditEntry) {
	// request cancellation after commit must not drop the entry
	ctx = context.WithoutCancel(ctx)
	for _, nw := range r.writers {
		if err := nw.writer.Write(ctx, entry); err != nil {
			r.logger.Error("Failed to write audit entry",
				zap.String("writer", nw.name),
				zap.String("tenant_id", entry.TenantID.String()),
				zap.String("message", entry.Message),
				zap.Error(err),
			)
		}
	}
	r.logger.Debug("Audit entry recorded",
		zap.String("tenant_id", entry.TenantID.String()),
		zap.String("message", entry.Message),
	)
}

var _ shared.AuditSink = (*Recorder)(nil)
