package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type memoryWriter struct {
	entries []shared.AuditEntry
	err     error
}

func (w *memoryWriter) Write(ctx context.Context, entry shared.AuditEntry) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if w.err != nil {
		return w.err
	}
	w.entries = append(w.entries, entry)
	return nil
}

func TestRecorder_Record(t *testing.T) {
	entry := shared.AuditEntry{TenantID: uuid.New(), Message: "Supplier created: Acme"}

	t.Run("delivers to every writer", func(t *testing.T) {
		db := &memoryWriter{}
		bus := &memoryWriter{}
		r := NewRecorder(nil).AddWriter("db", db).AddWriter("kafka", bus)

		r.Record(context.Background(), entry)

		assert.Len(t, db.entries, 1)
		assert.Len(t, bus.entries, 1)
		assert.Equal(t, "Supplier created: Acme", db.entries[0].Message)
	})

	t.Run("failing writer is logged and does not stop the others", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		failing := &memoryWriter{err: errors.New("insert failed")}
		ok := &memoryWriter{}
		r := NewRecorder(zap.New(core)).AddWriter("db", failing).AddWriter("kafka", ok)

		r.Record(context.Background(), entry)

		assert.Len(t, ok.entries, 1)
		assert.Equal(t, 1, logs.FilterMessage("Failed to write audit entry").Len())
	})

	t.Run("cancelled request context still records", func(t *testing.T) {
		w := &memoryWriter{}
		r := NewRecorder(nil).AddWriter("db", w)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r.Record(ctx, entry)

		assert.Len(t, w.entries, 1)
	})
}
