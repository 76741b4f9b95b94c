package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type exportedRecord struct {
	body  string
	attrs map[string]string
}

type memoryLogExporter struct {
	mu      sync.Mutex
	records []exportedRecord
}

func (e *memoryLogExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		rec := exportedRecord{body: r.Body().AsString(), attrs: map[string]string{}}
		r.WalkAttributes(func(kv otellog.KeyValue) bool {
			rec.attrs[kv.Key] = kv.Value.String()
			return true
		})
		e.records = append(e.records, rec)
	}
	return nil
}

func (e *memoryLogExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryLogExporter) ForceFlush(context.Context) error { return nil }

func (e *memoryLogExporter) all() []exportedRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]exportedRecord(nil), e.records...)
}

func newExportingProvider(t *testing.T, exportSQL bool) (*LoggerProvider, *memoryLogExporter) {
	t.Helper()
	exporter := &memoryLogExporter{}
	lp, err := NewLoggerProvider(context.Background(),
		LogsConfig{ServiceName: "cafeops-test", ExportSQL: exportSQL}, zap.NewNop(),
		sdklog.NewSimpleProcessor(exporter))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })
	return lp, exporter
}

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := LogsConfigFrom(config.TelemetryConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "test-service",
		Insecure:          true,
		DBLogFullSQL:      true,
	})
	assert.True(t, cfg.ExportSQL)

	provider, err := NewLoggerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, provider.IsEnabled())

	core, err := provider.ExportCore(zapcore.DebugLevel)
	require.NoError(t, err)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	assert.NoError(t, provider.Shutdown(ctx))
	assert.NoError(t, provider.Shutdown(ctx))
}

func TestExportCore_DropsSQLAndDebug(t *testing.T) {
	lp, exporter := newExportingProvider(t, false)
	assert.True(t, lp.IsEnabled())

	core, err := lp.ExportCore(zapcore.DebugLevel)
	require.NoError(t, err)
	assert.False(t, core.Enabled(zapcore.DebugLevel), "debug is never exported")

	l := zap.New(core).With(zap.String(SQLField, "SELECT 1"), zap.String("business_id", "b-1"))
	l.Debug("dropped")
	l.Warn("Slow query", zap.String(SQLField, `UPDATE inventory_items SET current_stock = 4`), zap.String("statement", "UPDATE inventory_items"))

	records := exporter.all()
	require.Len(t, records, 1)
	assert.Equal(t, "Slow query", records[0].body)
	assert.Equal(t, "b-1", records[0].attrs["business_id"])
	assert.Equal(t, "UPDATE inventory_items", records[0].attrs["statement"])
	assert.NotContains(t, records[0].attrs, SQLField)
}

func TestExportCore_KeepsSQLWhenEnabled(t *testing.T) {
	lp, exporter := newExportingProvider(t, true)

	core, err := lp.ExportCore(zapcore.WarnLevel)
	require.NoError(t, err)

	l := zap.New(core)
	l.Info("below export level")
	l.Error("Query failed", zap.String(SQLField, "SELECT * FROM suppliers"))

	records := exporter.all()
	require.Len(t, records, 1)
	assert.Equal(t, "SELECT * FROM suppliers", records[0].attrs[SQLField])
}

func TestTee_WritesLocallyWithFullFields(t *testing.T) {
	lp, exporter := newExportingProvider(t, false)
	export, err := lp.ExportCore(zapcore.InfoLevel)
	require.NoError(t, err)

	local, recorded := observer.New(zapcore.InfoLevel)
	l := Tee(local, export)
	l.Info("Transfer accepted", zap.String("transfer_id", "t-1"), zap.String(SQLField, "COMMIT"))

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "COMMIT", recorded.All()[0].ContextMap()[SQLField])

	records := exporter.all()
	require.Len(t, records, 1)
	assert.Equal(t, "t-1", records[0].attrs["transfer_id"])
	assert.NotContains(t, records[0].attrs, SQLField)
}
