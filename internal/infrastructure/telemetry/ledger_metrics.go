package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is given
var ErrMeterNil = errors.New("ledger metrics: meter cannot be nil")

// LowStockProvider supplies the data behind the low stock gauge.
// Kept as an interface so telemetry does not depend on the inventory domain.
type LowStockProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
	CountBelowMinimum(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// Ledger instrument names
const (
	movementsTotalMetric         = "cafeops_inventory_movements_total"
	movementQuantityMetric       = "cafeops_inventory_movement_quantity"
	transfersTotalMetric         = "cafeops_inventory_transfers_total"
	insufficientStockTotalMetric = "cafeops_inventory_insufficient_stock_total"
	lowStockItemsMetric          = "cafeops_inventory_low_stock_items"
)

// LedgerMetrics counts stock movements, transfers and stock refusals.
// All methods are safe on a nil receiver so services can run without metrics.
type LedgerMetrics struct {
	logger *zap.Logger

	movementsTotal         metric.Int64Counter
	movementQuantity       metric.Float64Histogram
	transfersTotal         metric.Int64Counter
	insufficientStockTotal metric.Int64Counter
	lowStockItems          metric.Int64Gauge

	lowStock    LowStockProvider
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// LedgerMetricsConfig holds configuration for ledger metrics.
type LedgerMetricsConfig struct {
	Meter            metric.Meter
	Logger           *zap.Logger
	LowStockProvider LowStockProvider
}

// NewLedgerMetrics creates the ledger instruments
func NewLedgerMetrics(cfg LedgerMetricsConfig) (*LedgerMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &LedgerMetrics{
		logger:   logger,
		lowStock: cfg.LowStockProvider,
		stopChan: make(chan struct{}),
	}

	var err error
	if m.movementsTotal, err = cfg.Meter.Int64Counter(movementsTotalMetric,
		metric.WithDescription("Stock movements posted to the ledger"),
		metric.WithUnit("{movements}")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", movementsTotalMetric, err)
	}
	if m.movementQuantity, err = cfg.Meter.Float64Histogram(movementQuantityMetric,
		metric.WithDescription("Absolute quantity moved per movement"),
		metric.WithUnit("{units}"),
		metric.WithExplicitBucketBoundaries(QuantityBuckets...)); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", movementQuantityMetric, err)
	}
	if m.transfersTotal, err = cfg.Meter.Int64Counter(transfersTotalMetric,
		metric.WithDescription("Transfer state transitions"),
		metric.WithUnit("{transfers}")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", transfersTotalMetric, err)
	}
	if m.insufficientStockTotal, err = cfg.Meter.Int64Counter(insufficientStockTotalMetric,
		metric.WithDescription("Operations refused because stock would go negative"),
		metric.WithUnit("{operations}")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", insufficientStockTotalMetric, err)
	}
	if m.lowStockItems, err = cfg.Meter.Int64Gauge(lowStockItemsMetric,
		metric.WithDescription("Active items below their minimum stock"),
		metric.WithUnit("{items}")); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", lowStockItemsMetric, err)
	}
	return m, nil
}

// RecordMovement counts a posted movement
func (m *LedgerMetrics) RecordMovement(ctx context.Context, tenantID uuid.UUID, movementType string, qty decimal.Decimal) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrTenantID.String(tenantID.String()), AttrMovementType.String(movementType))
	m.movementsTotal.Add(ctx, 1, attrs)
	m.movementQuantity.Record(ctx, qty.Abs().InexactFloat64(), attrs)
}

// RecordTransfer counts a transfer reaching status
func (m *LedgerMetrics) RecordTransfer(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.transfersTotal.Add(ctx, 1, metric.WithAttributes(AttrStatus.String(status)))
}

// RecordInsufficientStock counts a refused operation
func (m *LedgerMetrics) RecordInsufficientStock(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.insufficientStockTotal.Add(ctx, 1, metric.WithAttributes(AttrTenantID.String(tenantID.String())))
}

// RecordLowStockCount records how many items of a business are below minimum
func (m *LedgerMetrics) RecordLowStockCount(ctx context.Context, tenantID uuid.UUID, count int64) {
	if m == nil {
		return
	}
	m.lowStockItems.Record(ctx, count, metric.WithAttributes(AttrTenantID.String(tenantID.String())))
}

// StartPeriodicCollection refreshes the low stock gauge every interval (default 5m).
// Non-blocking; call Stop to end it.
func (m *LedgerMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if m == nil || m.lowStock == nil {
		return
	}
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		m.wg.Add(1)
		go m.runPeriodicCollection(ctx, interval)
	})
}

func (m *LedgerMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.collectLowStock(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectLowStock(ctx)
		}
	}
}

func (m *LedgerMetrics) collectLowStock(ctx context.Context) {
	tenantIDs, err := m.lowStock.GetActiveTenantIDs(ctx)
	if err != nil {
		m.logger.Error("Failed to get business IDs for metrics collection", zap.Error(err))
		return
	}
	for _, tenantID := range tenantIDs {
		count, err := m.lowStock.CountBelowMinimum(ctx, tenantID)
		if err != nil {
			m.logger.Warn("Failed to count low stock items",
				zap.String("business_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		m.RecordLowStockCount(ctx, tenantID, count)
	}
}

// Stop ends periodic collection and waits for the collector to exit
func (m *LedgerMetrics) Stop() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
}
