package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLowStockProvider reads low stock counts straight from the tables.
// It only aggregates, so it skips the repositories and their entity mapping.
type GormLowStockProvider struct {
	db *gorm.DB
}

// NewGormLowStockProvider creates a new provider
func NewGormLowStockProvider(db *gorm.DB) *GormLowStockProvider {
	return &GormLowStockProvider{db: db}
}

// GetActiveTenantIDs returns the ids of all active businesses
func (p *GormLowStockProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("businesses").
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

// CountBelowMinimum counts active items whose stock is under their minimum
func (p *GormLowStockProvider) CountBelowMinimum(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("inventory_items").
		Where("tenant_id = ? AND is_active = ? AND min_stock IS NOT NULL AND quantity_in_stock < min_stock", tenantID, true).
		Count(&count).Error
	return count, err
}

var _ LowStockProvider = (*GormLowStockProvider)(nil)
