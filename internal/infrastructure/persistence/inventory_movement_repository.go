package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryMovementRepository implements InventoryMovementRepository using GORM
type GormInventoryMovementRepository struct {
	db *gorm.DB
}

// NewGormInventoryMovementRepository creates a new GormInventoryMovementRepository
func NewGormInventoryMovementRepository(db *gorm.DB) *GormInventoryMovementRepository {
	return &GormInventoryMovementRepository{db: db}
}

// FindByIDForTenant finds a movement by ID within a tenant
func (r *GormInventoryMovementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryMovement, error) {
	return r.findOne(r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate finds a movement with SELECT ... FOR UPDATE.
// Two concurrent reverts of one movement serialize here.
func (r *GormInventoryMovementRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryMovement, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, id)
}

func (r *GormInventoryMovementRepository) findOne(query *gorm.DB, tenantID, id uuid.UUID) (*inventory.InventoryMovement, error) {
	var model models.InventoryMovementModel
	if err := query.Where("tenant_id = ? AND id = ?", tenantID, id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByItem lists the movements of one item, newest first
func (r *GormInventoryMovementRepository) FindByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryMovement, error) {
	var rows []models.InventoryMovementModel
	query := r.db.WithContext(ctx).
		Model(&models.InventoryMovementModel{}).
		Where("tenant_id = ? AND inventory_item_id = ?", tenantID, itemID)
	query = applyPage(query, filter, InventoryMovementSortFields, "created_at")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMovements(rows), nil
}

// FindAllForTenant lists movements of a tenant
func (r *GormInventoryMovementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryMovement, error) {
	var rows []models.InventoryMovementModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryMovementModel{}).Where("tenant_id = ?", tenantID), filter)
	query = applyPage(query, filter, InventoryMovementSortFields, "created_at")

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toMovements(rows), nil
}

// CountForTenant counts movements matching the filter
func (r *GormInventoryMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InventoryMovementModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create appends a movement
func (r *GormInventoryMovementRepository) Create(ctx context.Context, movement *inventory.InventoryMovement) error {
	return r.db.WithContext(ctx).Create(models.InventoryMovementModelFromDomain(movement)).Error
}

// MarkReverted persists the reversal link. Only the reverted flag and the
// link change; the rest of the row is immutable.
func (r *GormInventoryMovementRepository) MarkReverted(ctx context.Context, movement *inventory.InventoryMovement) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryMovementModel{}).
		Where("tenant_id = ? AND id = ? AND reverted = ?", movement.TenantID, movement.ID, false).
		Updates(map[string]any{
			"reverted":                true,
			"reverted_by_movement_id": movement.RevertedByMovementID,
			"updated_at":              time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrAlreadyReverted
	}
	return nil
}

func (r *GormInventoryMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "movement_type":
			query = query.Where("movement_type = ?", value)
		case "inventory_item_id":
			query = query.Where("inventory_item_id = ?", value)
		case "reference_id":
			query = query.Where("reference_id = ?", value)
		}
	}
	return query
}

func toMovements(rows []models.InventoryMovementModel) []inventory.InventoryMovement {
	out := make([]inventory.InventoryMovement, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormInventoryMovementRepository implements InventoryMovementRepository
var _ inventory.InventoryMovementRepository = (*GormInventoryMovementRepository)(nil)
