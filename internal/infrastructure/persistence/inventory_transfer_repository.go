package persistence

import (
	"context"
	"errors"

	"github.com/cafeops/backend/internal/domain/inventory"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryTransferRepository implements InventoryTransferRepository using GORM
type GormInventoryTransferRepository struct {
	db *gorm.DB
}

// NewGormInventoryTransferRepository creates a new GormInventoryTransferRepository
func NewGormInventoryTransferRepository(db *gorm.DB) *GormInventoryTransferRepository {
	return &GormInventoryTransferRepository{db: db}
}

// FindByID loads a transfer with its items
func (r *GormInventoryTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransfer, error) {
	var model models.InventoryTransferModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the transfer header, then loads its items.
// Items are never modified after creation so they are read without a lock.
func (r *GormInventoryTransferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransfer, error) {
	var model models.InventoryTransferModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Where("transfer_id = ?", id).
		Order("id ASC").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForBusiness lists transfers where the business is a party
func (r *GormInventoryTransferRepository) FindForBusiness(ctx context.Context, businessID uuid.UUID, query inventory.TransferQuery) ([]inventory.InventoryTransfer, error) {
	var rows []models.InventoryTransferModel
	q := r.forBusiness(r.db.WithContext(ctx).Model(&models.InventoryTransferModel{}), businessID, query)
	q = applyPage(q, query.Filter, InventoryTransferSortFields, "created_at")

	if err := q.Preload("Items").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]inventory.InventoryTransfer, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForBusiness counts transfers where the business is a party
func (r *GormInventoryTransferRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, query inventory.TransferQuery) (int64, error) {
	var count int64
	q := r.forBusiness(r.db.WithContext(ctx).Model(&models.InventoryTransferModel{}), businessID, query)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create persists the header and all items
func (r *GormInventoryTransferRepository) Create(ctx context.Context, transfer *inventory.InventoryTransfer) error {
	return r.db.WithContext(ctx).Create(models.InventoryTransferModelFromDomain(transfer)).Error
}

// UpdateStatus persists status, completed_at and updated_at
func (r *GormInventoryTransferRepository) UpdateStatus(ctx context.Context, transfer *inventory.InventoryTransfer) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryTransferModel{}).
		Where("id = ?", transfer.ID).
		Updates(map[string]any{
			"status":       transfer.Status,
			"completed_at": transfer.CompletedAt,
			"updated_at":   transfer.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInventoryTransferRepository) forBusiness(q *gorm.DB, businessID uuid.UUID, query inventory.TransferQuery) *gorm.DB {
	switch query.Direction {
	case inventory.DirectionOutgoing:
		q = q.Where("from_business_id = ?", businessID)
	case inventory.DirectionIncoming:
		q = q.Where("to_business_id = ?", businessID)
	default:
		q = q.Where("(from_business_id = ? OR to_business_id = ?)", businessID, businessID)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	return q
}

// Ensure GormInventoryTransferRepository implements InventoryTransferRepository
var _ inventory.InventoryTransferRepository = (*GormInventoryTransferRepository)(nil)
