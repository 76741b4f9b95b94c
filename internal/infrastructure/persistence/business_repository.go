package persistence

import (
	"context"
	"errors"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBusinessRepository implements BusinessRepository using GORM
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewGormBusinessRepository creates a new GormBusinessRepository
func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// FindByID finds a business by ID
func (r *GormBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	var model models.BusinessModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists every business ordered by name
func (r *GormBusinessRepository) FindAll(ctx context.Context) ([]business.Business, error) {
	var rows []models.BusinessModel
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	businesses := make([]business.Business, len(rows))
	for i := range rows {
		businesses[i] = *rows[i].ToDomain()
	}
	return businesses, nil
}

// Save creates or updates a business
func (r *GormBusinessRepository) Save(ctx context.Context, b *business.Business) error {
	return r.db.WithContext(ctx).Save(models.BusinessModelFromDomain(b)).Error
}

// GetActiveTenantIDs lists active businesses; used by the periodic stock gauge
func (r *GormBusinessRepository) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.BusinessModel{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// GormRelationshipRepository implements RelationshipRepository using GORM
type GormRelationshipRepository struct {
	db *gorm.DB
}

// NewGormRelationshipRepository creates a new GormRelationshipRepository
func NewGormRelationshipRepository(db *gorm.DB) *GormRelationshipRepository {
	return &GormRelationshipRepository{db: db}
}

// FindByID finds a relationship by ID
func (r *GormRelationshipRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Relationship, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByIDForUpdate finds a relationship with SELECT ... FOR UPDATE
func (r *GormRelationshipRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*business.Relationship, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// FindBetween returns the relationship of the pair in either direction
func (r *GormRelationshipRepository) FindBetween(ctx context.Context, a, b uuid.UUID) (*business.Relationship, error) {
	low, high := models.OrderedPair(a, b)
	return r.findOne(r.db.WithContext(ctx).Where("pair_low = ? AND pair_high = ?", low, high))
}

func (r *GormRelationshipRepository) findOne(query *gorm.DB) (*business.Relationship, error) {
	var model models.RelationshipModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPendingForTarget lists requests waiting for the business to decide
func (r *GormRelationshipRepository) FindPendingForTarget(ctx context.Context, businessID uuid.UUID) ([]business.Relationship, error) {
	return r.findMany(r.db.WithContext(ctx).
		Where("target_business_id = ? AND status = ?", businessID, business.RelationshipPending))
}

// FindActiveFor lists active relationships on either side
func (r *GormRelationshipRepository) FindActiveFor(ctx context.Context, businessID uuid.UUID) ([]business.Relationship, error) {
	return r.findMany(r.db.WithContext(ctx).
		Where("(requester_business_id = ? OR target_business_id = ?) AND status = ?",
			businessID, businessID, business.RelationshipActive))
}

func (r *GormRelationshipRepository) findMany(query *gorm.DB) ([]business.Relationship, error) {
	var rows []models.RelationshipModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]business.Relationship, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts a relationship; the pair index rejects a second row for the same businesses
func (r *GormRelationshipRepository) Create(ctx context.Context, rel *business.Relationship) error {
	if err := r.db.WithContext(ctx).Create(models.RelationshipModelFromDomain(rel)).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates a relationship
func (r *GormRelationshipRepository) Save(ctx context.Context, rel *business.Relationship) error {
	return r.db.WithContext(ctx).Save(models.RelationshipModelFromDomain(rel)).Error
}

var (
	_ business.BusinessRepository     = (*GormBusinessRepository)(nil)
	_ business.RelationshipRepository = (*GormRelationshipRepository)(nil)
)
