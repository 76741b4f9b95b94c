package business

import (
	"context"
	"time"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDirectoryTTL is how long a business lookup stays cached
const DefaultDirectoryTTL = 10 * time.Minute

// Directory resolves businesses by id through an optional cache.
// Cache failures degrade to a database read and are only logged.
type Directory struct {
	repo  business.BusinessRepository
	cache business.Cache
	ttl   time.Duration
}

// NewDirectory creates a Directory. cache may be nil.
func NewDirectory(repo business.BusinessRepository, cache business.Cache, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultDirectoryTTL
	}
	return &Directory{repo: repo, cache: cache, ttl: ttl}
}

// GetBusiness returns the business or shared.ErrNotFound
func (d *Directory) GetBusiness(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	log := logger.FromContext(ctx)
	if d.cache != nil {
		b, ok, err := d.cache.Get(ctx, id)
		if err != nil {
			log.Warn("business cache read failed", zap.String("business_id", id.String()), zap.Error(err))
		} else if ok {
			return b, nil
		}
	}

	b, err := d.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if err := d.cache.Set(ctx, b, d.ttl); err != nil {
			log.Warn("business cache write failed", zap.String("business_id", id.String()), zap.Error(err))
		}
	}
	return b, nil
}

// List returns every business, active or not, so owners can pick a
// counterpart for a relationship request. Listings bypass the cache.
func (d *Directory) List(ctx context.Context) ([]BusinessResponse, error) {
	businesses, err := d.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BusinessResponse, len(businesses))
	for i := range businesses {
		out[i] = ToBusinessResponse(&businesses[i])
	}
	return out, nil
}

// Get returns the business as a response DTO
func (d *Directory) Get(ctx context.Context, id uuid.UUID) (*BusinessResponse, error) {
	b, err := d.GetBusiness(ctx, id)
	if err != nil {
		return nil, notFoundBusiness(err, id)
	}
	resp := ToBusinessResponse(b)
	return &resp, nil
}
