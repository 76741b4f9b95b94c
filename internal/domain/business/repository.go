package business

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BusinessRepository looks up tenants
type BusinessRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Business, error)

	// FindAll lists every business ordered by name
	FindAll(ctx context.Context) ([]Business, error)

	Save(ctx context.Context, b *Business) error
}

// RelationshipRepository persists relationships. At most one relationship
// exists per unordered pair of businesses.
type RelationshipRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Relationship, error)

	// FindByIDForUpdate loads and row-locks a relationship
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Relationship, error)

	// FindBetween returns the relationship of the pair regardless of direction
	FindBetween(ctx context.Context, a, b uuid.UUID) (*Relationship, error)

	// FindPendingForTarget lists requests waiting for the business to decide
	FindPendingForTarget(ctx context.Context, businessID uuid.UUID) ([]Relationship, error)

	// FindActiveFor lists active relationships on either side
	FindActiveFor(ctx context.Context, businessID uuid.UUID) ([]Relationship, error)

	// Create inserts a relationship; a pair conflict returns shared.ErrAlreadyExists
	Create(ctx context.Context, r *Relationship) error

	Save(ctx context.Context, r *Relationship) error
}

// Cache keeps business lookups close to the request path. It never holds
// stock or anything else that must be read inside a transaction.
type Cache interface {
	// Get returns the cached business, or ok=false on a miss
	Get(ctx context.Context, id uuid.UUID) (b *Business, ok bool, err error)
	Set(ctx context.Context, b *Business, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}
