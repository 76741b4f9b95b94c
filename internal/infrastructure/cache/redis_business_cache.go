package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultBusinessKeyPrefix = "cafeops:business:"

// cachedBusiness is the JSON shape stored in Redis
type cachedBusiness struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func fromBusiness(b *business.Business) cachedBusiness {
	return cachedBusiness{
		ID:        b.ID,
		Name:      b.Name,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (c cachedBusiness) toBusiness() *business.Business {
	return &business.Business{
		BaseEntity: shared.BaseEntity{ID: c.ID, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt},
		Name:       c.Name,
		IsActive:   c.IsActive,
	}
}

// RedisBusinessCache implements business.Cache using Redis.
// Suitable when several instances share the directory.
type RedisBusinessCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisBusinessCache creates a cache on an existing Redis client
func NewRedisBusinessCache(client redis.UniversalClient, keyPrefix string) *RedisBusinessCache {
	if keyPrefix == "" {
		keyPrefix = defaultBusinessKeyPrefix
	}
	return &RedisBusinessCache{client: client, keyPrefix: keyPrefix}
}

func (c *RedisBusinessCache) key(id uuid.UUID) string {
	return c.keyPrefix + id.String()
}

// Get implements business.Cache
func (c *RedisBusinessCache) Get(ctx context.Context, id uuid.UUID) (*business.Business, bool, error) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read business from cache: %w", err)
	}

	var cb cachedBusiness
	if err := json.Unmarshal(raw, &cb); err != nil {
		// a corrupt entry is a miss; the next Set overwrites it
		return nil, false, nil
	}
	return cb.toBusiness(), true, nil
}

// Set implements business.Cache
func (c *RedisBusinessCache) Set(ctx context.Context, b *business.Business, ttl time.Duration) error {
	raw, err := json.Marshal(fromBusiness(b))
	if err != nil {
		return fmt.Errorf("failed to encode business: %w", err)
	}
	if err := c.client.Set(ctx, c.key(b.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write business to cache: %w", err)
	}
	return nil
}

// Invalidate implements business.Cache
func (c *RedisBusinessCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate business cache: %w", err)
	}
	return nil
}

var _ business.Cache = (*RedisBusinessCache)(nil)
