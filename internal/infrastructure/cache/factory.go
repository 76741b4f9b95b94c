package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	dialTimeout           time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		dialTimeout:           5 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and verifies the connection
func (f *Factory) NewRedisClient(ctx context.Context) (*redis.Client, error) {
	if !f.redisConfig.Enabled() {
		return nil, fmt.Errorf("redis is not configured")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         f.redisConfig.Addr(),
		Password:     f.redisConfig.Password,
		DB:           f.redisConfig.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  f.dialTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.dialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// BusinessCache is the cache chosen by CreateBusinessCache plus the
// resource to release on shutdown. Client is nil for the in-memory cache.
type BusinessCache struct {
	business.Cache
	Client *redis.Client
	closer io.Closer
}

// Close releases the Redis client or stops the in-memory cleanup loop
func (c *BusinessCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// CreateBusinessCache tries Redis first and falls back to memory when allowed
func (f *Factory) CreateBusinessCache(ctx context.Context) (*BusinessCache, error) {
	client, err := f.NewRedisClient(ctx)
	if err == nil {
		f.logger.Info("Using Redis business cache", zap.String("addr", f.redisConfig.Addr()))
		return &BusinessCache{
			Cache:  NewRedisBusinessCache(client, ""),
			Client: client,
			closer: client,
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for business cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory business cache",
		zap.Error(err),
	)
	mem := NewInMemoryBusinessCache()
	return &BusinessCache{Cache: mem, closer: mem}, nil
}
