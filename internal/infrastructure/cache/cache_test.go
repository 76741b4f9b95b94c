package cache

import (
	"context"
	"testing"
	"time"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBusiness(t *testing.T, name string) *business.Business {
	t.Helper()
	b, err := business.NewBusiness(name)
	require.NoError(t, err)
	return b
}

func TestInMemoryBusinessCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryBusinessCache()
	defer c.Close()

	b := newTestBusiness(t, "Café Central")

	_, ok, err := c.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, b, time.Hour))
	got, ok, err := c.Get(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Café Central", got.Name)

	// returned value is a copy
	got.Name = "changed"
	again, _, _ := c.Get(ctx, b.ID)
	assert.Equal(t, "Café Central", again.Name)

	require.NoError(t, c.Invalidate(ctx, b.ID))
	_, ok, err = c.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryBusinessCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryBusinessCache()
	defer c.Close()

	b := newTestBusiness(t, "Panadería Sur")
	require.NoError(t, c.Set(ctx, b, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := c.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, c.Size())
	c.cleanup()
	assert.Equal(t, 0, c.Size())
}

func TestInMemoryBusinessCache_CloseIsIdempotent(t *testing.T) {
	c := NewInMemoryBusinessCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestFactory_CreateBusinessCache(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to memory when redis is not configured", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{})
		bc, err := f.CreateBusinessCache(ctx)
		require.NoError(t, err)
		defer bc.Close()

		assert.Nil(t, bc.Client)
		_, isMem := bc.Cache.(*InMemoryBusinessCache)
		assert.True(t, isMem)
	})

	t.Run("falls back to memory when redis is unreachable", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{Host: "127.0.0.1", Port: 1})
		f.dialTimeout = 200 * time.Millisecond
		bc, err := f.CreateBusinessCache(ctx)
		require.NoError(t, err)
		defer bc.Close()

		assert.Nil(t, bc.Client)
	})

	t.Run("errors when fallback is disabled", func(t *testing.T) {
		f := NewFactory(config.RedisConfig{}, WithInMemoryFallback(false))
		_, err := f.CreateBusinessCache(ctx)
		assert.Error(t, err)
	})
}

func TestCachedBusiness_RoundTrip(t *testing.T) {
	b := newTestBusiness(t, "Bistro")
	got := fromBusiness(b).toBusiness()
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, b.Name, got.Name)
	assert.True(t, got.IsActive)
}
