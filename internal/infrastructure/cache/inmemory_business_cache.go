package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cafeops/backend/internal/domain/business"
	"github.com/google/uuid"
)

type entry struct {
	value     business.Business
	expiresAt time.Time
}

// InMemoryBusinessCache implements business.Cache with a map.
// It is per-process, so single-instance deployments and tests only.
type InMemoryBusinessCache struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryBusinessCache creates the cache and starts its cleanup goroutine
func NewInMemoryBusinessCache() *InMemoryBusinessCache {
	c := &InMemoryBusinessCache{
		entries:  make(map[uuid.UUID]entry),
		stopChan: make(chan struct{}),
	}
	c.wg.Add(1)
	go c.cleanupLoop()
	return c
}

// Get implements business.Cache. A copy is returned so callers cannot mutate the entry.
func (c *InMemoryBusinessCache) Get(_ context.Context, id uuid.UUID) (*business.Business, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	b := e.value
	return &b, true, nil
}

// Set implements business.Cache
func (c *InMemoryBusinessCache) Set(_ context.Context, b *business.Business, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[b.ID] = entry{value: *b, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Invalidate implements business.Cache
func (c *InMemoryBusinessCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryBusinessCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryBusinessCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryBusinessCache) cleanupLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryBusinessCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ business.Cache = (*InMemoryBusinessCache)(nil)
