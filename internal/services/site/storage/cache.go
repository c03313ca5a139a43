package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/s2design/site/internal/platform/timeouts"
	"go.uber.org/zap"
)

// Cache is a read-through layer over a Store. A nil Cache, or one without a
// store, always calls the loader.
type Cache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
	// generations counts invalidations per scope. A load that overlaps an
	// invalidation does not write its result back.
	generations map[string]uint64
}

// NewCache wraps store with a fixed time-to-live.
func NewCache(store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{store: store, ttl: ttl, logger: logger, now: time.Now, generations: map[string]uint64{}}
}

func (c *Cache) generation(scope string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[scope]
}

func (c *Cache) bump(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations == nil {
		c.generations = map[string]uint64{}
	}
	c.generations[scope]++
}

// Fetch returns the cached value for key or loads, stores and returns it.
// Cache failures are logged and never fail the read.
func Fetch[T any](ctx context.Context, c *Cache, scope, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil || c.store == nil || c.ttl <= 0 {
		return load(ctx)
	}
	if value, ok := c.get(ctx, key); ok {
		var out T
		if err := json.Unmarshal(value, &out); err == nil {
			return out, nil
		}
		c.logger.Warn("cache payload unreadable", zap.String("key", key))
	}

	gen := c.generation(scope)
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if c.generation(scope) != gen {
		c.logger.Debug("cache write skipped after invalidation", zap.String("key", key))
		return out, nil
	}
	payload, err := json.Marshal(out)
	if err != nil {
		c.logger.Warn("cache payload not encodable", zap.String("key", key), zap.Error(err))
		return out, nil
	}
	now := c.now().UTC()
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.CacheOp)
	defer cancel()
	if err := c.store.Put(opCtx, Entry{
		Key:         key,
		Scope:       scope,
		Payload:     payload,
		RefreshedAt: now,
		ExpiresAt:   now.Add(c.ttl),
	}); err != nil {
		c.logger.Warn("cache put failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool) {
	opCtx, cancel := context.WithTimeout(ctx, timeouts.CacheOp)
	defer cancel()
	entry, ok, err := c.store.Get(opCtx, key)
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok || entry.Expired(c.now()) {
		return nil, false
	}
	return entry.Payload, true
}

// Invalidate drops every entry in the given scopes.
func (c *Cache) Invalidate(ctx context.Context, scopes ...string) {
	if c == nil || c.store == nil {
		return
	}
	for _, scope := range scopes {
		c.bump(scope)
	}
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.CacheOp)
	defer cancel()
	for _, scope := range scopes {
		if err := c.store.DeleteScope(opCtx, scope); err != nil {
			c.logger.Warn("cache invalidate failed", zap.String("scope", scope), zap.Error(err))
		}
	}
}
