// Package cachestore opens the configured cache backend.
package cachestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/s2design/site/internal/services/site/storage"
	"github.com/s2design/site/internal/services/site/storage/memory"
	"github.com/s2design/site/internal/services/site/storage/redis"
	"github.com/s2design/site/internal/services/site/storage/sqlite"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Options selects and configures one backend.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the store for opts. BackendNone returns a nil store, which
// turns caching off.
func Open(ctx context.Context, opts Options) (storage.Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendNone:
		return nil, nil
	case BackendMemory:
		return memory.New(), nil
	case "", BackendSQLite:
		path := strings.TrimSpace(opts.Path)
		if path != "" && path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create cache dir: %w", err)
			}
		}
		store, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		store, err := redis.Open(ctx, redis.Config{
			Address:  opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
