// Package storage defines the derived read cache for content API responses.
//
// Cache data is always derived and can be discarded and rebuilt from the API.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Scopes group cache entries for invalidation.
const (
	ScopeProjects     = "projects"
	ScopeCategories   = "categories"
	ScopeTestimonials = "testimonials"
	ScopePortfolio    = "portfolio"
)

// Scopes lists every cache scope.
func Scopes() []string {
	return []string{ScopeProjects, ScopeCategories, ScopeTestimonials, ScopePortfolio}
}

// Entry stores one cached payload and its freshness metadata.
type Entry struct {
	Key         string
	Scope       string
	Payload     []byte
	RefreshedAt time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the entry is past its expiry at now. A zero expiry
// never expires.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Store persists cache entries.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, key string) error
	DeleteScope(ctx context.Context, scope string) error
	Purge(ctx context.Context) error
	Close() error
}

// ErrNotConfigured is returned by methods on a nil store.
var ErrNotConfigured = errors.New("storage is not configured")

// Normalize trims and validates an entry before it is written.
func Normalize(entry Entry, now time.Time) (Entry, error) {
	entry.Key = strings.TrimSpace(entry.Key)
	if entry.Key == "" {
		return Entry{}, errors.New("cache key is required")
	}
	entry.Scope = strings.TrimSpace(entry.Scope)
	if entry.Scope == "" {
		return Entry{}, errors.New("cache scope is required")
	}
	if len(entry.Payload) == 0 {
		return Entry{}, errors.New("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = now.UTC()
	}
	return entry, nil
}
