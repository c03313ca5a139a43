// Package memory provides an in-process cache store.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/s2design/site/internal/services/site/storage"
)

// Store keeps cache entries in a map guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	entries map[string]storage.Entry
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: map[string]storage.Entry{}, now: time.Now}
}

// Get returns a live entry by key.
func (s *Store) Get(_ context.Context, key string) (storage.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[strings.TrimSpace(key)]
	if !ok || entry.Expired(s.now()) {
		return storage.Entry{}, false, nil
	}
	entry.Payload = append([]byte(nil), entry.Payload...)
	return entry, true, nil
}

// Put upserts an entry.
func (s *Store) Put(_ context.Context, entry storage.Entry) error {
	entry, err := storage.Normalize(entry, s.now())
	if err != nil {
		return err
	}
	entry.Payload = append([]byte(nil), entry.Payload...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

// Delete removes one entry.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, strings.TrimSpace(key))
	return nil
}

// DeleteScope removes every entry in scope.
func (s *Store) DeleteScope(_ context.Context, scope string) error {
	scope = strings.TrimSpace(scope)
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if entry.Scope == scope {
			delete(s.entries, key)
		}
	}
	return nil
}

// Purge removes every entry.
func (s *Store) Purge(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = map[string]storage.Entry{}
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Len reports the number of stored entries, live or expired.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
