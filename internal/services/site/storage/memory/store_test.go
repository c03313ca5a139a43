package memory

import (
	"context"
	"testing"
	"time"

	"github.com/s2design/site/internal/services/site/storage"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return now }

	put := func(key, scope string, expires time.Time) {
		t.Helper()
		if err := s.Put(ctx, storage.Entry{Key: key, Scope: scope, Payload: []byte(`[]`), ExpiresAt: expires}); err != nil {
			t.Fatalf("Put(%s): %v", key, err)
		}
	}
	put("projects:list", storage.ScopeProjects, now.Add(time.Minute))
	put("projects:get:1", storage.ScopeProjects, now.Add(time.Minute))
	put("portfolio:list", storage.ScopePortfolio, now.Add(time.Minute))
	put("stale", storage.ScopePortfolio, now.Add(-time.Second))

	if _, ok, _ := s.Get(ctx, "stale"); ok {
		t.Fatal("expired entry should miss")
	}
	if _, ok, _ := s.Get(ctx, "projects:list"); !ok {
		t.Fatal("expected hit")
	}

	if err := s.DeleteScope(ctx, storage.ScopeProjects); err != nil {
		t.Fatalf("DeleteScope: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "projects:get:1"); ok {
		t.Fatal("scope delete should remove projects entries")
	}
	if _, ok, _ := s.Get(ctx, "portfolio:list"); !ok {
		t.Fatal("other scopes should survive")
	}

	if err := s.Delete(ctx, "portfolio:list"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after purge", s.Len())
	}
}

func TestPutRejectsInvalidEntries(t *testing.T) {
	if err := New().Put(context.Background(), storage.Entry{Key: "k"}); err == nil {
		t.Fatal("expected validation error")
	}
}
