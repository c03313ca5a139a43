// Package sqlite provides a SQLite-backed cache store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/s2design/site/internal/platform/storage/sqlitemigrate"
	"github.com/s2design/site/internal/services/site/storage"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Store persists cache entries in one SQLite file.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

type row struct {
	Key         string `db:"cache_key"`
	Scope       string `db:"scope"`
	Payload     []byte `db:"payload_json"`
	RefreshedAt int64  `db:"refreshed_at"`
	ExpiresAt   int64  `db:"expires_at"`
}

// Open opens and migrates the cache database at path. ":memory:" opens a
// single-connection in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, db, migrationFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get loads a live entry by key.
func (s *Store) Get(ctx context.Context, key string) (storage.Entry, bool, error) {
	if s == nil || s.db == nil {
		return storage.Entry{}, false, storage.ErrNotConfigured
	}
	var r row
	err := s.db.GetContext(ctx, &r,
		`SELECT cache_key, scope, payload_json, refreshed_at, expires_at FROM cache_entries WHERE cache_key = ?`,
		strings.TrimSpace(key),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Entry{}, false, nil
	}
	if err != nil {
		return storage.Entry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry := storage.Entry{
		Key:         r.Key,
		Scope:       r.Scope,
		Payload:     r.Payload,
		RefreshedAt: fromUnixMillis(r.RefreshedAt),
		ExpiresAt:   fromUnixMillis(r.ExpiresAt),
	}
	if entry.Expired(s.now()) {
		return storage.Entry{}, false, nil
	}
	return entry, true, nil
}

// Put upserts an entry.
func (s *Store) Put(ctx context.Context, entry storage.Entry) error {
	if s == nil || s.db == nil {
		return storage.ErrNotConfigured
	}
	entry, err := storage.Normalize(entry, s.now())
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx,
		`INSERT INTO cache_entries (cache_key, scope, payload_json, refreshed_at, expires_at)
		 VALUES (:cache_key, :scope, :payload_json, :refreshed_at, :expires_at)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    scope = excluded.scope,
		    payload_json = excluded.payload_json,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		row{
			Key:         entry.Key,
			Scope:       entry.Scope,
			Payload:     entry.Payload,
			RefreshedAt: toUnixMillis(entry.RefreshedAt),
			ExpiresAt:   toUnixMillis(entry.ExpiresAt),
		},
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// Delete removes one entry.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.exec(ctx, "delete cache entry", `DELETE FROM cache_entries WHERE cache_key = ?`, strings.TrimSpace(key))
}

// DeleteScope removes every entry in scope.
func (s *Store) DeleteScope(ctx context.Context, scope string) error {
	return s.exec(ctx, "delete cache scope", `DELETE FROM cache_entries WHERE scope = ?`, strings.TrimSpace(scope))
}

// Purge removes every entry.
func (s *Store) Purge(ctx context.Context) error {
	return s.exec(ctx, "purge cache", `DELETE FROM cache_entries`)
}

// DeleteExpired removes entries already past their expiry and reports how
// many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, storage.ErrNotConfigured
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at > 0 AND expires_at <= ?`,
		toUnixMillis(s.now()),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired cache entries: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) exec(ctx context.Context, op, query string, args ...any) error {
	if s == nil || s.db == nil {
		return storage.ErrNotConfigured
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func toUnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

func fromUnixMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
