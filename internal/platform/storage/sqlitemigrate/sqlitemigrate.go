// Package sqlitemigrate applies embedded SQL migrations to a SQLite database.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// ApplyMigrations executes the .sql files under root in name order, each at
// most once. A file is recorded only after its Up section commits.
func ApplyMigrations(ctx context.Context, db *sqlx.DB, migrationFS fs.FS, root string) error {
	if db == nil {
		return errors.New("sql db is required")
	}
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}

	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, file := range files {
		name := path.Join(root, file)
		if root == "." {
			name = file
		}
		if err := applyOne(ctx, db, migrationFS, name); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, db *sqlx.DB, migrationFS fs.FS, name string) error {
	var found int
	err := db.GetContext(ctx, &found, "SELECT 1 FROM "+migrationTable+" WHERE name = ?", name)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check migration %s: %w", name, err)
	}

	content, err := fs.ReadFile(migrationFS, name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	upSQL := ExtractUpMigration(string(content))
	if strings.TrimSpace(upSQL) == "" {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO "+migrationTable+" (name, applied_at) VALUES (?, ?)",
		name, time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// ExtractUpMigration returns the SQL between the Up and Down markers. Content
// without an Up marker is returned whole.
func ExtractUpMigration(content string) string {
	up := strings.Index(content, upMarker)
	if up == -1 {
		return content
	}
	body := content[up+len(upMarker):]
	if down := strings.Index(body, downMarker); down != -1 {
		return body[:down]
	}
	return body
}

// IsAlreadyExistsError reports whether err is idempotent DDL noise.
func IsAlreadyExistsError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}
