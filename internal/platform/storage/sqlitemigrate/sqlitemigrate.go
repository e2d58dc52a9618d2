// Package sqlitemigrate applies embedded SQL migrations to a sqlite
// database. Files run in name order, once each, one transaction per file.
package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const migrationsTable = "schema_migrations"

// ApplyMigrations runs every pending .sql file under root. Applied files
// are recorded by their path key, so reruns are no-ops. An empty root
// reads the filesystem top level.
func ApplyMigrations(ctx context.Context, sqlDB *sql.DB, fsys fs.FS, root string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}

	names, err := migrationNames(fsys, root)
	if err != nil {
		return err
	}
	if err := ensureMigrationsTable(ctx, sqlDB); err != nil {
		return err
	}

	for _, name := range names {
		key := migrationKey(root, name)
		applied, err := migrationApplied(ctx, sqlDB, key)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(fsys, readPath(root, name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		upSQL := ExtractUpMigration(string(content))
		if strings.TrimSpace(upSQL) == "" {
			continue
		}

		if err := applyMigration(ctx, sqlDB, key, upSQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// migrationNames lists the .sql entries under root in lexical order.
func migrationNames(fsys fs.FS, root string) ([]string, error) {
	dir := strings.TrimSpace(root)
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// migrationKey is the recorded identity of a migration. Files under a
// named root keep the root in their key so two migration sets sharing a
// database cannot collide.
func migrationKey(root, name string) string {
	root = strings.TrimSpace(root)
	if root == "" || root == "." {
		return name
	}
	return path.Join(root, name)
}

func readPath(root, name string) string {
	dir := strings.TrimSpace(root)
	if dir == "" {
		dir = "."
	}
	return path.Join(dir, name)
}

func ensureMigrationsTable(ctx context.Context, sqlDB *sql.DB) error {
	createSQL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, migrationsTable)
	if _, err := sqlDB.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}
	return nil
}

func migrationApplied(ctx context.Context, sqlDB *sql.DB, key string) (bool, error) {
	var found int
	row := sqlDB.QueryRowContext(ctx, "SELECT 1 FROM "+migrationsTable+" WHERE name = ?", key)
	if err := row.Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// applyMigration executes one Up section and records it, atomically. A
// failed statement leaves no record, so the file retries on next open.
func applyMigration(ctx context.Context, sqlDB *sql.DB, key, upSQL string) error {
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if _, err := tx.ExecContext(ctx, upSQL); err != nil && !IsAlreadyExistsError(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", migrationsTable),
		key,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record: %w", err)
	}

	return tx.Commit()
}

// ExtractUpMigration returns the SQL between -- +migrate Up and
// -- +migrate Down. Content without section markers applies whole.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(body, "-- +migrate Down"); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}

// IsAlreadyExistsError reports whether err marks DDL that already took
// effect, which replays treat as success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}
