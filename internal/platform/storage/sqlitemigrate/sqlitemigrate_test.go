package sqlitemigrate

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func migrationFS(name, sqlText string) fstest.MapFS {
	return fstest.MapFS{
		name: &fstest.MapFile{Data: []byte("-- +migrate Up\n" + sqlText)},
	}
}

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openTestDB(t)

	fsys := migrationFS("001_create.sql", "CREATE TABLE seats(name TEXT PRIMARY KEY);")
	if err := ApplyMigrations(context.Background(), db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if got := countRows(t, db, migrationsTable); got != 1 {
		t.Fatalf("migration rows = %d, want 1", got)
	}
	if !tableExists(t, db, "seats") {
		t.Fatal("expected migrated table to exist")
	}
}

func TestApplyMigrationsReplayIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	fsys := migrationFS("001_create.sql", "CREATE TABLE seats(name TEXT PRIMARY KEY);")
	if err := ApplyMigrations(context.Background(), db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(context.Background(), db, fsys, ""); err != nil {
		t.Fatalf("replay migrations: %v", err)
	}

	if got := countRows(t, db, migrationsTable); got != 1 {
		t.Fatalf("migration rows after replay = %d, want 1", got)
	}
}

func TestApplyMigrationsLeavesFailedFileUnrecorded(t *testing.T) {
	db := openTestDB(t)

	bad := migrationFS("001_bad.sql", "CREAT table things(id INT);")
	if err := ApplyMigrations(context.Background(), db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, migrationsTable); got != 0 {
		t.Fatalf("migration rows after failure = %d, want 0", got)
	}

	good := migrationFS("001_bad.sql", "CREATE TABLE things(id INTEGER PRIMARY KEY);")
	if err := ApplyMigrations(context.Background(), db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := countRows(t, db, migrationsTable); got != 1 {
		t.Fatalf("migration rows after fix = %d, want 1", got)
	}
}

func TestApplyMigrationsKeysIncludeRoot(t *testing.T) {
	db := openTestDB(t)

	fsys := fstest.MapFS{
		"journal/001_events.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE event_rows(id TEXT PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(context.Background(), db, fsys, "journal"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	var key string
	row := db.QueryRow("SELECT name FROM " + migrationsTable + " LIMIT 1")
	if err := row.Scan(&key); err != nil {
		t.Fatalf("read migration key: %v", err)
	}
	if key != "journal/001_events.sql" {
		t.Fatalf("migration key = %q, want %q", key, "journal/001_events.sql")
	}
	if !tableExists(t, db, "event_rows") {
		t.Fatal("expected migrated table under root")
	}
}

func TestExtractUpMigrationStopsAtDownSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a(id);\n-- +migrate Down\nDROP TABLE a;"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a(id);\n" {
		t.Fatalf("up section = %q", up)
	}

	plain := "CREATE TABLE b(id);"
	if ExtractUpMigration(plain) != plain {
		t.Fatalf("unmarked content should apply whole")
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var value int64
	row := db.QueryRow("SELECT COUNT(*) FROM " + table)
	if err := row.Scan(&value); err != nil {
		t.Fatalf("count rows in %s: %v", table, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName)
	if err := row.Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return false
		}
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
