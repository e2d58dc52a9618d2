package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/smalltown/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/storage/integrity"
	"github.com/louisbranch/smalltown/internal/services/game/storage/sqlite/migrations"
)

// dsnOptions tunes the connection for a single-writer journal workload.
// WAL keeps readers unblocked during appends; the busy timeout covers
// writer contention from concurrent API requests.
const dsnOptions = "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

// dbtx is the shared query surface of *sql.DB and *sql.Tx, so journal
// helpers run identically inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides a SQLite-backed store implementing all storage interfaces.
type Store struct {
	sqlDB         *sql.DB
	keyring       *integrity.Keyring
	eventRegistry *event.Registry
}

// Open opens the SQLite game store at the provided path.
//
// This path wires integrity key material and the event registry so every
// appended event can be consistently hashed and validated in one place.
// Both may be nil for read-only callers; appends then fail with a
// configuration error.
func Open(path string, keyring *integrity.Keyring, registry *event.Registry) (*Store, error) {
	store, err := openStore(path, migrations.GameFS, "game")
	if err != nil {
		return nil, err
	}
	store.keyring = keyring
	store.eventRegistry = registry
	return store, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// openStore boots the SQLite database and applies the embedded migration
// scripts before the store is handed to higher layers.
func openStore(path string, migrationFS fs.FS, migrationRoot string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	sqlDB, err := sql.Open("sqlite", filepath.Clean(path)+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrationFS, migrationRoot); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// toMillis and fromMillis convert between domain times and the integer
// millisecond columns every table uses.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
