package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/louisbranch/smalltown/internal/services/game/domain/grant"
	"github.com/louisbranch/smalltown/internal/services/game/domain/role/catalog"
	"github.com/louisbranch/smalltown/internal/services/game/storage/integrity"
	"github.com/louisbranch/smalltown/internal/services/game/storage/sqlite"
	"github.com/louisbranch/smalltown/internal/telemetry"
)

// EnvDBPath overrides where the game database lives.
const EnvDBPath = "SMALLTOWN_GAME_DB_PATH"

const defaultDBPath = "data/game.db"

// OpenFromEnv assembles a production service from environment
// configuration: the sqlite store at SMALLTOWN_GAME_DB_PATH, the
// journal keyring, the standard role catalog, and seat grant
// verification when the grant variables are set. The returned closer
// releases the store.
func OpenFromEnv(logger zerolog.Logger) (*Service, func() error, error) {
	return Open("", logger)
}

// Open is OpenFromEnv with an explicit database path. An empty path
// falls back to the environment, then to the default location.
func Open(path string, logger zerolog.Logger) (*Service, func() error, error) {
	keyring, err := integrity.KeyringFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load journal keyring: %w", err)
	}
	commands, events, err := DefaultRegistries()
	if err != nil {
		return nil, nil, fmt.Errorf("build registries: %w", err)
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvDBPath))
	}
	if path == "" {
		path = filepath.FromSlash(defaultDBPath)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path, keyring, events)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite store: %w", err)
	}

	var grants *grant.SeatGrantConfig
	if seatGrantConfigured() {
		cfg, err := grant.LoadSeatGrantConfigFromEnv(time.Now)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("load seat grant config: %w", err)
		}
		grants = &cfg
	}

	svc, err := New(Config{
		Store:     store,
		Commands:  commands,
		Events:    events,
		Set:       catalog.Standard(),
		Grants:    grants,
		Telemetry: telemetry.NewEmitter(store),
		Logger:    logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return svc, store.Close, nil
}

// seatGrantConfigured reports whether any grant variable is set, so a
// partially configured verifier fails loudly instead of silently
// running without grants.
func seatGrantConfigured() bool {
	for _, key := range []string{
		grant.EnvSeatGrantIssuer,
		grant.EnvSeatGrantAudience,
		grant.EnvSeatGrantPublicKey,
	} {
		if strings.TrimSpace(os.Getenv(key)) != "" {
			return true
		}
	}
	return false
}
