//go:build scenario

package game

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/louisbranch/smalltown/internal/services/game/app"
)

// prepareScenarioEnv points the game store at a throwaway sqlite file
// and configures a signing key, since the runner opens the service
// from the environment.
func prepareScenarioEnv(t *testing.T) {
	t.Helper()
	t.Setenv(app.EnvDBPath, filepath.Join(t.TempDir(), "game.db"))
	t.Setenv("SMALLTOWN_GAME_EVENT_HMAC_KEY", "test-key")
}

// repoRoot walks up from this file to the module root, so the scenario
// glob works no matter which directory go test runs from.
func repoRoot(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to resolve runtime caller")
	}

	dir := filepath.Dir(filename)
	for dir != filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("go.mod not found above %s", filename)
	return ""
}
