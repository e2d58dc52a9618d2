//go:build scenario

package game

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/louisbranch/smalltown/internal/tools/scenario"
)

const scenarioLuaGlob = "internal/test/game/scenarios/*.lua"

// TestScenarioScripts replays every checked-in Lua scenario against a
// fresh store. One runner serves all scripts; games are isolated by id,
// so scripts cannot observe each other.
func TestScenarioScripts(t *testing.T) {
	prepareScenarioEnv(t)

	cfg := scenario.DefaultConfig()
	cfg.Verbose = testing.Verbose()
	runner, err := scenario.NewRunner(cfg)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer runner.Close()

	for _, path := range scenarioLuaPaths(t) {
		script, err := scenario.LoadScenarioFromFile(path)
		if err != nil {
			t.Fatalf("load scenario %s: %v", path, err)
		}
		name := script.Name
		if name == "" {
			name = filepath.Base(path)
		}
		t.Run(name, func(t *testing.T) {
			if err := runner.RunScenario(context.Background(), script); err != nil {
				t.Fatalf("run scenario: %v", err)
			}
		})
	}
}

func scenarioLuaPaths(t *testing.T) []string {
	t.Helper()

	pattern := filepath.Join(repoRoot(t), scenarioLuaGlob)
	paths, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatalf("glob scenarios: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no scenarios found for %s", pattern)
	}
	sort.Strings(paths)
	return paths
}
