package migrations

import (
	"io/fs"
	"testing"
)

func TestGameMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(GameFS, "game")
	if err != nil {
		t.Fatalf("read game migrations: %v", err)
	}

	names := make(map[string]bool, len(entries))
	for _, entry := range entries {
		names[entry.Name()] = true
	}
	for _, want := range []string{"001_events.sql", "002_projections.sql"} {
		if !names[want] {
			t.Fatalf("missing embedded migration %s, have %v", want, names)
		}
	}
}
