package app

import (
	"fmt"

	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/event"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

// DefaultRegistries returns command and event registries with every game
// definition registered. Entry points share one event registry with the
// store so journal reads validate against the same definitions.
func DefaultRegistries() (*command.Registry, *event.Registry, error) {
	commands := command.NewRegistry()
	if err := game.RegisterCommands(commands); err != nil {
		return nil, nil, fmt.Errorf("register commands: %w", err)
	}
	events := event.NewRegistry()
	if err := game.RegisterEvents(events); err != nil {
		return nil, nil, fmt.Errorf("register events: %w", err)
	}
	return commands, events, nil
}
