// Package seed provisions demo games for local development.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/louisbranch/smalltown/internal/id"
	entrypoint "github.com/louisbranch/smalltown/internal/platform/cmd"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	"github.com/louisbranch/smalltown/internal/services/game/domain/command"
	"github.com/louisbranch/smalltown/internal/services/game/domain/game"
)

// Config holds seed tool configuration.
type Config struct {
	DBPath string `env:"SMALLTOWN_GAME_DB_PATH"`
	Name   string
	Night  bool
}

// ParseConfig reads the seed settings, flags over env.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Name = "Demo Town"
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the game database")
	fs.StringVar(&cfg.Name, "name", cfg.Name, "name for the seeded game")
	fs.BoolVar(&cfg.Night, "night", cfg.Night, "advance the seeded game to night 1")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DemoRoster returns the seven-seat setup the seed provisions: a cop,
// a doctor, three vanilla townies, and a two-member mafia.
func DemoRoster() []game.PlayerSetup {
	return []game.PlayerSetup{
		{Name: "alice", Role: "Cop", Alignment: "town"},
		{Name: "bob", Role: "Doctor", Alignment: "town"},
		{Name: "carol", Role: "Vanilla", Alignment: "town"},
		{Name: "dave", Role: "Vanilla", Alignment: "town"},
		{Name: "erin", Role: "Vanilla", Alignment: "town"},
		{Name: "frank", Role: "Vanilla", Alignment: "mafia"},
		{Name: "grace", Role: "Roleblocker", Alignment: "mafia"},
	}
}

// Run provisions a demo game and writes its credentials to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	svc, closeStore, err := app.Open(cfg.DBPath, zerolog.Nop())
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()
	return seed(ctx, svc, cfg, out)
}

// seed runs against an assembled service so tests can inject one.
func seed(ctx context.Context, svc *app.Service, cfg Config, out io.Writer) error {
	requestID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("mint request id: %w", err)
	}
	result, err := svc.CreateGame(ctx, app.CreateParams{
		RequestID: requestID,
		Payload:   game.CreatePayload{Name: cfg.Name, Players: DemoRoster()},
	})
	if err != nil {
		return fmt.Errorf("create demo game: %w", err)
	}
	if len(result.Decision.Rejections) > 0 {
		rej := result.Decision.Rejections[0]
		return fmt.Errorf("create demo game: %s (%s)", rej.Message, rej.Code)
	}

	if cfg.Night {
		requestID, err := id.NewID()
		if err != nil {
			return fmt.Errorf("mint request id: %w", err)
		}
		decision, err := svc.Execute(ctx, command.Command{
			GameID:    result.GameID,
			Type:      game.CommandTypeAdvancePhase,
			ActorType: command.ActorTypeModerator,
			RequestID: requestID,
		})
		if err != nil {
			return fmt.Errorf("advance to night: %w", err)
		}
		if len(decision.Rejections) > 0 {
			rej := decision.Rejections[0]
			return fmt.Errorf("advance to night: %s (%s)", rej.Message, rej.Code)
		}
	}

	fmt.Fprintf(out, "game: %s\n", result.GameID)
	fmt.Fprintf(out, "moderator token: %s\n", result.Token)
	fmt.Fprintln(out, "seats:")
	for _, p := range DemoRoster() {
		fmt.Fprintf(out, "  %-6s %-12s %s\n", p.Name, p.Role, p.Alignment)
	}
	return nil
}
