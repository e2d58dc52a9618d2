// Package scenario parses scenario command flags and runs Lua game
// scripts against the engine.
package scenario

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"time"

	entrypoint "github.com/louisbranch/smalltown/internal/platform/cmd"
	"github.com/louisbranch/smalltown/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	DBPath     string        `env:"SMALLTOWN_GAME_DB_PATH"`
	Scenario   string        `env:"SMALLTOWN_SCENARIO_FILE"`
	Assertions bool          `env:"SMALLTOWN_SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"SMALLTOWN_SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"SMALLTOWN_SCENARIO_TIMEOUT" envDefault:"10s"`
}

// ParseConfig reads environment defaults and lets flags override them.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the game database")
	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "scenario script to run (.lua)")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "fail on unmet expectations (off logs them instead)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log each step")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-step timeout")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run plays the configured scenario against a fresh runtime.
func Run(ctx context.Context, cfg Config, errOut io.Writer) error {
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceScenario, func(ctx context.Context) error {
		return scenario.RunFile(ctx, scenario.Config{
			DBPath:     cfg.DBPath,
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     log.New(errOut, "", 0),
		}, cfg.Scenario)
	})
}
