// Package mcp parses MCP command flags and serves the stdio tool surface.
package mcp

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	entrypoint "github.com/louisbranch/smalltown/internal/platform/cmd"
	"github.com/louisbranch/smalltown/internal/services/game/app"
	mcpservice "github.com/louisbranch/smalltown/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath string `env:"SMALLTOWN_GAME_DB_PATH"`
}

// ParseConfig reads the database path from env, letting -db override.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the game database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP tool server on stdio.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(ctx context.Context) error {
		// stdout carries the protocol, so logs go to stderr.
		logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "mcp").Logger()
		svc, closeStore, err := app.Open(cfg.DBPath, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeStore(); err != nil {
				logger.Error().Err(err).Msg("close store")
			}
		}()
		server, err := mcpservice.New(svc)
		if err != nil {
			return err
		}
		return server.Serve(ctx)
	})
}
