// Package game parses game command flags and starts the HTTP API service.
package game

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/smalltown/internal/platform/cmd"
	"github.com/louisbranch/smalltown/internal/services/game/api/rest"
)

// Config holds game command configuration.
type Config struct {
	Port int    `env:"SMALLTOWN_GAME_PORT" envDefault:"8080"`
	Addr string `env:"SMALLTOWN_GAME_ADDR"`
}

// ParseConfig layers flag values over environment defaults.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address as host:port (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run serves the REST API until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		if cfg.Addr != "" {
			return rest.RunWithAddr(ctx, cfg.Addr)
		}
		return rest.Run(ctx, cfg.Port)
	})
}
