// Package seed parses seed command flags and provisions demo games.
package seed

import (
	"context"
	"flag"
	"os"

	entrypoint "github.com/louisbranch/smalltown/internal/platform/cmd"
	"github.com/louisbranch/smalltown/internal/tools/seed"
)

// Config holds seed command configuration.
type Config = seed.Config

// ParseConfig reads seed settings from env and flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return seed.ParseConfig(fs, args)
}

// Run provisions the demo game under startup telemetry.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return seed.Run(ctx, cfg, os.Stdout)
	})
}
