// Package cmd carries the startup plumbing shared by every binary in
// this repository: env-then-flags config layering and a telemetry
// wrapper around the service run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"

	"github.com/louisbranch/smalltown/internal/platform/config"
	"github.com/louisbranch/smalltown/internal/platform/otel"
	"github.com/louisbranch/smalltown/internal/platform/timeouts"
)

// Service names used for telemetry resources and log prefixes.
const (
	ServiceGame     = "game"
	ServiceMCP      = "mcp"
	ServiceScenario = "scenario"
	ServiceSeed     = "seed"
)

// ParseConfig fills cfg from the environment.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags over whatever ParseConfig set.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs layers flags over environment defaults, so a
// flag always wins when both name the same setting.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry sets up tracing for the named service, runs the
// loop, and flushes telemetry on the way out. Flush failures are
// logged rather than returned; the run loop's error is the one the
// operator needs to see.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s otel shutdown: %v", service, err)
		}
	}()
	return run(ctx)
}
