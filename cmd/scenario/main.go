// Package main runs Lua scenario scripts against an in-process game
// service, for smoke-testing rule changes without a server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/smalltown/internal/platform/config"

	scenariocmd "github.com/louisbranch/smalltown/internal/cmd/scenario"
)

func main() {
	cfg, err := scenariocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scenariocmd.Run(ctx, cfg, os.Stderr); err != nil {
		config.Exitf("run scenarios: %v", err)
	}
}
