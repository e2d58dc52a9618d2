package main

import (
	"flag"
	"os"

	"github.com/louisbranch/smalltown/internal/platform/config"
	"github.com/louisbranch/smalltown/internal/tools/seatgrant"
)

func main() {
	cfg, err := seatgrant.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := seatgrant.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("seat grant: %v", err)
	}
}
