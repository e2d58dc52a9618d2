package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from the environment variables named in its env
// struct tags. Smalltown variables are spelled in full (SMALLTOWN_*) at
// the tag site, so a grep for a variable name lands on its owner.
func ParseEnv[T any](target *T) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
