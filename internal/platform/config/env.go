// Package config holds the small pieces every toyrobot entry point shares:
// reading settings from TOYROBOT_* variables and bailing out of main.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills the env-tagged fields of target. Fields whose variable is
// unset keep their envDefault; a value that does not convert is an error.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf prints a one-line message for the operator and ends the process with
// status 1. Only main calls it.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
