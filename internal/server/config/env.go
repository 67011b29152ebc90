package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvFile is read into the process environment before env parsing.
// Variables already set in the environment win.
var dotenvFile = ".env"

// parseEnv overlays values from environment variables named in the env tags
// of Config. Unset variables keep the current value.
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
