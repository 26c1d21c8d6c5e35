// Package config loads the probe's settings from the process environment,
// after overlaying any local env files onto it.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pterm/pterm"
)

// DefaultEnvFile is overlaid onto the environment when no other file is named.
const DefaultEnvFile = ".env"

// Config holds environment-based configuration.
// None of the fields are required; absent values are passed through as empty strings.
type Config struct {
	Host      string `envconfig:"CATCHER_HOST"`
	Token     string `envconfig:"CATCHER_TOKEN"`
	SentryDSN string `envconfig:"PROBE_SENTRY_DSN"`
}

// Load overlays the given env files onto the process environment and decodes the result.
// Variables already set in the environment win over file values. A missing file is skipped.
func Load(files ...string) (*Config, error) {
	if err := loadEnvFiles(files...); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}
	return &cfg, nil
}

func loadEnvFiles(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			pterm.Debug.Printfln("env file %s not found, skipping", f)
			continue
		}
		if err != nil {
			return fmt.Errorf("unable to load env file %s: %w", f, err)
		}
		pterm.Debug.Printfln("loaded env file %s", f)
	}
	return nil
}
