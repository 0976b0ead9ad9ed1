package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces the environment overrides.
const EnvPrefix = "COSMWALLET"

// ApplyEnv overrides cfg with any COSMWALLET_* environment variables that are
// set. Unset variables leave the current value alone.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// EnvUsage writes the recognised environment variables to stdout.
func EnvUsage() error {
	return envconfig.Usage(EnvPrefix, &Config{})
}
