package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network == "" {
		return fmt.Errorf("network is required")
	}
	if _, err := cfg.ChainNetwork(); err != nil {
		return fmt.Errorf("network %q: set node.hrp for networks that are not built in", cfg.Network)
	}
	if cfg.Node.ChainID == "" {
		return fmt.Errorf("node.chainid is required")
	}
	if err := validateEndpoint(cfg.Node.API, "node.api"); err != nil {
		return err
	}
	if err := validateEndpoint(cfg.Node.RPC, "node.rpc"); err != nil {
		return err
	}
	if cfg.Node.BalanceAPI != 0 && cfg.Node.BalanceAPI != 1 {
		return fmt.Errorf("node.balanceapi must be 0 or 1")
	}
	if cfg.Node.Timeout <= 0 {
		return fmt.Errorf("node.timeout must be positive")
	}

	if cfg.Fee.GasLimit == 0 {
		return fmt.Errorf("fee.gas must be positive")
	}
	if cfg.Fee.Denom == "" {
		return fmt.Errorf("fee.denom is required")
	}

	if cfg.Wait.Interval <= 0 {
		return fmt.Errorf("wait.interval must be positive")
	}
	if cfg.Wait.MaxAttempts <= 0 {
		return fmt.Errorf("wait.attempts must be positive")
	}

	if cfg.KDF.Memory == 0 || cfg.KDF.Iterations == 0 || cfg.KDF.Parallelism == 0 {
		return fmt.Errorf("kdf.memory, kdf.iterations and kdf.parallelism must be positive")
	}
	if cfg.KDF.Memory < 8*uint32(cfg.KDF.Parallelism) {
		return fmt.Errorf("kdf.memory must be at least 8*kdf.parallelism KiB")
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "disabled", "off":
	default:
		return fmt.Errorf("log.level %q is not a known level", cfg.Log.Level)
	}

	return nil
}

func validateEndpoint(raw, field string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host", field)
	}
	return nil
}
