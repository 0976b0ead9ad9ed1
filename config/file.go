package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	// The network decides the defaults the other keys override.
	if network, ok := values["network"]; ok && network != cfg.Network {
		dataDir := cfg.DataDir
		*cfg = *Default(network)
		cfg.DataDir = dataDir
	}
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = value
	case "datadir":
		cfg.DataDir = value

	// Node
	case "node.chainid", "chainid":
		cfg.Node.ChainID = value
	case "node.api", "api":
		cfg.Node.API = value
	case "node.rpc", "rpc":
		cfg.Node.RPC = value
	case "node.balanceapi":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Node.BalanceAPI = n
	case "node.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Node.Timeout = d
	case "node.hrp":
		cfg.Node.HRP = value
	case "node.validatorhrp":
		cfg.Node.ValidatorHRP = value
	case "node.cointype":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Node.CoinType = uint32(n)

	// Fee
	case "fee.gas":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Fee.GasLimit = n
	case "fee.amount":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Fee.Amount = n
	case "fee.denom":
		cfg.Fee.Denom = value

	// Wait
	case "wait.interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Wait.Interval = d
	case "wait.attempts":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Wait.MaxAttempts = n

	// Keystore KDF
	case "kdf.memory":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.KDF.Memory = uint32(n)
	case "kdf.iterations":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.KDF.Iterations = uint32(n)
	case "kdf.parallelism":
		n, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return err
		}
		cfg.KDF.Parallelism = uint8(n)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file for network.
func WriteDefaultConfig(path string, network string) error {
	cfg := Default(network)
	content := `# Cosmwallet Configuration
#
# Values here override the built-in defaults for the selected network.
# COSMWALLET_* environment variables and command-line flags override this file.

# Network: crypto-org-mainnet, crypto-org-testnet, cosmoshub or a custom name
network = ` + cfg.Network + `

# Data directory (default: ~/.cosmwallet)
# datadir = ~/.cosmwallet

# ============================================================================
# Node
# ============================================================================

node.chainid = ` + cfg.Node.ChainID + `
node.api = ` + cfg.Node.API + `
node.rpc = ` + cfg.Node.RPC + `

# Balance query layout: 0 = /balances/{addr}/{denom}, 1 = /balances/{addr}/by_denom
node.balanceapi = ` + strconv.Itoa(cfg.Node.BalanceAPI) + `
# node.timeout = 10s

# Custom networks only
# node.hrp = osmo
# node.validatorhrp = osmovaloper
# node.cointype = 118

# ============================================================================
# Fee
# ============================================================================

fee.gas = ` + strconv.FormatUint(cfg.Fee.GasLimit, 10) + `
fee.amount = ` + strconv.FormatUint(cfg.Fee.Amount, 10) + `
fee.denom = ` + cfg.Fee.Denom + `

# ============================================================================
# Confirmation
# ============================================================================

# wait.interval = 1s
# wait.attempts = 30

# ============================================================================
# Keystore encryption (Argon2id)
# ============================================================================

# kdf.memory = 65536
# kdf.iterations = 3
# kdf.parallelism = 4

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
