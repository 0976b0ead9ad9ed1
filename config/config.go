// Package config handles wallet CLI configuration.
//
// Settings are layered, later layers winning:
//   - Per-network defaults
//   - The cosmwallet.conf file in the data directory
//   - COSMWALLET_* environment variables
//   - Command-line flags
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// Config holds the wallet CLI runtime configuration. Environment overrides
// follow the field names, e.g. COSMWALLET_NODE_RPC or COSMWALLET_FEE_GAS_LIMIT.
type Config struct {
	// Core
	Network string `conf:"network"`
	DataDir string `conf:"datadir" split_words:"true"`

	// Chain endpoints
	Node NodeConfig

	// Default transaction fee
	Fee FeeConfig

	// Confirmation polling
	Wait WaitConfig

	// Keystore encryption
	KDF KDFConfig

	// Logging
	Log LogConfig
}

// NodeConfig holds the endpoints of the chain the wallet talks to.
type NodeConfig struct {
	ChainID    string        `conf:"node.chainid" split_words:"true"`
	API        string        `conf:"node.api"`                           // REST gateway, e.g. http://127.0.0.1:1317
	RPC        string        `conf:"node.rpc"`                           // Tendermint RPC, e.g. http://127.0.0.1:26657
	BalanceAPI int           `conf:"node.balanceapi" split_words:"true"` // 0 = path form, 1 = by_denom form
	Timeout    time.Duration `conf:"node.timeout"`

	// Only read for networks that are not built in.
	HRP          string `conf:"node.hrp"`
	ValidatorHRP string `conf:"node.validatorhrp" split_words:"true"`
	CoinType     uint32 `conf:"node.cointype" split_words:"true"`
}

// FeeConfig holds the fee attached to transactions when flags don't override it.
type FeeConfig struct {
	GasLimit uint64 `conf:"fee.gas" split_words:"true"`
	Amount   uint64 `conf:"fee.amount"`
	Denom    string `conf:"fee.denom"`
}

// WaitConfig bounds how long the CLI waits for block inclusion.
type WaitConfig struct {
	Interval    time.Duration `conf:"wait.interval"`
	MaxAttempts int           `conf:"wait.attempts" split_words:"true"`
}

// KDFConfig holds the Argon2id parameters used for new keystore entries.
type KDFConfig struct {
	Memory      uint32 `conf:"kdf.memory"` // KiB
	Iterations  uint32 `conf:"kdf.iterations"`
	Parallelism uint8  `conf:"kdf.parallelism"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// ChainNetwork resolves the configured network. Built-in names map to their
// registered prefixes and coin type; any other name is assembled from the
// node.hrp, node.validatorhrp and node.cointype settings.
func (c *Config) ChainNetwork() (types.Network, error) {
	if n, err := types.NetworkByName(c.Network); err == nil {
		if c.Node.ChainID != "" {
			n.ChainID = c.Node.ChainID
		}
		return n, nil
	}
	return types.NewNetwork(c.Network, c.Node.ChainID, c.Node.HRP, c.Node.ValidatorHRP, c.Node.CoinType)
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.cosmwallet
//	macOS:   ~/Library/Application Support/Cosmwallet
//	Windows: %APPDATA%\Cosmwallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cosmwallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Cosmwallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Cosmwallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "Cosmwallet")
	default:
		return filepath.Join(home, ".cosmwallet")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, c.Network)
}

// KeystoreDir returns the keystore database directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "cosmwallet.conf")
}
