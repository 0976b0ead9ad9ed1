package config

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// Flags holds the global command-line flags.
type Flags struct {
	// Core
	Network string
	Testnet bool
	DataDir string
	Config  string

	// Node
	ChainID string
	API     string
	RPC     string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	fs *pflag.FlagSet
}

// RegisterFlags adds the global flags to fs and returns the struct they parse into.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	// Core
	fs.StringVar(&f.Network, "network", "", "Network: crypto-org-mainnet (default), crypto-org-testnet, cosmoshub or a custom name")
	fs.BoolVar(&f.Testnet, "testnet", false, "Shorthand for --network="+types.CryptoOrgTestnet.Name)
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory (default: ~/.cosmwallet)")
	fs.StringVarP(&f.Config, "config", "c", "", "Config file path (default: <datadir>/cosmwallet.conf)")

	// Node
	fs.StringVar(&f.ChainID, "chain-id", "", "Chain ID used in sign docs")
	fs.StringVar(&f.API, "api", "", "REST gateway URL")
	fs.StringVar(&f.RPC, "rpc", "", "Tendermint RPC URL")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error, off)")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write JSON logs to this file")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	return f
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// network returns the network picked on the command line, or "".
func (f *Flags) network() string {
	if f.Network != "" {
		return f.Network
	}
	if f.Testnet {
		return types.CryptoOrgTestnet.Name
	}
	return ""
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if n := f.network(); n != "" && n != cfg.Network {
		cfg.Network = n
		base := Default(n)
		cfg.Node.ChainID = base.Node.ChainID
		cfg.Fee.Denom = base.Fee.Denom
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Node
	if f.ChainID != "" {
		cfg.Node.ChainID = f.ChainID
	}
	if f.API != "" {
		cfg.Node.API = f.API
	}
	if f.RPC != "" {
		cfg.Node.RPC = f.RPC
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.changed("log-json") {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load loads configuration with the following precedence:
// 1. Default values for the network
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. COSMWALLET_* environment variables
// 5. Command-line flags
func Load(f *Flags) (*Config, error) {
	if f == nil {
		f = &Flags{}
	}

	cfg := Default(f.network())
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := f.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	ApplyFlags(cfg, f)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every start.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
