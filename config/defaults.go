package config

import (
	"time"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// DefaultNetwork is used when neither the config file nor flags pick one.
var DefaultNetwork = types.CryptoOrgMainnet.Name

// feeDenoms maps built-in networks to their staking denomination.
var feeDenoms = map[string]string{
	types.CryptoOrgMainnet.Name: "basecro",
	types.CryptoOrgTestnet.Name: "basetcro",
	types.CosmosHub.Name:        "uatom",
}

// FeeDenom returns the staking denomination of a built-in network, or "".
func FeeDenom(network string) string {
	return feeDenoms[network]
}

// DefaultMainnet returns the default configuration for Crypto.org mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: types.CryptoOrgMainnet.Name,
		DataDir: DefaultDataDir(),
		Node: NodeConfig{
			ChainID:    types.CryptoOrgMainnet.ChainID,
			API:        "http://127.0.0.1:1317",
			RPC:        "http://127.0.0.1:26657",
			BalanceAPI: 1,
			Timeout:    10 * time.Second,
		},
		Fee: FeeConfig{
			GasLimit: 200000,
			Amount:   5000,
			Denom:    feeDenoms[types.CryptoOrgMainnet.Name],
		},
		Wait: WaitConfig{
			Interval:    time.Second,
			MaxAttempts: 30,
		},
		KDF: KDFConfig{
			Memory:      64 * 1024,
			Iterations:  3,
			Parallelism: 4,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Default returns the default configuration for the named network. Networks
// that are not built in start from the mainnet defaults with the chain ID
// and fee denomination left for the operator to fill in.
func Default(network string) *Config {
	cfg := DefaultMainnet()
	if network == "" || network == cfg.Network {
		return cfg
	}
	cfg.Network = network
	cfg.Node.ChainID = ""
	cfg.Fee.Denom = feeDenoms[network]
	if n, err := types.NetworkByName(network); err == nil {
		cfg.Node.ChainID = n.ChainID
	}
	return cfg
}
