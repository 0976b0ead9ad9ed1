package types

import "fmt"

// Network describes the address and derivation conventions of a Cosmos SDK chain.
type Network struct {
	Name string
	// ChainID is informational; the signer takes the chain ID from the tx info.
	ChainID      string
	HRP          string
	ValidatorHRP string
	CoinType     uint32
}

// Built-in networks.
var (
	CryptoOrgMainnet = Network{
		Name:         "crypto-org-mainnet",
		ChainID:      "crypto-org-chain-mainnet-1",
		HRP:          "cro",
		ValidatorHRP: "crocncl",
		CoinType:     394,
	}
	CryptoOrgTestnet = Network{
		Name:         "crypto-org-testnet",
		ChainID:      "testnet-croeseid-4",
		HRP:          "tcro",
		ValidatorHRP: "tcrocncl",
		CoinType:     1,
	}
	CosmosHub = Network{
		Name:         "cosmoshub",
		ChainID:      "cosmoshub-4",
		HRP:          "cosmos",
		ValidatorHRP: "cosmosvaloper",
		CoinType:     118,
	}
)

var builtinNetworks = []Network{CryptoOrgMainnet, CryptoOrgTestnet, CosmosHub}

// NewNetwork describes a chain that is not built in.
func NewNetwork(name, chainID, hrp, validatorHRP string, coinType uint32) (Network, error) {
	if hrp == "" {
		return Network{}, Errorf(StageAddress, ErrUnsupportedNetwork, "network %q has empty bech32 prefix", name)
	}
	if validatorHRP == "" {
		validatorHRP = hrp + "valoper"
	}
	return Network{
		Name:         name,
		ChainID:      chainID,
		HRP:          hrp,
		ValidatorHRP: validatorHRP,
		CoinType:     coinType,
	}, nil
}

// NetworkByName returns the built-in network with the given name.
func NetworkByName(name string) (Network, error) {
	for _, n := range builtinNetworks {
		if n.Name == name {
			return n, nil
		}
	}
	return Network{}, Errorf(StageAddress, ErrUnsupportedNetwork, "unknown network %q", name)
}

// NetworkByHRP returns the built-in network using hrp for account addresses.
func NetworkByHRP(hrp string) (Network, bool) {
	for _, n := range builtinNetworks {
		if n.HRP == hrp {
			return n, true
		}
	}
	return Network{}, false
}

// CheckCoinType reports whether coinType is the one registered for hrp.
// Prefixes that are not built in accept any coin type.
func CheckCoinType(hrp string, coinType uint32) error {
	n, ok := NetworkByHRP(hrp)
	if !ok {
		return nil
	}
	if n.CoinType != coinType {
		return fmt.Errorf("coin type %d does not match %s (expects %d)", coinType, n.Name, n.CoinType)
	}
	return nil
}

// String returns the network name.
func (n Network) String() string {
	return n.Name
}
