package tx

import (
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// Info describes everything in a transaction except its messages.
type Info struct {
	AccountNumber uint64
	Sequence      uint64
	GasLimit      uint64
	FeeAmount     uint64
	FeeDenom      string
	TimeoutHeight uint64
	Memo          string
	ChainID       string
	// Bech32HRP is the account prefix used to render the signer address.
	Bech32HRP string
	// CoinType must be the BIP-44 coin type registered for Bech32HRP.
	CoinType uint32
}

// MaxMemoLength is the default x/auth memo limit in bytes.
const MaxMemoLength = 256

// NewInfo fills the chain-dependent fields of Info from network.
func NewInfo(network types.Network, chainID string, accountNumber, sequence uint64) Info {
	return Info{
		AccountNumber: accountNumber,
		Sequence:      sequence,
		ChainID:       chainID,
		Bech32HRP:     network.HRP,
		CoinType:      network.CoinType,
	}
}

// Fee returns the fee coin.
func (i Info) Fee() types.Coin {
	return types.NewCoin(i.FeeDenom, i.FeeAmount)
}

// Validate checks the info is complete and self-consistent.
func (i Info) Validate() error {
	switch {
	case i.ChainID == "":
		return types.Errorf(types.StageSigning, types.ErrSigning, "empty chain id")
	case i.Bech32HRP == "":
		return types.Errorf(types.StageSigning, types.ErrSigning, "empty bech32 prefix")
	case i.FeeDenom == "":
		return types.Errorf(types.StageSigning, types.ErrSigning, "empty fee denom")
	case i.GasLimit == 0:
		return types.Errorf(types.StageSigning, types.ErrSigning, "gas limit must be positive")
	case len(i.Memo) > MaxMemoLength:
		return types.Errorf(types.StageSigning, types.ErrSigning, "memo longer than %d bytes", MaxMemoLength)
	}
	if err := types.CheckCoinType(i.Bech32HRP, i.CoinType); err != nil {
		return types.Errorf(types.StageSigning, types.ErrSigning, "%v", err)
	}
	return nil
}
