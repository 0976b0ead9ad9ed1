package tx

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Klingon-tech/cosmwallet/pkg/crypto"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// Keys at m/44'/394'/0'/0/0 of the integration-suite mnemonics.
const (
	delegator1Mnemonic = "yard night airport critic main upper measure metal unhappy cliff pistol square upon access math owner enemy unfold scan small injury blind aunt million"

	delegator1KeyHex  = "5c5e0ed2c66375105298779961fbda06476c2f3b1d6aee27c16501100f212766"
	delegator1Address = "cro1ykec6vralvrh5vcvpf7w7u02gj728u4wp738kz"
	signer1KeyHex     = "61d1da56982fd06ac3fecb7ebff461c8ae8fa7701c4cc31351deacf4c8918141"
	signer1Address    = "cro1u08u5dvtnpmlpdq333uj9tcj75yceggszxpnsy"

	validator1 = "crocncl1pk9eajj4zuzpptnadwz6tzfgcpchqvpkvql0a9"
	validator2 = "crocncl1qqqsyqcyq5rqwzqfpg9scrgwpugpzysncq6205"
)

func testKey(t *testing.T, hexKey string) *crypto.PrivateKey {
	t.Helper()
	b, err := hex.DecodeString(hexKey)
	require.NoError(t, err)
	k, err := crypto.PrivateKeyFromBytes(b)
	require.NoError(t, err)
	return k
}

// goldenInfo is the account metadata used by the delegate golden file.
func goldenInfo() Info {
	info := NewInfo(types.CryptoOrgMainnet, "chainmain-1", 6, 1)
	info.GasLimit = 50000000
	info.FeeAmount = 25000000000
	info.FeeDenom = "basecro"
	return info
}
