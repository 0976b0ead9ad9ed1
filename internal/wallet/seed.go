package wallet

import (
	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"github.com/tyler-smith/go-bip39"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// SeedFromMnemonic derives a 512-bit seed from a mnemonic and optional passphrase
// using PBKDF2-SHA512 as specified in BIP-39.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if err := checkMnemonic(mnemonic); err != nil {
		return nil, err
	}
	seed, err := bip39.NewSeedWithErrorChecking(NormalizeMnemonic(mnemonic), passphrase)
	if err != nil {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidMnemonic, "derive seed: %v", err)
	}
	return seed, nil
}
