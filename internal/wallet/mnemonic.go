// Package wallet implements the HD wallet: BIP-39 mnemonics, BIP-32/44 key
// derivation for Cosmos SDK accounts and the encrypted mnemonic keystore.
package wallet

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"github.com/tyler-smith/go-bip39"
)

// Valid mnemonic lengths and their entropy sizes in bits.
var mnemonicEntropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// DefaultMnemonicWords is the length used by wallet create.
const DefaultMnemonicWords = 24

// GenerateMnemonic creates a new BIP-39 mnemonic with the given word count.
func GenerateMnemonic(words int) (string, error) {
	bits, ok := mnemonicEntropyBits[words]
	if !ok {
		return "", fmt.Errorf("unsupported word count %d (want 12, 15, 18, 21 or 24)", words)
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic collapses runs of whitespace and lowercases the words.
func NormalizeMnemonic(mnemonic string) string {
	return strings.ToLower(strings.Join(strings.Fields(mnemonic), " "))
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// checkMnemonic returns a derivation-stage error describing why mnemonic is
// invalid. The phrase itself never appears in the message.
func checkMnemonic(mnemonic string) error {
	words := strings.Fields(mnemonic)
	if _, ok := mnemonicEntropyBits[len(words)]; !ok {
		return types.Errorf(types.StageDerivation, types.ErrInvalidMnemonic, "%d words", len(words))
	}
	for i, w := range words {
		if _, ok := bip39.GetWordIndex(strings.ToLower(w)); !ok {
			return types.Errorf(types.StageDerivation, types.ErrInvalidMnemonic, "word %d is not in the wordlist", i+1)
		}
	}
	if !ValidateMnemonic(mnemonic) {
		return types.Errorf(types.StageDerivation, types.ErrInvalidMnemonic, "checksum mismatch")
	}
	return nil
}
