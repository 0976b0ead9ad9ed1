// Package crypto provides the hashing and secp256k1 signing primitives used
// for Cosmos SDK accounts.
package crypto

import (
	"crypto/sha256"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // Cosmos addresses are defined over RIPEMD-160.
)

// Sha256 computes the SHA-256 digest of data.
func Sha256(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// Hash160 computes RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	inner := sha256.Sum256(data)
	h := ripemd160.New()
	h.Write(inner[:])
	return h.Sum(nil)
}

// AddressFromPubKey derives an account address from a compressed public key.
// Address = RIPEMD160(SHA256(compressed_pubkey)).
func AddressFromPubKey(pubKey []byte) types.Address {
	var addr types.Address
	copy(addr[:], Hash160(pubKey))
	return addr
}

// EncodeAddress derives the bech32 address of pubKey under hrp.
func EncodeAddress(pubKey []byte, hrp string) (string, error) {
	return AddressFromPubKey(pubKey).Bech32(hrp)
}
