package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// Address is a 160-bit account address: RIPEMD160(SHA256(compressed_pubkey)).
// It has no textual form until paired with a network HRP.
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex returns the raw hex-encoded address.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// Bech32 encodes the address under the given human-readable prefix
// (e.g. "cro1..."). An empty hrp fails with ErrUnsupportedNetwork.
func (a Address) Bech32(hrp string) (string, error) {
	return Bech32(hrp, a[:])
}

// Bech32 encodes arbitrary bytes under hrp.
func Bech32(hrp string, data []byte) (string, error) {
	if hrp == "" {
		return "", Errorf(StageAddress, ErrUnsupportedNetwork, "empty bech32 prefix")
	}
	if strings.ToLower(hrp) != hrp {
		return "", Errorf(StageAddress, ErrUnsupportedNetwork, "bech32 prefix %q must be lowercase", hrp)
	}
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", Errorf(StageAddress, ErrSerialization, "convert bits: %v", err)
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", Errorf(StageAddress, ErrSerialization, "bech32 encode: %v", err)
	}
	return s, nil
}

// ParseBech32 decodes a bech32 account address into its prefix and bytes.
func ParseBech32(s string) (string, Address, error) {
	if s == "" {
		return "", Address{}, fmt.Errorf("empty address")
	}
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", Address{}, fmt.Errorf("invalid bech32 address: %w", err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", Address{}, fmt.Errorf("invalid bech32 payload: %w", err)
	}
	if len(raw) != AddressSize {
		return "", Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(raw))
	}
	var a Address
	copy(a[:], raw)
	return hrp, a, nil
}

// ValidateBech32 checks that s is a well-formed address with the given prefix.
func ValidateBech32(s, hrp string) error {
	got, _, err := ParseBech32(s)
	if err != nil {
		return err
	}
	if got != hrp {
		return fmt.Errorf("address %s has prefix %q, want %q", s, got, hrp)
	}
	return nil
}

// HexToAddress converts a raw hex string to an Address.
func HexToAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}
