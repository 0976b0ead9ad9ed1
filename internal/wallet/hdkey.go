package wallet

import (
	"github.com/Klingon-tech/cosmwallet/pkg/crypto"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "create master key: %v", err)
	}
	return &HDKey{key: master}, nil
}

// Derive walks path from the master key of seed.
func Derive(seed []byte, path DerivationPath) (*HDKey, error) {
	if len(path) == 0 {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "empty path")
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	return master.DerivePath(path)
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add HardenedOffset to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "derive child %d: %v", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(path DerivationPath) (*HDKey, error) {
	current := k
	for _, idx := range path {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		raw = raw[1:]
	}
	// Scalars with leading zero bytes may come back short.
	out := make([]byte, 32)
	copy(out[32-len(raw):], raw)
	return out
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	if !k.key.IsPrivate {
		return k.key.Key
	}
	return k.key.PublicKey().Key
}

// Signer returns the secp256k1 signing key held by this HD key.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "cannot create signer from public key")
	}
	return crypto.PrivateKeyFromBytes(priv)
}

// Address returns RIPEMD160(SHA256(compressed_pubkey)).
func (k *HDKey) Address() types.Address {
	return crypto.AddressFromPubKey(k.PublicKeyBytes())
}

// Bech32Address renders Address under hrp.
func (k *HDKey) Bech32Address(hrp string) (string, error) {
	return k.Address().Bech32(hrp)
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Neuter returns a public-key-only copy (for watch-only wallets).
func (k *HDKey) Neuter() *HDKey {
	return &HDKey{key: k.key.PublicKey()}
}

// String never includes key material.
func (k *HDKey) String() string {
	return "HDKey(redacted)"
}
