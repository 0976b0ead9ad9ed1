package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignatureSize is the length of a Cosmos secp256k1 signature (r || s).
const SignatureSize = 64

// Signer signs messages with a private key using ECDSA/secp256k1.
type Signer interface {
	// Sign produces a 64-byte r||s signature over SHA-256(msg).
	Sign(msg []byte) ([]byte, error)
	// PublicKey returns the compressed 33-byte public key.
	PublicKey() []byte
}

// PrivateKey wraps a secp256k1 private key for ECDSA signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("private key out of range")
	}
	return &PrivateKey{key: secp256k1.NewPrivateKey(&scalar)}, nil
}

// Sign hashes msg with SHA-256 and signs the digest. The nonce is derived
// per RFC 6979, so identical inputs always give identical signatures, and s
// is normalised to the lower half of the curve order.
func (pk *PrivateKey) Sign(msg []byte) ([]byte, error) {
	if pk == nil || pk.key == nil {
		return nil, fmt.Errorf("nil private key")
	}
	digest := sha256.Sum256(msg)
	// SignCompact prefixes a recovery byte; Cosmos wants bare r||s.
	compact := ecdsa.SignCompact(pk.key, digest[:], true)
	if len(compact) != SignatureSize+1 {
		return nil, fmt.Errorf("unexpected signature length %d", len(compact))
	}
	sig := make([]byte, SignatureSize)
	copy(sig, compact[1:])
	return sig, nil
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero securely zeroes the private key memory.
func (pk *PrivateKey) Zero() {
	pk.key.Zero()
}

// String never prints key material.
func (pk *PrivateKey) String() string {
	return "PrivateKey(redacted)"
}

// GoString keeps %#v from dumping the scalar.
func (pk *PrivateKey) GoString() string {
	return pk.String()
}

// VerifySignature checks a 64-byte r||s signature over SHA-256(msg) against a
// compressed public key. High-S signatures are rejected, matching the
// Cosmos SDK ante handler. Returns false on any error.
func VerifySignature(msg, signature, publicKey []byte) bool {
	if len(signature) != SignatureSize {
		return false
	}
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}
	digest := sha256.Sum256(msg)
	return ecdsa.NewSignature(&r, &s).Verify(digest[:], pubKey)
}
