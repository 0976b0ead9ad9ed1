package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption constants.
const (
	SaltSize = 32
	// Encrypted format: [salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
	headerSize = SaltSize + 4 + 4 + 1
)

// ErrWrongPassword is returned by Decrypt when authentication fails, which
// covers both a wrong password and a record bound to different metadata.
var ErrWrongPassword = errors.New("wrong password or corrupted data")

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns recommended Argon2id parameters.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// Validate rejects parameter sets Argon2id cannot run with.
func (p EncryptionParams) Validate() error {
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		return fmt.Errorf("argon2 params must be non-zero: %+v", p)
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("argon2 memory %d KiB below 8*parallelism", p.Memory)
	}
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// deriveKey uses Argon2id to derive a 32-byte encryption key from password and salt.
func deriveKey(password, salt []byte, params EncryptionParams) []byte {
	return argon2.IDKey(
		password,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// Encrypt encrypts data with password using Argon2id + XChaCha20-Poly1305.
// ad is authenticated but not encrypted; Decrypt must be given the same ad.
//
// Output format: salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
func Encrypt(data, password, ad []byte, params EncryptionParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Generate random salt.
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey(password, salt, params)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	// Generate random nonce.
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// The header is authenticated along with ad so tampered Argon2 params
	// fail the tag check instead of deriving a different key silently.
	header := make([]byte, 0, headerSize+len(nonce))
	header = append(header, salt...)
	header = binary.LittleEndian.AppendUint32(header, params.Memory)
	header = binary.LittleEndian.AppendUint32(header, params.Iterations)
	header = append(header, params.Parallelism)

	ciphertext := aead.Seal(nil, nonce, data, append(append([]byte{}, header...), ad...))

	out := make([]byte, 0, headerSize+len(nonce)+len(ciphertext))
	out = append(out, header...)
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt decrypts data encrypted by Encrypt with the given password and ad.
func Decrypt(encrypted, password, ad []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := headerSize + nonceSize + chacha20poly1305.Overhead
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("encrypted data too short: %d bytes, need at least %d", len(encrypted), minSize)
	}

	// Parse header.
	salt := encrypted[:SaltSize]
	memory := binary.LittleEndian.Uint32(encrypted[SaltSize:])
	iterations := binary.LittleEndian.Uint32(encrypted[SaltSize+4:])
	parallelism := encrypted[SaltSize+8]

	params := EncryptionParams{
		Memory:      memory,
		Iterations:  iterations,
		Parallelism: parallelism,
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("corrupted header: %w", err)
	}

	nonce := encrypted[headerSize : headerSize+nonceSize]
	ciphertext := encrypted[headerSize+nonceSize:]

	key := deriveKey(password, salt, params)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	aad := append(append([]byte{}, encrypted[:headerSize]...), ad...)
	plaintext, err := aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return plaintext, nil
}
