package wallet

import (
	"errors"
	"sync"

	"github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/pkg/crypto"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// ErrWalletZeroed is returned by a wallet after Zero.
var ErrWalletZeroed = errors.New("wallet has been zeroed")

// Wallet holds a BIP-39 seed and caches the keys derived from it.
// It is safe for concurrent use.
type Wallet struct {
	seed []byte

	mu   sync.RWMutex
	keys map[string]*HDKey
}

// RecoverWallet rebuilds a wallet from its mnemonic and optional passphrase.
func RecoverWallet(mnemonic, passphrase string) (*Wallet, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return &Wallet{seed: seed, keys: make(map[string]*HDKey)}, nil
}

// NewWalletFromSeed wraps an existing 64-byte seed.
func NewWalletFromSeed(seed []byte) (*Wallet, error) {
	if len(seed) != SeedSize {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidMnemonic, "seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return &Wallet{seed: append([]byte{}, seed...), keys: make(map[string]*HDKey)}, nil
}

// DeriveKey returns the HD key at path, deriving and caching it on first use.
func (w *Wallet) DeriveKey(path DerivationPath) (*HDKey, error) {
	if len(path) == 0 {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "empty path")
	}
	id := path.String()

	w.mu.RLock()
	if w.seed == nil {
		w.mu.RUnlock()
		return nil, ErrWalletZeroed
	}
	k, ok := w.keys[id]
	if ok {
		w.mu.RUnlock()
		return k, nil
	}
	// Zero takes the write lock, so the seed stays intact while deriving.
	k, err := Derive(w.seed, path)
	w.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.seed == nil {
		w.mu.Unlock()
		return nil, ErrWalletZeroed
	}
	if cached, ok := w.keys[id]; ok {
		k = cached
	} else {
		w.keys[id] = k
	}
	w.mu.Unlock()

	log.Wallet.Debug().Str("path", id).Msg("Derived key")
	return k, nil
}

// GetKey parses path and returns the signing key at it.
func (w *Wallet) GetKey(path string) (*crypto.PrivateKey, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	k, err := w.DeriveKey(p)
	if err != nil {
		return nil, err
	}
	return k.Signer()
}

// GetAddress returns the bech32 address at m/44'/coin'/0'/0/index for network.
func (w *Wallet) GetAddress(network types.Network, index uint32) (string, error) {
	k, err := w.DeriveKey(Bip44Path(network.CoinType, 0, ChangeExternal, index))
	if err != nil {
		return "", err
	}
	return k.Bech32Address(network.HRP)
}

// GetDefaultAddress returns the first external address for network.
func (w *Wallet) GetDefaultAddress(network types.Network) (string, error) {
	return w.GetAddress(network, 0)
}

// Zero wipes the seed and drops all cached keys. The wallet is unusable
// afterwards.
func (w *Wallet) Zero() {
	w.mu.Lock()
	defer w.mu.Unlock()
	zero(w.seed)
	w.seed = nil
	w.keys = make(map[string]*HDKey)
}
