package wallet

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/internal/storage"
)

// Keystore key layout, below the "ks/" prefix:
//
//	w/<name>                 walletRecord (JSON)
//	a/<name>/<index BE u32>  AccountEntry (JSON)
const (
	keystorePrefix   = "ks/"
	walletKeyPrefix  = "w/"
	accountKeyPrefix = "a/"

	keystoreVersion = 1
)

// Keystore errors.
var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
)

var walletNameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// walletRecord is the stored format for an encrypted wallet.
type walletRecord struct {
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	Network           string    `json:"network"`
	EncryptedMnemonic []byte    `json:"encrypted_mnemonic"`
	NextIndex         uint32    `json:"next_index"`
}

// AccountEntry stores metadata for a derived address.
type AccountEntry struct {
	Index   uint32 `json:"index"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Address string `json:"address"` // bech32
}

// WalletInfo is the non-secret metadata of a stored wallet.
type WalletInfo struct {
	Name      string
	Network   string
	CreatedAt time.Time
	NextIndex uint32
}

// Keystore manages encrypted mnemonics and their derived address book in a
// storage.DB.
type Keystore struct {
	db *storage.PrefixDB
}

// NewKeystore creates a keystore over db. Keys are written below "ks/".
func NewKeystore(db storage.DB) *Keystore {
	return &Keystore{db: storage.NewPrefixDB(db, []byte(keystorePrefix))}
}

func walletKey(name string) []byte {
	return []byte(walletKeyPrefix + name)
}

func accountPrefix(name string) []byte {
	return []byte(accountKeyPrefix + name + "/")
}

func accountKey(name string, index uint32) []byte {
	return binary.BigEndian.AppendUint32(accountPrefix(name), index)
}

// ValidateName reports whether name can be used as a wallet name.
func ValidateName(name string) error {
	if !walletNameRe.MatchString(name) {
		return fmt.Errorf("invalid wallet name %q: use 1-64 letters, digits, '.', '_' or '-'", name)
	}
	return nil
}

// Create encrypts mnemonic under password and stores it as wallet name.
// The wallet name is bound into the ciphertext as associated data.
func (ks *Keystore) Create(name, mnemonic, network string, password []byte, params EncryptionParams) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := checkMnemonic(mnemonic); err != nil {
		return err
	}
	exists, err := ks.db.Has(walletKey(name))
	if err != nil {
		return fmt.Errorf("check wallet: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}

	encrypted, err := Encrypt([]byte(NormalizeMnemonic(mnemonic)), password, walletKey(name), params)
	if err != nil {
		return fmt.Errorf("encrypt mnemonic: %w", err)
	}

	rec := walletRecord{
		Version:           keystoreVersion,
		CreatedAt:         time.Now().UTC(),
		Network:           network,
		EncryptedMnemonic: encrypted,
	}
	if err := ks.writeRecord(name, &rec); err != nil {
		return err
	}
	log.Keystore.Info().Str("wallet", name).Str("network", network).Msg("Wallet created")
	return nil
}

// Load decrypts a wallet and returns its mnemonic.
func (ks *Keystore) Load(name string, password []byte) (string, error) {
	rec, err := ks.readRecord(name)
	if err != nil {
		return "", err
	}
	plain, err := Decrypt(rec.EncryptedMnemonic, password, walletKey(name))
	if err != nil {
		log.Keystore.Warn().Str("wallet", name).Msg("Wallet unlock failed")
		return "", fmt.Errorf("decrypt wallet: %w", err)
	}
	defer zero(plain)
	return string(plain), nil
}

// Info returns the non-secret metadata of a wallet.
func (ks *Keystore) Info(name string) (*WalletInfo, error) {
	rec, err := ks.readRecord(name)
	if err != nil {
		return nil, err
	}
	return &WalletInfo{
		Name:      name,
		Network:   rec.Network,
		CreatedAt: rec.CreatedAt,
		NextIndex: rec.NextIndex,
	}, nil
}

// AddAccount records a derived address in the wallet's address book.
// Re-adding the same index with the same address is a no-op.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	rec, err := ks.readRecord(walletName)
	if err != nil {
		return err
	}

	key := accountKey(walletName, acct.Index)
	if data, err := ks.db.Get(key); err == nil {
		var existing AccountEntry
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("parse account: %w", err)
		}
		if existing.Address == acct.Address {
			return nil
		}
		return fmt.Errorf("account index %d already exists with address %s", acct.Index, existing.Address)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("read account: %w", err)
	}

	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	recData, err := ks.advanceIndex(rec, acct.Index)
	if err != nil {
		return err
	}

	batch := ks.db.NewBatch()
	if err := batch.Put(key, data); err != nil {
		return err
	}
	if recData != nil {
		if err := batch.Put(walletKey(walletName), recData); err != nil {
			return err
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("store account: %w", err)
	}
	return nil
}

// advanceIndex bumps NextIndex past index. It returns the re-encoded record,
// or nil when the record is unchanged.
func (ks *Keystore) advanceIndex(rec *walletRecord, index uint32) ([]byte, error) {
	if index < rec.NextIndex {
		return nil, nil
	}
	rec.NextIndex = index + 1
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal wallet: %w", err)
	}
	return data, nil
}

// ListAccounts returns the address book of a wallet ordered by index.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	if _, err := ks.readRecord(walletName); err != nil {
		return nil, err
	}
	accounts := []AccountEntry{}
	err := ks.db.ForEach(accountPrefix(walletName), func(_, value []byte) error {
		var a AccountEntry
		if err := json.Unmarshal(value, &a); err != nil {
			return fmt.Errorf("parse account: %w", err)
		}
		accounts = append(accounts, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Index < accounts[j].Index })
	return accounts, nil
}

// List returns the names of all wallets in the keystore, sorted.
func (ks *Keystore) List() ([]string, error) {
	var names []string
	err := ks.db.ForEach([]byte(walletKeyPrefix), func(key, _ []byte) error {
		names = append(names, string(key[len(walletKeyPrefix):]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a wallet and its address book in one batch.
func (ks *Keystore) Delete(name string) error {
	if _, err := ks.readRecord(name); err != nil {
		return err
	}
	batch := ks.db.NewBatch()
	err := ks.db.ForEach(accountPrefix(name), func(key, _ []byte) error {
		return batch.Delete(append([]byte{}, key...))
	})
	if err != nil {
		return fmt.Errorf("collect accounts: %w", err)
	}
	if err := batch.Delete(walletKey(name)); err != nil {
		return err
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	log.Keystore.Info().Str("wallet", name).Msg("Wallet deleted")
	return nil
}

func (ks *Keystore) writeRecord(name string, rec *walletRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := ks.db.Put(walletKey(name), data); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readRecord(name string) (*walletRecord, error) {
	data, err := ks.db.Get(walletKey(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var rec walletRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if rec.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", rec.Version)
	}
	return &rec, nil
}
