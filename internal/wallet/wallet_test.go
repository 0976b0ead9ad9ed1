package wallet

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

func TestRecoverWallet_DefaultAddress(t *testing.T) {
	tests := []struct {
		mnemonic string
		want     string
	}{
		{signer1Mnemonic, signer1Address},
		{delegator1Mnemonic, delegator1Address},
		{delegator2Mnemonic, delegator2Address},
	}
	for _, tt := range tests {
		w, err := RecoverWallet(tt.mnemonic, "")
		if err != nil {
			t.Fatalf("RecoverWallet() error: %v", err)
		}
		got, err := w.GetDefaultAddress(types.CryptoOrgMainnet)
		if err != nil {
			t.Fatalf("GetDefaultAddress() error: %v", err)
		}
		if got != tt.want {
			t.Errorf("GetDefaultAddress() = %s, want %s", got, tt.want)
		}
	}
}

func TestWallet_GetAddress(t *testing.T) {
	w, err := RecoverWallet(signer1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	got, err := w.GetAddress(types.CryptoOrgMainnet, 1)
	if err != nil {
		t.Fatalf("GetAddress() error: %v", err)
	}
	if got != signer1Index1Addr {
		t.Errorf("GetAddress(1) = %s, want %s", got, signer1Index1Addr)
	}
}

func TestWallet_CosmosHubUsesOwnCoinType(t *testing.T) {
	w, err := RecoverWallet(signer1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	hub, err := w.GetDefaultAddress(types.CosmosHub)
	if err != nil {
		t.Fatalf("GetDefaultAddress() error: %v", err)
	}
	_, hubAddr, err := types.ParseBech32(hub)
	if err != nil {
		t.Fatalf("ParseBech32() error: %v", err)
	}
	_, croAddr, err := types.ParseBech32(signer1Address)
	if err != nil {
		t.Fatalf("ParseBech32() error: %v", err)
	}
	if hubAddr == croAddr {
		t.Error("coin type 118 should derive a different key than coin type 394")
	}
}

func TestWallet_GetKey(t *testing.T) {
	w, err := RecoverWallet(delegator1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	k1, err := w.GetKey(defaultCroPath)
	if err != nil {
		t.Fatalf("GetKey() error: %v", err)
	}
	k2, err := w.GetKey("m/44h/394h/0h/0/0")
	if err != nil {
		t.Fatalf("GetKey() error: %v", err)
	}
	if !bytes.Equal(k1.Serialize(), k2.Serialize()) {
		t.Error("equivalent path spellings should give the same key")
	}
	if len(w.keys) != 1 {
		t.Errorf("cache size = %d, want 1", len(w.keys))
	}
}

func TestWallet_GetKeyInvalidPath(t *testing.T) {
	w, err := RecoverWallet(delegator1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	_, err = w.GetKey("m/44'/394'/x")
	if !errors.Is(err, types.ErrInvalidPath) {
		t.Errorf("GetKey() error = %v, want ErrInvalidPath", err)
	}
	if !types.IsUserInputError(err) {
		t.Error("invalid path should be a user input error")
	}
}

func TestWallet_EmptyHRP(t *testing.T) {
	w, err := RecoverWallet(delegator1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	_, err = w.GetDefaultAddress(types.Network{CoinType: 394})
	if !errors.Is(err, types.ErrUnsupportedNetwork) {
		t.Errorf("GetDefaultAddress() error = %v, want ErrUnsupportedNetwork", err)
	}
}

func TestRecoverWallet_Invalid(t *testing.T) {
	_, err := RecoverWallet("yard night airport", "")
	if !errors.Is(err, types.ErrInvalidMnemonic) {
		t.Errorf("RecoverWallet() error = %v, want ErrInvalidMnemonic", err)
	}
}

func TestWallet_ConcurrentGetKey(t *testing.T) {
	w, err := RecoverWallet(signer1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}

	var wg sync.WaitGroup
	addrs := make([]string, 16)
	for i := range addrs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := w.GetAddress(types.CryptoOrgMainnet, uint32(i%2))
			if err != nil {
				t.Errorf("GetAddress() error: %v", err)
				return
			}
			addrs[i] = a
		}(i)
	}
	wg.Wait()

	for i, a := range addrs {
		want := signer1Address
		if i%2 == 1 {
			want = signer1Index1Addr
		}
		if a != want {
			t.Errorf("addrs[%d] = %s, want %s", i, a, want)
		}
	}
}

func TestNewWalletFromSeed(t *testing.T) {
	seed := mnemonicSeed(t, signer1Mnemonic)
	w, err := NewWalletFromSeed(seed)
	if err != nil {
		t.Fatalf("NewWalletFromSeed() error: %v", err)
	}
	got, err := w.GetDefaultAddress(types.CryptoOrgMainnet)
	if err != nil {
		t.Fatalf("GetDefaultAddress() error: %v", err)
	}
	if got != signer1Address {
		t.Errorf("GetDefaultAddress() = %s, want %s", got, signer1Address)
	}

	if _, err := NewWalletFromSeed(seed[:32]); err == nil {
		t.Error("short seed should be rejected")
	}
}

func TestWallet_Zero(t *testing.T) {
	w, err := RecoverWallet(signer1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	if _, err := w.GetDefaultAddress(types.CryptoOrgMainnet); err != nil {
		t.Fatalf("GetDefaultAddress() error: %v", err)
	}
	w.Zero()
	if _, err := w.GetDefaultAddress(types.CryptoOrgMainnet); !errors.Is(err, ErrWalletZeroed) {
		t.Errorf("GetDefaultAddress() after Zero: got %v, want ErrWalletZeroed", err)
	}
	if _, err := w.GetKey(defaultCroPath); !errors.Is(err, ErrWalletZeroed) {
		t.Errorf("GetKey() after Zero returned cached key: %v", err)
	}
}

// Run with -race: Zero must not interleave with an in-flight derivation.
func TestWallet_ZeroWhileDeriving(t *testing.T) {
	w, err := RecoverWallet(signer1Mnemonic, "")
	if err != nil {
		t.Fatalf("RecoverWallet() error: %v", err)
	}
	want, err := w.GetAddress(types.CryptoOrgMainnet, 5)
	if err != nil {
		t.Fatalf("GetAddress() error: %v", err)
	}
	// Drop the cache so index 5 is derived again below.
	w.mu.Lock()
	w.keys = make(map[string]*HDKey)
	w.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := uint32(0); i < 50; i++ {
			k, err := w.DeriveKey(Bip44Path(types.CryptoOrgMainnet.CoinType, 0, ChangeExternal, i%10))
			if errors.Is(err, ErrWalletZeroed) {
				return
			}
			if err != nil {
				t.Errorf("DeriveKey() error: %v", err)
				return
			}
			if i%10 == 5 {
				got, _ := k.Bech32Address(types.CryptoOrgMainnet.HRP)
				if got != want {
					t.Errorf("derived %s from a partially wiped seed, want %s", got, want)
				}
			}
		}
	}()
	go func() {
		defer wg.Done()
		w.Zero()
	}()
	wg.Wait()

	if _, err := w.GetKey(defaultCroPath); !errors.Is(err, ErrWalletZeroed) {
		t.Errorf("GetKey() after Zero: got %v, want ErrWalletZeroed", err)
	}
}
