package types

import (
	"errors"
	"testing"
)

func TestNetworkByName(t *testing.T) {
	n, err := NetworkByName("crypto-org-mainnet")
	if err != nil {
		t.Fatalf("NetworkByName: %v", err)
	}
	if n.HRP != "cro" || n.CoinType != 394 {
		t.Errorf("got %+v", n)
	}

	_, err = NetworkByName("nope")
	if !errors.Is(err, ErrUnsupportedNetwork) {
		t.Errorf("expected ErrUnsupportedNetwork, got %v", err)
	}
}

func TestCheckCoinType(t *testing.T) {
	tests := []struct {
		name     string
		hrp      string
		coinType uint32
		wantErr  bool
	}{
		{"cro matches", "cro", 394, false},
		{"tcro matches", "tcro", 1, false},
		{"cosmos matches", "cosmos", 118, false},
		{"cro with bitcoin coin type", "cro", 0, true},
		{"cro with testnet coin type", "cro", 1, true},
		{"unknown prefix accepts anything", "osmo", 118, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckCoinType(tt.hrp, tt.coinType)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckCoinType(%q, %d) = %v, wantErr %v", tt.hrp, tt.coinType, err, tt.wantErr)
			}
		})
	}
}

func TestNewNetwork(t *testing.T) {
	n, err := NewNetwork("osmosis", "osmosis-1", "osmo", "", 118)
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	if n.ValidatorHRP != "osmovaloper" {
		t.Errorf("ValidatorHRP = %q", n.ValidatorHRP)
	}
	if _, err := NewNetwork("bad", "", "", "", 1); !errors.Is(err, ErrUnsupportedNetwork) {
		t.Errorf("expected ErrUnsupportedNetwork, got %v", err)
	}
}

func TestStageError(t *testing.T) {
	err := Errorf(StageSigning, ErrSigning, "chain id %q", "")
	if !errors.Is(err, ErrSigning) {
		t.Error("StageError should unwrap to sentinel")
	}
	stage, ok := StageOf(err)
	if !ok || stage != StageSigning {
		t.Errorf("StageOf = %q, %v", stage, ok)
	}
	if IsUserInputError(err) {
		t.Error("signing errors are not user input errors")
	}
	if !IsUserInputError(Errorf(StageDerivation, ErrInvalidMnemonic, "checksum")) {
		t.Error("mnemonic errors are user input errors")
	}
	if _, ok := StageOf(errors.New("plain")); ok {
		t.Error("plain error should have no stage")
	}
}
