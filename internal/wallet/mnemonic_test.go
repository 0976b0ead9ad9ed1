package wallet

import (
	"errors"
	"strings"
	"testing"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

func TestGenerateMnemonic(t *testing.T) {
	for _, n := range []int{12, 15, 18, 21, 24} {
		mnemonic, err := GenerateMnemonic(n)
		if err != nil {
			t.Fatalf("GenerateMnemonic(%d) error: %v", n, err)
		}
		if words := strings.Fields(mnemonic); len(words) != n {
			t.Errorf("word count = %d, want %d", len(words), n)
		}
		if !ValidateMnemonic(mnemonic) {
			t.Errorf("generated %d-word mnemonic should validate", n)
		}
	}
}

func TestGenerateMnemonic_BadLength(t *testing.T) {
	for _, n := range []int{0, 11, 13, 25} {
		if _, err := GenerateMnemonic(n); err == nil {
			t.Errorf("GenerateMnemonic(%d) should fail", n)
		}
	}
}

func TestGenerateMnemonic_Unique(t *testing.T) {
	m1, err := GenerateMnemonic(DefaultMnemonicWords)
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	m2, err := GenerateMnemonic(DefaultMnemonicWords)
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}

	if m1 == m2 {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{
			name:     "valid 24-word BIP-39",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art",
			valid:    true,
		},
		{
			name:     "valid 12-word BIP-39",
			mnemonic: abandonMnemonic,
			valid:    true,
		},
		{
			name:     "extra whitespace",
			mnemonic: "  abandon abandon\tabandon abandon abandon abandon abandon abandon abandon abandon abandon\n about ",
			valid:    true,
		},
		{
			name:     "upper case",
			mnemonic: strings.ToUpper(abandonMnemonic),
			valid:    true,
		},
		{
			name:     "empty string",
			mnemonic: "",
			valid:    false,
		},
		{
			name:     "random words",
			mnemonic: "not a valid mnemonic phrase at all",
			valid:    false,
		},
		{
			name:     "wrong checksum",
			mnemonic: "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
			valid:    false,
		},
		{
			name:     "single word",
			mnemonic: "abandon",
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestCheckMnemonic_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		detail   string
	}{
		{"word count", "abandon abandon abandon", "3 words"},
		{"unknown word", strings.Replace(abandonMnemonic, "about", "zzzz", 1), "word 12"},
		{"checksum", strings.Repeat("abandon ", 12), "checksum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkMnemonic(tt.mnemonic)
			if !errors.Is(err, types.ErrInvalidMnemonic) {
				t.Fatalf("error = %v, want ErrInvalidMnemonic", err)
			}
			if stage, _ := types.StageOf(err); stage != types.StageDerivation {
				t.Errorf("stage = %q, want %q", stage, types.StageDerivation)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q does not mention %q", err, tt.detail)
			}
			if !types.IsUserInputError(err) {
				t.Error("invalid mnemonic should be a user input error")
			}
		})
	}
}

func TestCheckMnemonic_DoesNotLeakPhrase(t *testing.T) {
	bad := strings.Replace(signer1Mnemonic, "shed", "shedx", 1)
	err := checkMnemonic(bad)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "crumble") {
		t.Errorf("error leaks mnemonic words: %q", err)
	}
}
