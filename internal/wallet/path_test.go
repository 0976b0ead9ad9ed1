package wallet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

func TestParsePath(t *testing.T) {
	h := HardenedOffset
	tests := []struct {
		in   string
		want DerivationPath
		str  string
	}{
		{"m/44'/394'/0'/0/0", DerivationPath{h + 44, h + 394, h, 0, 0}, "m/44'/394'/0'/0/0"},
		{"m/44h/118h/2H/1/9", DerivationPath{h + 44, h + 118, h + 2, 1, 9}, "m/44'/118'/2'/1/9"},
		{"m/0", DerivationPath{0}, "m/0"},
		{"m/2147483647'", DerivationPath{h + 2147483647}, "m/2147483647'"},
		{" m/1/2 ", DerivationPath{1, 2}, "m/1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if err != nil {
				t.Fatalf("ParsePath() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath() = %v, want %v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("String() = %q, want %q", got.String(), tt.str)
			}
		})
	}
}

func TestParsePath_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"m",
		"m/",
		"44'/394'/0'/0/0",
		"M/44'/0'",
		"m/44'//0",
		"m/abc",
		"m/-1",
		"m/+1",
		"m/2147483648",
		"m/4294967296'",
		"m/1''",
	} {
		_, err := ParsePath(in)
		if !errors.Is(err, types.ErrInvalidPath) {
			t.Errorf("ParsePath(%q) error = %v, want ErrInvalidPath", in, err)
			continue
		}
		if stage, _ := types.StageOf(err); stage != types.StageDerivation {
			t.Errorf("ParsePath(%q) stage = %q", in, stage)
		}
	}
}

func TestBip44Path(t *testing.T) {
	p := Bip44Path(394, 2, ChangeExternal, 5)
	if p.String() != "m/44'/394'/2'/0/5" {
		t.Errorf("Bip44Path() = %s", p)
	}
	coin, ok := p.CoinType()
	if !ok || coin != 394 {
		t.Errorf("CoinType() = %d, %v; want 394, true", coin, ok)
	}
	if _, ok := MustParsePath("m/0/1").CoinType(); ok {
		t.Error("CoinType() on non-BIP-44 path should report false")
	}
}

func TestMustParsePath_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParsePath should panic on invalid input")
		}
	}()
	MustParsePath("bogus")
}
