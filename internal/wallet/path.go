package wallet

import (
	"strconv"
	"strings"

	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// HardenedOffset is added to an index to request hardened derivation.
const HardenedOffset = bip32.FirstHardenedChild

// BIP-44 path fields.
// Full path: m/44'/coin_type'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = HardenedOffset + 44

	// ChangeExternal is for receiving addresses. Cosmos wallets never use
	// the internal chain but it stays addressable.
	ChangeExternal = 0

	// ChangeInternal is for change addresses.
	ChangeInternal = 1
)

// DerivationPath is a parsed BIP-32 path: the child indices below the master
// key, with hardened indices carrying HardenedOffset.
type DerivationPath []uint32

// ParsePath parses "m/44'/394'/0'/0/0". Hardened steps may be marked with
// ', h or H. The leading "m" and at least one index are required.
func ParsePath(s string) (DerivationPath, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "%q must start with m", s)
	}
	if len(parts) == 1 {
		return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "%q has no indices", s)
	}
	path := make(DerivationPath, 0, len(parts)-1)
	for i, p := range parts[1:] {
		hardened := false
		if n := len(p); n > 0 && (p[n-1] == '\'' || p[n-1] == 'h' || p[n-1] == 'H') {
			hardened = true
			p = p[:n-1]
		}
		if p == "" || p[0] == '+' || p[0] == '-' {
			return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "segment %d of %q is not a number", i+1, s)
		}
		idx, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "segment %d of %q: %v", i+1, s, err)
		}
		if idx >= uint64(HardenedOffset) {
			return nil, types.Errorf(types.StageDerivation, types.ErrInvalidPath, "segment %d of %q out of range", i+1, s)
		}
		if hardened {
			idx += uint64(HardenedOffset)
		}
		path = append(path, uint32(idx))
	}
	return path, nil
}

// MustParsePath is like ParsePath but panics on error. Intended for constants.
func MustParsePath(s string) DerivationPath {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Bip44Path returns m/44'/coinType'/account'/change/index.
func Bip44Path(coinType, account, change, index uint32) DerivationPath {
	return DerivationPath{
		PurposeBIP44,
		HardenedOffset + coinType,
		HardenedOffset + account,
		change,
		index,
	}
}

// CoinType returns the unhardened coin type of a BIP-44 path.
func (p DerivationPath) CoinType() (uint32, bool) {
	if len(p) < 2 || p[0] != PurposeBIP44 || p[1] < HardenedOffset {
		return 0, false
	}
	return p[1] - HardenedOffset, true
}

// String formats the path using ' for hardened steps.
func (p DerivationPath) String() string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, idx := range p {
		sb.WriteByte('/')
		if idx >= HardenedOffset {
			sb.WriteString(strconv.FormatUint(uint64(idx-HardenedOffset), 10))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(strconv.FormatUint(uint64(idx), 10))
		}
	}
	return sb.String()
}
