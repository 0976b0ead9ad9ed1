package types

import (
	"fmt"
	"strconv"
)

// Coin is an amount of a single denomination. Amounts are integers in the
// chain's base unit and travel as decimal strings on the wire.
type Coin struct {
	Denom  string
	Amount uint64
}

// NewCoin returns a coin.
func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// AmountString returns the decimal wire form of the amount.
func (c Coin) AmountString() string {
	return strconv.FormatUint(c.Amount, 10)
}

// String returns e.g. "100basecro".
func (c Coin) String() string {
	return c.AmountString() + c.Denom
}

// ParseCoinAmount parses a decimal wire amount.
func ParseCoinAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid coin amount %q: %w", s, err)
	}
	return v, nil
}
