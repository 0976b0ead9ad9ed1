// Package tx builds, signs and decodes Cosmos SDK transactions using
// SIGN_MODE_DIRECT.
package tx

import (
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// Message type URLs.
const (
	TypeURLMsgSend            = "/cosmos.bank.v1beta1.MsgSend"
	TypeURLMsgDelegate        = "/cosmos.staking.v1beta1.MsgDelegate"
	TypeURLMsgUndelegate      = "/cosmos.staking.v1beta1.MsgUndelegate"
	TypeURLMsgBeginRedelegate = "/cosmos.staking.v1beta1.MsgBeginRedelegate"
)

// Message is one of BankSend, Delegate, Undelegate or BeginRedelegate.
// The signer's address is not part of the message; it is filled in from
// the signing key when the transaction is built.
type Message interface {
	// TypeURL is the protobuf Any type URL of the message.
	TypeURL() string
	// Validate checks identifiers are non-empty and the amount is positive.
	Validate() error

	marshal(signer string) []byte
}

// BankSend transfers coins from the signer to another account.
type BankSend struct {
	To     string
	Amount types.Coin
}

// Delegate bonds coins from the signer to a validator.
type Delegate struct {
	Validator string
	Amount    types.Coin
}

// Undelegate starts unbonding coins delegated to a validator.
type Undelegate struct {
	Validator string
	Amount    types.Coin
}

// BeginRedelegate moves a delegation between validators.
type BeginRedelegate struct {
	SrcValidator string
	DstValidator string
	Amount       types.Coin
}

// NewBankSend builds a bank send of amount denom to the given address.
func NewBankSend(to string, amount uint64, denom string) (BankSend, error) {
	m := BankSend{To: to, Amount: types.NewCoin(denom, amount)}
	if err := m.Validate(); err != nil {
		return BankSend{}, err
	}
	return m, nil
}

// NewDelegate builds a delegation of amount denom to validator.
func NewDelegate(validator string, amount uint64, denom string) (Delegate, error) {
	m := Delegate{Validator: validator, Amount: types.NewCoin(denom, amount)}
	if err := m.Validate(); err != nil {
		return Delegate{}, err
	}
	return m, nil
}

// NewUndelegate builds an undelegation of amount denom from validator.
func NewUndelegate(validator string, amount uint64, denom string) (Undelegate, error) {
	m := Undelegate{Validator: validator, Amount: types.NewCoin(denom, amount)}
	if err := m.Validate(); err != nil {
		return Undelegate{}, err
	}
	return m, nil
}

// NewBeginRedelegate builds a redelegation of amount denom from src to dst.
func NewBeginRedelegate(src, dst string, amount uint64, denom string) (BeginRedelegate, error) {
	m := BeginRedelegate{SrcValidator: src, DstValidator: dst, Amount: types.NewCoin(denom, amount)}
	if err := m.Validate(); err != nil {
		return BeginRedelegate{}, err
	}
	return m, nil
}

func (BankSend) TypeURL() string        { return TypeURLMsgSend }
func (Delegate) TypeURL() string        { return TypeURLMsgDelegate }
func (Undelegate) TypeURL() string      { return TypeURLMsgUndelegate }
func (BeginRedelegate) TypeURL() string { return TypeURLMsgBeginRedelegate }

func (m BankSend) Validate() error {
	if m.To == "" {
		return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "send: empty recipient")
	}
	return validateCoin("send", m.Amount)
}

func (m Delegate) Validate() error {
	if m.Validator == "" {
		return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "delegate: empty validator")
	}
	return validateCoin("delegate", m.Amount)
}

func (m Undelegate) Validate() error {
	if m.Validator == "" {
		return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "undelegate: empty validator")
	}
	return validateCoin("undelegate", m.Amount)
}

func (m BeginRedelegate) Validate() error {
	if m.SrcValidator == "" || m.DstValidator == "" {
		return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "redelegate: empty validator")
	}
	return validateCoin("redelegate", m.Amount)
}

func validateCoin(kind string, c types.Coin) error {
	if c.Denom == "" {
		return types.Errorf(types.StageMessage, types.ErrInvalidMessage, "%s: empty denom", kind)
	}
	if c.Amount == 0 {
		return types.Errorf(types.StageMessage, types.ErrInvalidAmount, "%s: amount must be positive", kind)
	}
	return nil
}

// MsgSend{1: from_address, 2: to_address, 3: repeated Coin}
func (m BankSend) marshal(signer string) []byte {
	var b []byte
	b = appendString(b, 1, signer)
	b = appendString(b, 2, m.To)
	b = appendMessage(b, 3, marshalCoin(m.Amount))
	return b
}

// MsgDelegate{1: delegator_address, 2: validator_address, 3: Coin}
func (m Delegate) marshal(signer string) []byte {
	return marshalDelegation(signer, m.Validator, m.Amount)
}

// MsgUndelegate shares the MsgDelegate layout.
func (m Undelegate) marshal(signer string) []byte {
	return marshalDelegation(signer, m.Validator, m.Amount)
}

// MsgBeginRedelegate{1: delegator_address, 2: validator_src_address,
// 3: validator_dst_address, 4: Coin}
func (m BeginRedelegate) marshal(signer string) []byte {
	var b []byte
	b = appendString(b, 1, signer)
	b = appendString(b, 2, m.SrcValidator)
	b = appendString(b, 3, m.DstValidator)
	b = appendMessage(b, 4, marshalCoin(m.Amount))
	return b
}

func marshalDelegation(delegator, validator string, amount types.Coin) []byte {
	var b []byte
	b = appendString(b, 1, delegator)
	b = appendString(b, 2, validator)
	b = appendMessage(b, 3, marshalCoin(amount))
	return b
}
