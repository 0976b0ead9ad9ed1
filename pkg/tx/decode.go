package tx

import (
	"github.com/Klingon-tech/cosmwallet/pkg/crypto"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"google.golang.org/protobuf/encoding/protowire"
)

// DecodedTx is a parsed TxRaw.
type DecodedTx struct {
	Messages      []Message
	Signer        string
	Memo          string
	TimeoutHeight uint64

	PubKey   []byte
	Sequence uint64
	Fee      []types.Coin
	GasLimit uint64

	Signatures [][]byte

	BodyBytes     []byte
	AuthInfoBytes []byte
}

// field is one decoded protobuf field. Varints land in num, length-delimited
// values in buf.
type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	buf []byte
}

func serErr(format string, args ...interface{}) error {
	return types.Errorf(types.StageSigning, types.ErrSerialization, format, args...)
}

// parseFields splits b into its top-level fields. Only varint and
// length-delimited wire types are accepted; nothing in a Cosmos tx uses others.
func parseFields(b []byte) ([]field, error) {
	var out []field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, serErr("bad tag: %v", protowire.ParseError(n))
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, serErr("field %d: %v", num, protowire.ParseError(n))
			}
			f.v = v
			b = b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, serErr("field %d: %v", num, protowire.ParseError(n))
			}
			f.buf = v
			b = b[n:]
		default:
			return nil, serErr("field %d: unsupported wire type %d", num, typ)
		}
		out = append(out, f)
	}
	return out, nil
}

func (f field) wantBytes() error {
	if f.typ != protowire.BytesType {
		return serErr("field %d: want length-delimited, got wire type %d", f.num, f.typ)
	}
	return nil
}

func (f field) wantVarint() error {
	if f.typ != protowire.VarintType {
		return serErr("field %d: want varint, got wire type %d", f.num, f.typ)
	}
	return nil
}

// Decode parses an encoded TxRaw produced by Sign (or any SIGN_MODE_DIRECT
// transaction carrying the supported message types).
func Decode(raw []byte) (*DecodedTx, error) {
	fields, err := parseFields(raw)
	if err != nil {
		return nil, err
	}
	d := &DecodedTx{}
	for _, f := range fields {
		if err := f.wantBytes(); err != nil {
			return nil, err
		}
		switch f.num {
		case 1:
			d.BodyBytes = f.buf
		case 2:
			d.AuthInfoBytes = f.buf
		case 3:
			d.Signatures = append(d.Signatures, f.buf)
		}
	}
	if d.BodyBytes == nil || d.AuthInfoBytes == nil {
		return nil, serErr("tx is missing body or auth info")
	}
	if err := d.decodeBody(d.BodyBytes); err != nil {
		return nil, err
	}
	if err := d.decodeAuthInfo(d.AuthInfoBytes); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DecodedTx) decodeBody(b []byte) error {
	fields, err := parseFields(b)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			if err := f.wantBytes(); err != nil {
				return err
			}
			typeURL, value, err := decodeAny(f.buf)
			if err != nil {
				return err
			}
			msg, signer, err := decodeMessage(typeURL, value)
			if err != nil {
				return err
			}
			if d.Signer == "" {
				d.Signer = signer
			} else if signer != d.Signer {
				return serErr("messages have different signers")
			}
			d.Messages = append(d.Messages, msg)
		case 2:
			if err := f.wantBytes(); err != nil {
				return err
			}
			d.Memo = string(f.buf)
		case 3:
			if err := f.wantVarint(); err != nil {
				return err
			}
			d.TimeoutHeight = f.v
		}
	}
	if len(d.Messages) == 0 {
		return serErr("tx body has no messages")
	}
	return nil
}

func (d *DecodedTx) decodeAuthInfo(b []byte) error {
	fields, err := parseFields(b)
	if err != nil {
		return err
	}
	signers := 0
	for _, f := range fields {
		if err := f.wantBytes(); err != nil {
			return err
		}
		switch f.num {
		case 1:
			signers++
			if signers > 1 {
				return serErr("multi-signer transactions are not supported")
			}
			if err := d.decodeSignerInfo(f.buf); err != nil {
				return err
			}
		case 2:
			if err := d.decodeFee(f.buf); err != nil {
				return err
			}
		}
	}
	if signers == 0 {
		return serErr("auth info has no signer")
	}
	return nil
}

func (d *DecodedTx) decodeSignerInfo(b []byte) error {
	fields, err := parseFields(b)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			if err := f.wantBytes(); err != nil {
				return err
			}
			typeURL, value, err := decodeAny(f.buf)
			if err != nil {
				return err
			}
			if typeURL != typeURLSecp256k1PubKey {
				return serErr("unsupported public key type %q", typeURL)
			}
			pk, err := parseFields(value)
			if err != nil {
				return err
			}
			for _, pf := range pk {
				if pf.num == 1 && pf.typ == protowire.BytesType {
					d.PubKey = pf.buf
				}
			}
		case 2:
			if err := f.wantBytes(); err != nil {
				return err
			}
			mode, err := decodeSignMode(f.buf)
			if err != nil {
				return err
			}
			if mode != signModeDirect {
				return serErr("unsupported sign mode %d", mode)
			}
		case 3:
			if err := f.wantVarint(); err != nil {
				return err
			}
			d.Sequence = f.v
		}
	}
	if len(d.PubKey) != 33 {
		return serErr("signer public key is %d bytes, want 33", len(d.PubKey))
	}
	return nil
}

// decodeSignMode reads ModeInfo{1: Single{1: mode}}.
func decodeSignMode(b []byte) (uint64, error) {
	fields, err := parseFields(b)
	if err != nil {
		return 0, err
	}
	for _, f := range fields {
		if f.num != 1 {
			continue
		}
		if err := f.wantBytes(); err != nil {
			return 0, err
		}
		single, err := parseFields(f.buf)
		if err != nil {
			return 0, err
		}
		var mode uint64
		for _, sf := range single {
			if sf.num == 1 && sf.typ == protowire.VarintType {
				mode = sf.v
			}
		}
		return mode, nil
	}
	return 0, serErr("mode info is not single-signer")
}

func (d *DecodedTx) decodeFee(b []byte) error {
	fields, err := parseFields(b)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case 1:
			if err := f.wantBytes(); err != nil {
				return err
			}
			c, err := decodeCoin(f.buf)
			if err != nil {
				return err
			}
			d.Fee = append(d.Fee, c)
		case 2:
			if err := f.wantVarint(); err != nil {
				return err
			}
			d.GasLimit = f.v
		}
	}
	return nil
}

func decodeAny(b []byte) (string, []byte, error) {
	fields, err := parseFields(b)
	if err != nil {
		return "", nil, err
	}
	var typeURL string
	var value []byte
	for _, f := range fields {
		if err := f.wantBytes(); err != nil {
			return "", nil, err
		}
		switch f.num {
		case 1:
			typeURL = string(f.buf)
		case 2:
			value = f.buf
		}
	}
	return typeURL, value, nil
}

func decodeCoin(b []byte) (types.Coin, error) {
	fields, err := parseFields(b)
	if err != nil {
		return types.Coin{}, err
	}
	var c types.Coin
	amount := "0"
	for _, f := range fields {
		if err := f.wantBytes(); err != nil {
			return types.Coin{}, err
		}
		switch f.num {
		case 1:
			c.Denom = string(f.buf)
		case 2:
			amount = string(f.buf)
		}
	}
	v, err := types.ParseCoinAmount(amount)
	if err != nil {
		return types.Coin{}, serErr("%v", err)
	}
	c.Amount = v
	return c, nil
}

// decodeMessage returns the message and its signer address.
func decodeMessage(typeURL string, b []byte) (Message, string, error) {
	switch typeURL {
	case TypeURLMsgSend, TypeURLMsgDelegate, TypeURLMsgUndelegate, TypeURLMsgBeginRedelegate:
	default:
		return nil, "", serErr("unsupported message type %q", typeURL)
	}
	fields, err := parseFields(b)
	if err != nil {
		return nil, "", err
	}
	var strs [4]string
	var coins []types.Coin
	coinField := protowire.Number(3)
	if typeURL == TypeURLMsgBeginRedelegate {
		coinField = 4
	}
	for _, f := range fields {
		if err := f.wantBytes(); err != nil {
			return nil, "", err
		}
		switch {
		case f.num == coinField:
			c, err := decodeCoin(f.buf)
			if err != nil {
				return nil, "", err
			}
			coins = append(coins, c)
		case f.num >= 1 && f.num <= 3:
			strs[f.num] = string(f.buf)
		}
	}
	if len(coins) != 1 {
		return nil, "", serErr("%s carries %d coins, want 1", typeURL, len(coins))
	}

	var msg Message
	switch typeURL {
	case TypeURLMsgSend:
		msg = BankSend{To: strs[2], Amount: coins[0]}
	case TypeURLMsgDelegate:
		msg = Delegate{Validator: strs[2], Amount: coins[0]}
	case TypeURLMsgUndelegate:
		msg = Undelegate{Validator: strs[2], Amount: coins[0]}
	case TypeURLMsgBeginRedelegate:
		msg = BeginRedelegate{SrcValidator: strs[2], DstValidator: strs[3], Amount: coins[0]}
	}
	return msg, strs[1], nil
}

// SignDoc rebuilds the bytes the signer committed to.
func (d *DecodedTx) SignDoc(chainID string, accountNumber uint64) []byte {
	return marshalSignDoc(d.BodyBytes, d.AuthInfoBytes, chainID, accountNumber)
}

// VerifySignature checks the single signature against the embedded public
// key and the SignDoc for chainID and accountNumber. It also checks the
// signer address recorded in the messages belongs to that key.
func (d *DecodedTx) VerifySignature(chainID string, accountNumber uint64) error {
	if len(d.Signatures) != 1 {
		return types.Errorf(types.StageSigning, types.ErrSigning, "tx has %d signatures, want 1", len(d.Signatures))
	}
	_, addr, err := types.ParseBech32(d.Signer)
	if err != nil {
		return types.Errorf(types.StageSigning, types.ErrSigning, "signer address: %v", err)
	}
	if addr != crypto.AddressFromPubKey(d.PubKey) {
		return types.Errorf(types.StageSigning, types.ErrSigning, "signer %s does not match public key", d.Signer)
	}
	if !crypto.VerifySignature(d.SignDoc(chainID, accountNumber), d.Signatures[0], d.PubKey) {
		return types.Errorf(types.StageSigning, types.ErrSigning, "signature does not verify")
	}
	return nil
}
