package tx

import (
	"github.com/Klingon-tech/cosmwallet/pkg/types"
	"google.golang.org/protobuf/encoding/protowire"
)

// Fixed protobuf type URLs and enum values of the auth envelope.
const (
	typeURLSecp256k1PubKey = "/cosmos.crypto.secp256k1.PubKey"
	signModeDirect         = 1
)

// The helpers below follow proto3 rules: zero scalars and empty strings are
// omitted, embedded messages are always written.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}

func appendUvarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// Coin{1: denom, 2: amount (decimal string)}
func marshalCoin(c types.Coin) []byte {
	var b []byte
	b = appendString(b, 1, c.Denom)
	b = appendString(b, 2, c.AmountString())
	return b
}

// Any{1: type_url, 2: value}
func marshalAny(typeURL string, value []byte) []byte {
	var b []byte
	b = appendString(b, 1, typeURL)
	b = appendBytes(b, 2, value)
	return b
}

// TxBody{1: repeated Any messages, 2: memo, 3: timeout_height}
func marshalBody(signer string, msgs []Message, memo string, timeoutHeight uint64) []byte {
	var b []byte
	for _, m := range msgs {
		b = appendMessage(b, 1, marshalAny(m.TypeURL(), m.marshal(signer)))
	}
	b = appendString(b, 2, memo)
	b = appendUvarint(b, 3, timeoutHeight)
	return b
}

// AuthInfo{1: repeated SignerInfo, 2: Fee}
//
//	SignerInfo{1: Any(PubKey{1: key}), 2: ModeInfo{1: Single{1: mode}}, 3: sequence}
//	Fee{1: repeated Coin amount, 2: gas_limit}
func marshalAuthInfo(pubKey []byte, sequence uint64, fee types.Coin, gasLimit uint64) []byte {
	var pk []byte
	pk = appendBytes(pk, 1, pubKey)

	var single []byte
	single = appendUvarint(single, 1, signModeDirect)
	var mode []byte
	mode = appendMessage(mode, 1, single)

	var si []byte
	si = appendMessage(si, 1, marshalAny(typeURLSecp256k1PubKey, pk))
	si = appendMessage(si, 2, mode)
	si = appendUvarint(si, 3, sequence)

	var feeb []byte
	feeb = appendMessage(feeb, 1, marshalCoin(fee))
	feeb = appendUvarint(feeb, 2, gasLimit)

	var b []byte
	b = appendMessage(b, 1, si)
	b = appendMessage(b, 2, feeb)
	return b
}

// SignDoc{1: body_bytes, 2: auth_info_bytes, 3: chain_id, 4: account_number}
func marshalSignDoc(body, authInfo []byte, chainID string, accountNumber uint64) []byte {
	var b []byte
	b = appendBytes(b, 1, body)
	b = appendBytes(b, 2, authInfo)
	b = appendString(b, 3, chainID)
	b = appendUvarint(b, 4, accountNumber)
	return b
}

// TxRaw{1: body_bytes, 2: auth_info_bytes, 3: repeated signatures}
func marshalTxRaw(body, authInfo []byte, signatures ...[]byte) []byte {
	var b []byte
	b = appendBytes(b, 1, body)
	b = appendBytes(b, 2, authInfo)
	for _, sig := range signatures {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, sig)
	}
	return b
}
