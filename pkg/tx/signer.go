package tx

import (
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/Klingon-tech/cosmwallet/pkg/crypto"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// SignedTx is an encoded TxRaw ready for broadcast.
type SignedTx []byte

// Hash returns the transaction hash used by Tendermint (SHA-256 of the raw bytes).
func (s SignedTx) Hash() types.Hash {
	return crypto.Sha256(s)
}

// Base64 returns the standard base64 encoding used by broadcast endpoints.
func (s SignedTx) Base64() string {
	return base64.StdEncoding.EncodeToString(s)
}

// Hex returns the upper-case hex encoding.
func (s SignedTx) Hex() string {
	return strings.ToUpper(hex.EncodeToString(s))
}

// Builder constructs a transaction incrementally.
type Builder struct {
	info Info
	msgs []Message
}

// NewBuilder creates a transaction builder for info.
func NewBuilder(info Info) *Builder {
	return &Builder{info: info}
}

// AddMessage appends a message.
func (b *Builder) AddMessage(m Message) *Builder {
	b.msgs = append(b.msgs, m)
	return b
}

// SetMemo sets the transaction memo.
func (b *Builder) SetMemo(memo string) *Builder {
	b.info.Memo = memo
	return b
}

// SetTimeoutHeight sets the block height after which the tx is invalid.
func (b *Builder) SetTimeoutHeight(h uint64) *Builder {
	b.info.TimeoutHeight = h
	return b
}

// encoded holds the serialized pieces shared by SignBytes and Sign.
type encoded struct {
	body     []byte
	authInfo []byte
	signDoc  []byte
}

func (b *Builder) encode(pubKey []byte) (*encoded, error) {
	if err := b.info.Validate(); err != nil {
		return nil, err
	}
	if len(b.msgs) == 0 {
		return nil, types.Errorf(types.StageMessage, types.ErrInvalidMessage, "no messages")
	}
	for _, m := range b.msgs {
		if m == nil {
			return nil, types.Errorf(types.StageMessage, types.ErrInvalidMessage, "nil message")
		}
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	if len(pubKey) != 33 {
		return nil, types.Errorf(types.StageSigning, types.ErrSerialization, "public key must be 33 bytes, got %d", len(pubKey))
	}

	signer, err := crypto.EncodeAddress(pubKey, b.info.Bech32HRP)
	if err != nil {
		return nil, types.Errorf(types.StageSigning, types.ErrSigning, "signer address: %v", err)
	}

	e := &encoded{
		body:     marshalBody(signer, b.msgs, b.info.Memo, b.info.TimeoutHeight),
		authInfo: marshalAuthInfo(pubKey, b.info.Sequence, b.info.Fee(), b.info.GasLimit),
	}
	e.signDoc = marshalSignDoc(e.body, e.authInfo, b.info.ChainID, b.info.AccountNumber)
	return e, nil
}

// SignBytes returns the SignDoc bytes that the holder of pubKey signs.
func (b *Builder) SignBytes(pubKey []byte) ([]byte, error) {
	e, err := b.encode(pubKey)
	if err != nil {
		return nil, err
	}
	return e.signDoc, nil
}

// Sign encodes and signs the transaction. Either a complete SignedTx or an
// error is returned, never both.
func (b *Builder) Sign(key crypto.Signer) (SignedTx, error) {
	if pk, ok := key.(*crypto.PrivateKey); key == nil || (ok && pk == nil) {
		return nil, types.Errorf(types.StageSigning, types.ErrSigning, "nil key")
	}
	e, err := b.encode(key.PublicKey())
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(e.signDoc)
	if err != nil {
		return nil, types.Errorf(types.StageSigning, types.ErrSigning, "%v", err)
	}
	if len(sig) != crypto.SignatureSize {
		return nil, types.Errorf(types.StageSigning, types.ErrSigning, "signature is %d bytes, want %d", len(sig), crypto.SignatureSize)
	}
	return SignedTx(marshalTxRaw(e.body, e.authInfo, sig)), nil
}

// Sign builds a single-message transaction and signs it with key.
func Sign(info Info, msg Message, key crypto.Signer) (SignedTx, error) {
	return NewBuilder(info).AddMessage(msg).Sign(key)
}

// SignBytes returns the SignDoc bytes for a single-message transaction.
func SignBytes(info Info, msg Message, pubKey []byte) ([]byte, error) {
	return NewBuilder(info).AddMessage(msg).SignBytes(pubKey)
}
