package rpcclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/pkg/tx"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// Cosmos SDK codespace and the CheckTx codes callers react to.
const (
	CodespaceSDK = "sdk"

	CodeOK               uint32 = 0
	CodeSequenceMismatch uint32 = 32
)

// BroadcastResult is the CheckTx outcome of broadcast_tx_sync.
type BroadcastResult struct {
	Code      uint32     `json:"code"`
	Data      string     `json:"data"`
	Log       string     `json:"log"`
	Codespace string     `json:"codespace"`
	Hash      types.Hash `json:"hash"`
}

// BroadcastError reports a transaction rejected by CheckTx.
type BroadcastError struct {
	Code      uint32
	Codespace string
	Log       string
	Hash      types.Hash
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("broadcast rejected (%s code %d): %s", e.codespace(), e.Code, e.Log)
}

func (e *BroadcastError) codespace() string {
	if e.Codespace == "" {
		return CodespaceSDK
	}
	return e.Codespace
}

// IsSequenceMismatch reports whether err is a CheckTx rejection caused by a
// stale account sequence. The caller should refresh the account and sign again.
func IsSequenceMismatch(err error) bool {
	var be *BroadcastError
	if !errors.As(err, &be) {
		return false
	}
	return be.Code == CodeSequenceMismatch && be.codespace() == CodespaceSDK
}

// BroadcastTx submits a signed transaction with broadcast_tx_sync and waits
// for the CheckTx result only. Inclusion in a block is tracked by WaitForTx.
func (c *Client) BroadcastTx(ctx context.Context, signed tx.SignedTx) (*BroadcastResult, error) {
	if len(signed) == 0 {
		return nil, errors.New("broadcast: empty transaction")
	}

	params := map[string]string{"tx": signed.Base64()}

	var res BroadcastResult
	if err := c.Call(ctx, "broadcast_tx_sync", params, &res); err != nil {
		return nil, fmt.Errorf("broadcast: %w", err)
	}
	if res.Hash.IsZero() {
		res.Hash = signed.Hash()
	}

	if res.Code != CodeOK {
		log.RPC.Warn().
			Str("hash", res.Hash.String()).
			Str("codespace", res.Codespace).
			Uint32("code", res.Code).
			Str("log", res.Log).
			Msg("Transaction rejected")
		return &res, &BroadcastError{
			Code:      res.Code,
			Codespace: res.Codespace,
			Log:       res.Log,
			Hash:      res.Hash,
		}
	}

	log.RPC.Info().Str("hash", res.Hash.String()).Msg("Transaction accepted")
	return &res, nil
}
