package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/ratelimit"

	"github.com/Klingon-tech/cosmwallet/internal/log"
	"github.com/Klingon-tech/cosmwallet/pkg/types"
)

// ErrTxNotConfirmed is returned when WaitForTx runs out of attempts.
var ErrTxNotConfirmed = errors.New("transaction not confirmed")

// Default polling bounds for WaitForTx.
const (
	DefaultWaitInterval    = time.Second
	DefaultWaitMaxAttempts = 30
)

// WaitOptions bounds the confirmation poll.
type WaitOptions struct {
	Interval    time.Duration
	MaxAttempts int
}

func (o WaitOptions) withDefaults() WaitOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultWaitInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultWaitMaxAttempts
	}
	return o
}

// DeliverResult is the DeliverTx outcome of an included transaction.
type DeliverResult struct {
	Code      uint32 `json:"code"`
	Data      string `json:"data"`
	Log       string `json:"log"`
	Codespace string `json:"codespace"`
	GasWanted int64  `json:"gas_wanted,string"`
	GasUsed   int64  `json:"gas_used,string"`
}

// TxResult is the response of the tx method.
type TxResult struct {
	Hash     types.Hash    `json:"hash"`
	Height   int64         `json:"height,string"`
	Index    uint32        `json:"index"`
	TxResult DeliverResult `json:"tx_result"`
}

// TxFailedError reports a transaction included in a block whose execution failed.
type TxFailedError struct {
	Hash      types.Hash
	Height    int64
	Code      uint32
	Codespace string
	Log       string
}

func (e *TxFailedError) Error() string {
	return fmt.Sprintf("tx %s failed at height %d (%s code %d): %s",
		e.Hash, e.Height, e.Codespace, e.Code, e.Log)
}

// GetTx looks up an included transaction by hash. A transaction that is not
// (yet) indexed returns an *RPCError whose data mentions "not found".
func (c *Client) GetTx(ctx context.Context, hash types.Hash) (*TxResult, error) {
	params := map[string]interface{}{
		"hash":  hash.Bytes(),
		"prove": false,
	}
	var res TxResult
	if err := c.Call(ctx, "tx", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// WaitForTx polls the tx method until the transaction is included, the
// attempts are exhausted or ctx is done. Polls are spaced by opts.Interval.
func (c *Client) WaitForTx(ctx context.Context, hash types.Hash, opts WaitOptions) (*TxResult, error) {
	opts = opts.withDefaults()
	limiter := ratelimit.New(1, ratelimit.Per(opts.Interval), ratelimit.WithoutSlack)

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := take(ctx, limiter); err != nil {
			return nil, err
		}

		res, err := c.GetTx(ctx, hash)
		if err != nil {
			if isTxNotFound(err) {
				log.RPC.Debug().
					Str("hash", hash.String()).
					Int("attempt", attempt).
					Msg("Transaction pending")
				continue
			}
			return nil, fmt.Errorf("wait for tx %s: %w", hash, err)
		}

		if res.TxResult.Code != CodeOK {
			return res, &TxFailedError{
				Hash:      hash,
				Height:    res.Height,
				Code:      res.TxResult.Code,
				Codespace: res.TxResult.Codespace,
				Log:       res.TxResult.Log,
			}
		}

		log.RPC.Info().
			Str("hash", hash.String()).
			Int64("height", res.Height).
			Int64("gas_used", res.TxResult.GasUsed).
			Msg("Transaction confirmed")
		return res, nil
	}

	return nil, fmt.Errorf("%w: %s after %d attempts", ErrTxNotConfirmed, hash, opts.MaxAttempts)
}

// take blocks on the limiter but gives up when ctx is done.
func take(ctx context.Context, limiter ratelimit.Limiter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ready := make(chan struct{})
	go func() {
		limiter.Take()
		close(ready)
	}()
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isTxNotFound(err error) bool {
	var re *RPCError
	if !errors.As(err, &re) {
		return false
	}
	return strings.Contains(strings.ToLower(re.Data), "not found") ||
		strings.Contains(strings.ToLower(re.Message), "not found")
}
