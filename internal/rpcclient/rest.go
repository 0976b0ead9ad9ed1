package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/Klingon-tech/cosmwallet/internal/log"
)

// ErrAccountNotFound is returned for addresses the chain has never seen.
var ErrAccountNotFound = errors.New("account not found")

// gRPC status code the gateway reports for missing state.
const grpcCodeNotFound = 5

// Balance query layouts. Version 0 is the path-parameter form of older SDK
// releases; version 1 is the by_denom form introduced with SDK 0.47.
const (
	BalanceAPIV0 = 0
	BalanceAPIV1 = 1
)

// QueryError is a non-success response from the REST gateway.
type QueryError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *QueryError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("query failed: http %d", e.StatusCode)
	}
	return fmt.Sprintf("query failed: http %d (code %d): %s", e.StatusCode, e.Code, e.Message)
}

// Account is the on-chain metadata a signer needs.
type Account struct {
	Type          string
	Address       string
	PubKey        []byte
	AccountNumber uint64
	Sequence      uint64
}

// Balance is the amount of a single denomination held by an address.
type Balance struct {
	Denom  string
	Amount decimal.Decimal
}

// REST queries the Cosmos SDK gRPC gateway.
type REST struct {
	endpoint string
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
}

// NewREST creates a gateway client for the given API base URL.
func NewREST(endpoint string) *REST {
	return NewRESTWithTimeout(endpoint, DefaultTimeout)
}

// NewRESTWithTimeout creates a gateway client with a custom HTTP timeout.
func NewRESTWithTimeout(endpoint string, timeout time.Duration) *REST {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &REST{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
		cb:       newCircuitBreaker(endpoint),
	}
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.RPC.Warn().Str("api", name).Msg("API seems down, stop allowing requests")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.RPC.Info().Str("api", name).Msg("Checking API status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.RPC.Info().Str("api", name).Msg("API seems ok, restart allowing requests")
			}
		},
	})
}

type rawResponse struct {
	status int
	body   []byte
}

// get fetches path and returns the raw response. Only transport failures and
// 5xx responses count against the circuit breaker.
func (r *REST) get(ctx context.Context, path string) (*rawResponse, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := r.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		raw := &rawResponse{status: resp.StatusCode, body: body}
		if resp.StatusCode >= http.StatusInternalServerError && !isNotFoundBody(body) {
			return raw, queryError(raw)
		}
		return raw, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return res.(*rawResponse), nil
}

type gatewayError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func queryError(raw *rawResponse) *QueryError {
	qe := &QueryError{StatusCode: raw.status}
	var ge gatewayError
	if json.Unmarshal(raw.body, &ge) == nil {
		qe.Code = ge.Code
		qe.Message = ge.Message
	}
	return qe
}

// isNotFoundBody covers gateways that answer missing accounts with 500 and a
// gRPC NotFound status in the body.
func isNotFoundBody(body []byte) bool {
	var ge gatewayError
	return json.Unmarshal(body, &ge) == nil && ge.Code == grpcCodeNotFound
}

type pubKeyJSON struct {
	Type string `json:"@type"`
	Key  []byte `json:"key"`
}

type baseAccountJSON struct {
	Address       string      `json:"address"`
	PubKey        *pubKeyJSON `json:"pub_key"`
	AccountNumber uint64      `json:"account_number,string"`
	Sequence      uint64      `json:"sequence,string"`
}

// accountJSON covers BaseAccount, ModuleAccount and the vesting accounts,
// which nest the base account one or two levels down.
type accountJSON struct {
	Type string `json:"@type"`
	baseAccountJSON
	BaseAccount        *baseAccountJSON `json:"base_account"`
	BaseVestingAccount *struct {
		BaseAccount *baseAccountJSON `json:"base_account"`
	} `json:"base_vesting_account"`
}

func (a *accountJSON) base() *baseAccountJSON {
	switch {
	case a.BaseVestingAccount != nil && a.BaseVestingAccount.BaseAccount != nil:
		return a.BaseVestingAccount.BaseAccount
	case a.BaseAccount != nil:
		return a.BaseAccount
	default:
		return &a.baseAccountJSON
	}
}

// QueryAccount fetches the account number and sequence of addr.
func (r *REST) QueryAccount(ctx context.Context, addr string) (*Account, error) {
	raw, err := r.get(ctx, "/cosmos/auth/v1beta1/accounts/"+url.PathEscape(addr))
	if err != nil {
		return nil, err
	}
	if raw.status == http.StatusNotFound || isNotFoundBody(raw.body) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}
	if raw.status != http.StatusOK {
		return nil, queryError(raw)
	}

	var resp struct {
		Account *accountJSON `json:"account"`
	}
	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	if resp.Account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, addr)
	}

	base := resp.Account.base()
	acct := &Account{
		Type:          resp.Account.Type,
		Address:       base.Address,
		AccountNumber: base.AccountNumber,
		Sequence:      base.Sequence,
	}
	if base.PubKey != nil {
		acct.PubKey = base.PubKey.Key
	}

	log.RPC.Debug().
		Str("address", acct.Address).
		Uint64("account_number", acct.AccountNumber).
		Uint64("sequence", acct.Sequence).
		Msg("Account queried")
	return acct, nil
}

// QueryBalance fetches the balance of denom held by addr. version selects
// the gateway path layout (BalanceAPIV0 or BalanceAPIV1).
func (r *REST) QueryBalance(ctx context.Context, addr, denom string, version int) (*Balance, error) {
	var path string
	switch version {
	case BalanceAPIV0:
		path = fmt.Sprintf("/cosmos/bank/v1beta1/balances/%s/%s", url.PathEscape(addr), url.PathEscape(denom))
	case BalanceAPIV1:
		path = fmt.Sprintf("/cosmos/bank/v1beta1/balances/%s/by_denom?denom=%s", url.PathEscape(addr), url.QueryEscape(denom))
	default:
		return nil, fmt.Errorf("unsupported balance api version %d", version)
	}

	raw, err := r.get(ctx, path)
	if err != nil {
		return nil, err
	}
	if raw.status != http.StatusOK {
		return nil, queryError(raw)
	}

	var resp struct {
		Balance *struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"balance"`
	}
	if err := json.Unmarshal(raw.body, &resp); err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}

	// A missing balance entry means the address holds none of denom.
	if resp.Balance == nil {
		return &Balance{Denom: denom, Amount: decimal.Zero}, nil
	}
	amount := decimal.Zero
	if resp.Balance.Amount != "" {
		amount, err = decimal.NewFromString(resp.Balance.Amount)
		if err != nil {
			return nil, fmt.Errorf("decode balance amount %q: %w", resp.Balance.Amount, err)
		}
	}
	bal := &Balance{Denom: resp.Balance.Denom, Amount: amount}
	if bal.Denom == "" {
		bal.Denom = denom
	}
	return bal, nil
}
