package rpcclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"

	klog "github.com/Klingon-tech/cosmwallet/internal/log"
)

const (
	community = "cro1qj4u2y23hx7plrztswrel2hgf8mh2m22k80fet"
	signer2   = "cro1apdh4yc2lnpephevc6lmpvkyv6s5cjh652n6e4"
	denom     = "basecro"
)

func newFakeAPI(t *testing.T, routes map[string]string, status map[string]int) *REST {
	t.Helper()
	klog.Init("error", false, "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotImplemented)
			_, _ = w.Write([]byte(`{"code":12,"message":"Not Implemented","details":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if code, ok := status[key]; ok {
			w.WriteHeader(code)
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewREST(srv.URL + "/")
}

func TestQueryAccount_Base(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/cosmos/auth/v1beta1/accounts/" + community: `{"account":{
			"@type":"/cosmos.auth.v1beta1.BaseAccount",
			"address":"` + community + `",
			"pub_key":null,
			"account_number":"2",
			"sequence":"0"}}`,
	}, nil)

	acct, err := api.QueryAccount(context.Background(), community)
	require.NoError(t, err)
	require.Equal(t, &Account{
		Type:          "/cosmos.auth.v1beta1.BaseAccount",
		Address:       community,
		AccountNumber: 2,
		Sequence:      0,
	}, acct)
}

func TestQueryAccount_PubKey(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/cosmos/auth/v1beta1/accounts/" + signer2: `{"account":{
			"@type":"/cosmos.auth.v1beta1.BaseAccount",
			"address":"` + signer2 + `",
			"pub_key":{"@type":"/cosmos.crypto.secp256k1.PubKey","key":"AiM0VI8D9p9M8e/DXU8iRw1SfeM0l0+U4BUdMmbjx26b"},
			"account_number":"11",
			"sequence":"7"}}`,
	}, nil)

	acct, err := api.QueryAccount(context.Background(), signer2)
	require.NoError(t, err)
	require.Len(t, acct.PubKey, 33)
	require.Equal(t, byte(0x02), acct.PubKey[0])
	require.Equal(t, uint64(11), acct.AccountNumber)
	require.Equal(t, uint64(7), acct.Sequence)
}

func TestQueryAccount_Vesting(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/cosmos/auth/v1beta1/accounts/" + signer2: `{"account":{
			"@type":"/cosmos.vesting.v1beta1.ContinuousVestingAccount",
			"base_vesting_account":{
				"base_account":{"address":"` + signer2 + `","pub_key":null,"account_number":"9","sequence":"4"},
				"original_vesting":[{"denom":"basecro","amount":"1000"}],
				"end_time":"1700000000"},
			"start_time":"1600000000"}}`,
	}, nil)

	acct, err := api.QueryAccount(context.Background(), signer2)
	require.NoError(t, err)
	require.Equal(t, "/cosmos.vesting.v1beta1.ContinuousVestingAccount", acct.Type)
	require.Equal(t, signer2, acct.Address)
	require.Equal(t, uint64(9), acct.AccountNumber)
	require.Equal(t, uint64(4), acct.Sequence)
}

func TestQueryAccount_Module(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/cosmos/auth/v1beta1/accounts/" + community: `{"account":{
			"@type":"/cosmos.auth.v1beta1.ModuleAccount",
			"base_account":{"address":"` + community + `","pub_key":null,"account_number":"3","sequence":"0"},
			"name":"distribution",
			"permissions":[]}}`,
	}, nil)

	acct, err := api.QueryAccount(context.Background(), community)
	require.NoError(t, err)
	require.Equal(t, uint64(3), acct.AccountNumber)
	require.Equal(t, community, acct.Address)
}

func TestQueryAccount_NotFound(t *testing.T) {
	notFound := `{"code":5,"message":"rpc error: code = NotFound desc = account ` + signer2 + ` not found: key not found","details":[]}`
	path := "/cosmos/auth/v1beta1/accounts/" + signer2

	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		api := newFakeAPI(t, map[string]string{path: notFound}, map[string]int{path: code})
		_, err := api.QueryAccount(context.Background(), signer2)
		require.ErrorIs(t, err, ErrAccountNotFound, "status %d", code)
	}
}

func TestQueryAccount_GatewayError(t *testing.T) {
	api := newFakeAPI(t, nil, nil)

	_, err := api.QueryAccount(context.Background(), signer2)
	var qe *QueryError
	require.ErrorAs(t, err, &qe)
	require.Equal(t, http.StatusNotImplemented, qe.StatusCode)
	require.Equal(t, 12, qe.Code)
	require.Equal(t, "Not Implemented", qe.Message)
}

func TestQueryBalance_Versions(t *testing.T) {
	body := `{"balance":{"denom":"basecro","amount":"1000000000000000000000"}}`
	api := newFakeAPI(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/" + community + "/basecro":                body,
		"/cosmos/bank/v1beta1/balances/" + community + "/by_denom?denom=basecro": body,
	}, nil)

	want := decimal.RequireFromString("1000000000000000000000")
	for _, version := range []int{BalanceAPIV0, BalanceAPIV1} {
		bal, err := api.QueryBalance(context.Background(), community, denom, version)
		require.NoError(t, err, "version %d", version)
		require.Equal(t, denom, bal.Denom)
		require.True(t, want.Equal(bal.Amount), "version %d: got %s", version, bal.Amount)
		require.Equal(t, "1000000000000000000000", bal.Amount.String())
	}
}

func TestQueryBalance_Empty(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/" + signer2 + "/by_denom?denom=basecro": `{"balance":{"denom":"basecro","amount":"0"}}`,
		"/cosmos/bank/v1beta1/balances/" + signer2 + "/basecro":                `{"balance":null}`,
	}, nil)

	for _, version := range []int{BalanceAPIV0, BalanceAPIV1} {
		bal, err := api.QueryBalance(context.Background(), signer2, denom, version)
		require.NoError(t, err)
		require.True(t, bal.Amount.IsZero())
		require.Equal(t, denom, bal.Denom)
	}
}

func TestQueryBalance_BadAmount(t *testing.T) {
	api := newFakeAPI(t, map[string]string{
		"/cosmos/bank/v1beta1/balances/" + signer2 + "/basecro": `{"balance":{"denom":"basecro","amount":"12x"}}`,
	}, nil)

	_, err := api.QueryBalance(context.Background(), signer2, denom, BalanceAPIV0)
	require.Error(t, err)
}

func TestQueryBalance_UnsupportedVersion(t *testing.T) {
	api := NewREST("http://127.0.0.1:1")
	_, err := api.QueryBalance(context.Background(), signer2, denom, 2)
	require.Error(t, err)
}

func TestREST_CircuitBreaker(t *testing.T) {
	klog.Init("error", false, "")

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"code":14,"message":"unavailable"}`))
	}))
	defer srv.Close()

	api := NewREST(srv.URL)
	for i := 0; i < 5; i++ {
		_, err := api.QueryAccount(context.Background(), signer2)
		var qe *QueryError
		require.ErrorAs(t, err, &qe)
		require.Equal(t, http.StatusServiceUnavailable, qe.StatusCode)
	}

	_, err := api.QueryAccount(context.Background(), signer2)
	require.True(t, errors.Is(err, gobreaker.ErrOpenState), "got %v", err)
	require.Equal(t, int32(5), hits.Load())
}

func TestREST_NotFoundDoesNotTrip(t *testing.T) {
	klog.Init("error", false, "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":5,"message":"not found"}`))
	}))
	defer srv.Close()

	api := NewREST(srv.URL)
	for i := 0; i < 10; i++ {
		_, err := api.QueryAccount(context.Background(), signer2)
		require.ErrorIs(t, err, ErrAccountNotFound)
	}
}
