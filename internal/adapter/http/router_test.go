package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/iho/txreplay/internal/adapter/http"
	"github.com/iho/txreplay/internal/adapter/http/dto"
	"github.com/iho/txreplay/internal/adapter/http/handler"
	"github.com/iho/txreplay/internal/domain"
	"github.com/iho/txreplay/internal/engine"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	e := engine.New(engine.Config{Logger: zerolog.Nop()})
	records := []domain.Record{
		{Kind: domain.KindDeposit, Client: 1, Tx: 1, Amount: decimal.RequireFromString("10")},
		{Kind: domain.KindDeposit, Client: 2, Tx: 2, Amount: decimal.RequireFromString("5")},
		{Kind: domain.KindWithdrawal, Client: 1, Tx: 3, Amount: decimal.RequireFromString("100")}, // rejected
		{Kind: domain.KindDispute, Client: 2, Tx: 2},
		{Kind: domain.KindChargeback, Client: 2, Tx: 2},
	}
	for _, rec := range records {
		_ = e.Apply(rec)
	}

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		AccountHandler: handler.NewAccountHandler(e),
		StatsHandler:   handler.NewStatsHandler(e),
		HealthHandler:  handler.NewHealthHandler(),
		Logger:         zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestRouterHealth(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/health", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/ready", nil))
}

func TestRouterListAccounts(t *testing.T) {
	srv := newTestServer(t)

	var list dto.ListAccountsResponse
	status := getJSON(t, srv.URL+"/api/v1/accounts", &list)

	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(2), list.Total)

	// Sorted by client ascending.
	assert.Equal(t, uint16(1), list.Accounts[0].Client)
	assert.Equal(t, uint16(2), list.Accounts[1].Client)

	assert.True(t, list.Accounts[0].Available.Equal(decimal.NewFromInt(10)))
	assert.False(t, list.Accounts[0].Locked)

	assert.True(t, list.Accounts[1].Total.IsZero())
	assert.True(t, list.Accounts[1].Locked)
}

func TestRouterGetAccount(t *testing.T) {
	srv := newTestServer(t)

	var acc dto.AccountResponse
	status := getJSON(t, srv.URL+"/api/v1/accounts/2", &acc)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint16(2), acc.Client)
	assert.True(t, acc.Locked)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/v1/accounts/42", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/accounts/notanumber", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/v1/accounts/70000", nil))
}

func TestRouterStats(t *testing.T) {
	srv := newTestServer(t)

	var stats dto.StatsResponse
	status := getJSON(t, srv.URL+"/api/v1/stats", &stats)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(5), stats.Processed)
	assert.Equal(t, uint64(4), stats.Applied)
	assert.Equal(t, uint64(1), stats.Rejected)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
