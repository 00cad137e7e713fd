package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", "", 2*time.Second, zap.NewNop())
}

func TestClient_PricesSingleBatchRequest(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum,ghost", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":51000.5},"ethereum":{"usd":0},"ghost":{"usd":null}}`))
	})

	prices, err := client.Prices(context.Background(), []string{"bitcoin", "ethereum", "ghost"}, "usd")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())

	require.Contains(t, prices, "bitcoin")
	assert.True(t, prices["bitcoin"].Equal(decimal.RequireFromString("51000.5")))
	require.Contains(t, prices, "ethereum", "zero is a real price")
	assert.True(t, prices["ethereum"].IsZero())
	assert.NotContains(t, prices, "ghost")
}

func TestClient_PricesEmptyInputSkipsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})

	prices, err := client.Prices(context.Background(), nil, "usd")
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrRateLimited},
		{name: "not found", status: http.StatusNotFound, want: domain.ErrCoinNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := client.Coin(context.Background(), "nope")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := client.SupportedCurrencies(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_Coin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/uniswap", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("tickers"))
		_, _ = w.Write([]byte(`{
			"id":"uniswap","symbol":"uni","name":"Uniswap",
			"platforms":{"ethereum":"0x1f98"},
			"market_data":{
				"current_price":{"usd":7.5},
				"market_cap":{"usd":4500000000},
				"total_volume":{"usd":120000000},
				"price_change_percentage_24h":-1.234,
				"price_change_percentage_7d":null
			}
		}`))
	})

	coin, err := client.Coin(context.Background(), "uniswap")
	require.NoError(t, err)
	assert.Equal(t, "Uniswap", coin.Name)
	assert.Equal(t, "0x1f98", coin.Platforms["ethereum"])
	require.NotNil(t, coin.PriceUSD)
	assert.True(t, coin.PriceUSD.Equal(decimal.RequireFromString("7.5")))
	require.NotNil(t, coin.PriceChangePercentage24h)
	assert.Nil(t, coin.PriceChangePercentage7d)
}

func TestClient_CoinsListAndCurrencies(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/list":
			_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin"}]`))
		case "/simple/supported_vs_currencies":
			_, _ = w.Write([]byte(`["usd","eur"]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	coins, err := client.CoinsList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.CoinRef{{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"}}, coins)

	currencies, err := client.SupportedCurrencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"usd", "eur"}, currencies)
}
