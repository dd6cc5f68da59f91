package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "150", r.URL.Query().Get("per_page"))
		assert.Equal(t, "demo", r.Header.Get("x-cg-demo-api-key"))
		fmt.Fprint(w, `[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1,"current_price":65000.5,"market_cap":1.2e12,"total_volume":3e10,"last_updated":"2024-05-01T10:00:00.000Z"}]`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "demo", BaseURL: srv.URL})
	coins, err := c.Markets(context.Background(), 150)
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.InDelta(t, 65000.5, coins[0].CurrentPrice, 1e-9)
}

func TestSentimentVotes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/coins/bitcoin":
			assert.Equal(t, "false", r.URL.Query().Get("market_data"))
			fmt.Fprint(w, `{"id":"bitcoin","sentiment_votes_up_percentage":72.5,"sentiment_votes_down_percentage":27.5}`)
		case "/coins/newcoin":
			fmt.Fprint(w, `{"id":"newcoin","sentiment_votes_up_percentage":null}`)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	b, err := c.SentimentVotes(context.Background(), "bitcoin", "BTC", at)
	require.NoError(t, err)
	assert.Equal(t, "BTC", b.Symbol)
	assert.Equal(t, at, b.Timestamp)
	assert.InDelta(t, 72.5, b.UpPercentage, 1e-9)
	assert.InDelta(t, 27.5, b.DownPercentage, 1e-9)

	missing, err := c.SentimentVotes(context.Background(), "newcoin", "NEW", at)
	require.NoError(t, err)
	assert.Zero(t, missing.UpPercentage)
	assert.Zero(t, missing.DownPercentage)
}

func TestRankAssets_SkipsStablecoins(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	coins := []MarketCoin{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1},
		{ID: "tether", Symbol: "usdt", Name: "Tether", MarketCapRank: 2},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 3},
		{ID: "usd-coin", Symbol: "usdc", Name: "USDC", MarketCapRank: 4},
		{ID: "solana", Symbol: "sol", Name: "Solana", MarketCapRank: 5},
	}

	assets, market := RankAssets(coins, at)
	require.Len(t, assets, 3)
	require.Len(t, market, 3)

	assert.Equal(t, "BTC", assets[0].Symbol)
	assert.Equal(t, 1, assets[0].Ranking)
	assert.Equal(t, "ETH", assets[1].Symbol)
	assert.Equal(t, 2, assets[1].Ranking)
	assert.Equal(t, "SOL", assets[2].Symbol)
	assert.Equal(t, 3, assets[2].Ranking)
	assert.Equal(t, "solana", assets[2].CoingeckoID)

	assert.Equal(t, at, market[0].Timestamp, "missing last_updated falls back to observation time")
}
