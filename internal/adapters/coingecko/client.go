// Package coingecko fetches rankings, market data and community sentiment
// votes from the Coingecko API.
package coingecko

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cryptopulse/internal/adapters/httpsource"
	"cryptopulse/internal/domain/sentiment"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// stablecoins are excluded from the ranking; they carry no sentiment signal
var stablecoins = map[string]struct{}{
	"usdt": {}, "usdc": {}, "dai": {}, "busd": {}, "tusd": {}, "usdp": {}, "fdusd": {},
	"usde": {}, "usds": {}, "pyusd": {}, "usdd": {}, "gusd": {}, "frax": {}, "lusd": {},
}

// IsStablecoin reports whether a Coingecko symbol is a known stablecoin
func IsStablecoin(symbol string) bool {
	_, ok := stablecoins[strings.ToLower(symbol)]
	return ok
}

// Config contains the API key and limits
type Config struct {
	APIKey            string
	RequestsPerMinute int
	MaxRetries        int
	Timeout           time.Duration
	BaseURL           string
}

// MarketCoin is one row of /coins/markets
type MarketCoin struct {
	ID            string    `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	MarketCapRank int       `json:"market_cap_rank"`
	CurrentPrice  float64   `json:"current_price"`
	MarketCap     float64   `json:"market_cap"`
	TotalVolume   float64   `json:"total_volume"`
	LastUpdated   time.Time `json:"last_updated"`
}

// Client talks to the Coingecko API
type Client struct {
	api    *httpsource.Client
	header http.Header
}

// NewClient creates a new Coingecko client. The demo key is optional.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("x-cg-demo-api-key", cfg.APIKey)
	}

	return &Client{
		api: httpsource.New(httpsource.Config{
			Name:              "coingecko",
			BaseURL:           cfg.BaseURL,
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			MaxRetries:        cfg.MaxRetries,
		}),
		header: header,
	}
}

// Markets returns the top coins by market cap in USD
func (c *Client) Markets(ctx context.Context, perPage int) ([]MarketCoin, error) {
	if perPage <= 0 || perPage > 250 {
		perPage = 250
	}

	params := url.Values{
		"vs_currency": {"usd"},
		"order":       {"market_cap_desc"},
		"per_page":    {strconv.Itoa(perPage)},
		"page":        {"1"},
	}

	var coins []MarketCoin
	if err := c.api.GetJSON(ctx, "/coins/markets", params, c.header, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

type coinResponse struct {
	ID                           string   `json:"id"`
	Symbol                       string   `json:"symbol"`
	SentimentVotesUpPercentage   *float64 `json:"sentiment_votes_up_percentage"`
	SentimentVotesDownPercentage *float64 `json:"sentiment_votes_down_percentage"`
}

// SentimentVotes returns the community up/down vote split for a coin as a
// baseline for symbol. Missing percentages are reported as 0, which the
// aggregation treats as absent.
func (c *Client) SentimentVotes(ctx context.Context, coingeckoID, symbol string, at time.Time) (sentiment.Baseline, error) {
	params := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
	}

	var resp coinResponse
	if err := c.api.GetJSON(ctx, "/coins/"+url.PathEscape(coingeckoID), params, c.header, &resp); err != nil {
		return sentiment.Baseline{}, err
	}

	baseline := sentiment.Baseline{Symbol: symbol, Timestamp: at}
	if resp.SentimentVotesUpPercentage != nil {
		baseline.UpPercentage = *resp.SentimentVotesUpPercentage
	}
	if resp.SentimentVotesDownPercentage != nil {
		baseline.DownPercentage = *resp.SentimentVotesDownPercentage
	}
	return baseline, nil
}

// RankAssets converts market rows to assets and market data, skipping
// stablecoins and closing the ranking gaps they leave.
func RankAssets(coins []MarketCoin, observedAt time.Time) ([]sentiment.Asset, []sentiment.MarketData) {
	assets := make([]sentiment.Asset, 0, len(coins))
	market := make([]sentiment.MarketData, 0, len(coins))

	skipped := 0
	for _, coin := range coins {
		if IsStablecoin(coin.Symbol) {
			skipped++
			continue
		}
		if coin.Symbol == "" || coin.MarketCapRank <= 0 {
			continue
		}

		symbol := strings.ToUpper(coin.Symbol)
		assets = append(assets, sentiment.Asset{
			Symbol:      symbol,
			Name:        coin.Name,
			Ranking:     coin.MarketCapRank - skipped,
			CoingeckoID: coin.ID,
		})

		ts := coin.LastUpdated
		if ts.IsZero() {
			ts = observedAt
		}
		market = append(market, sentiment.MarketData{
			Symbol:    symbol,
			Timestamp: ts.UTC(),
			PriceUSD:  coin.CurrentPrice,
			MarketCap: coin.MarketCap,
			Volume24h: coin.TotalVolume,
		})
	}

	return assets, market
}
