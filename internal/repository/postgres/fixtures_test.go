package postgres

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/testsupport"
)

// TestFixtures provides factory methods for creating test data inside one
// rolled back transaction
type TestFixtures struct {
	db DBTX
	t  *testing.T
}

// newTestStore opens a transaction, applies the schema inside it and returns fixtures.
// Everything is rolled back when the test ends.
func newTestStore(t *testing.T) *TestFixtures {
	t.Helper()

	pg := testsupport.NewTestPostgres(t)
	pg.ApplySchema(t, Schema)

	return &TestFixtures{db: pg.Tx(), t: t}
}

// DB returns the transaction every repository under test should use
func (f *TestFixtures) DB() DBTX {
	return f.db
}

// CreateAsset inserts a tracked asset, with a market data row unless untracked is set
func (f *TestFixtures) CreateAsset(opts ...func(*AssetFixture)) sentiment.Asset {
	f.t.Helper()

	suffix := rand.Intn(999999)
	fixture := &AssetFixture{
		Asset: sentiment.Asset{
			Symbol:  fmt.Sprintf("T%06d", suffix),
			Name:    fmt.Sprintf("Testcoin %d", suffix),
			Ranking: 1 + rand.Intn(5000),
		},
		Price: 100,
	}
	for _, opt := range opts {
		opt(fixture)
	}

	ctx := context.Background()
	repo := NewAssetRepository(f.db)
	require.NoError(f.t, repo.UpsertAssets(ctx, []sentiment.Asset{fixture.Asset}), "Failed to create test asset")

	if !fixture.Untracked {
		err := repo.InsertMarketData(ctx, []sentiment.MarketData{{
			Symbol:    fixture.Symbol,
			Timestamp: time.Now().UTC().Truncate(time.Second),
			PriceUSD:  fixture.Price,
		}})
		require.NoError(f.t, err, "Failed to create market data")
	}

	return fixture.Asset
}

// AssetFixture holds options for CreateAsset
type AssetFixture struct {
	sentiment.Asset
	Price     float64
	Untracked bool
}

// WithSymbol sets symbol and name
func WithSymbol(symbol, name string) func(*AssetFixture) {
	return func(f *AssetFixture) {
		f.Symbol = symbol
		f.Name = name
	}
}

// WithRanking sets the ranking
func WithRanking(ranking int) func(*AssetFixture) {
	return func(f *AssetFixture) {
		f.Ranking = ranking
	}
}

// Untracked skips the market data row
func Untracked() func(*AssetFixture) {
	return func(f *AssetFixture) {
		f.Untracked = true
	}
}
