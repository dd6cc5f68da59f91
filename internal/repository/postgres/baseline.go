package postgres

import (
	"context"
	"slices"

	"cryptopulse/internal/domain/sentiment"
)

// Compile-time check
var _ sentiment.BaselineRepository = (*BaselineRepository)(nil)

// BaselineRepository implements sentiment.BaselineRepository over the
// Coingecko vote snapshots
type BaselineRepository struct {
	db DBTX
}

// NewBaselineRepository creates a new baseline repository
func NewBaselineRepository(db DBTX) *BaselineRepository {
	return &BaselineRepository{db: db}
}

// InsertBaselines stores one snapshot per (symbol, timestamp); a repeat replaces it
func (r *BaselineRepository) InsertBaselines(ctx context.Context, baselines []sentiment.Baseline) error {
	type key struct {
		symbol string
		ts     int64
	}
	baselines = lastByKey(baselines, func(b sentiment.Baseline) key {
		return key{b.Symbol, b.Timestamp.UnixNano()}
	})
	for batch := range slices.Chunk(baselines, batchSize) {
		b := psql.Insert("crypto_coingecko_sentiment_data").
			Columns("symbol", "timestamp", "sentiment_up_percentage", "sentiment_down_percentage")
		for _, bl := range batch {
			b = b.Values(bl.Symbol, bl.Timestamp.UTC(), bl.UpPercentage, bl.DownPercentage)
		}
		b = b.Suffix(`ON CONFLICT (symbol, timestamp) DO UPDATE SET
			sentiment_up_percentage = EXCLUDED.sentiment_up_percentage,
			sentiment_down_percentage = EXCLUDED.sentiment_down_percentage`)

		if _, err := exec(ctx, r.db, "insert_baselines", b); err != nil {
			return err
		}
	}
	return nil
}

// GetLatestBaselines returns the newest snapshot for each of the top limit
// ranked assets with market data. Missing percentages come back as 0.
func (r *BaselineRepository) GetLatestBaselines(ctx context.Context, limit int) ([]sentiment.Baseline, error) {
	q := psql.Select(
		"b.symbol",
		"b.timestamp",
		"COALESCE(b.sentiment_up_percentage, 0) AS sentiment_up_percentage",
		"COALESCE(b.sentiment_down_percentage, 0) AS sentiment_down_percentage",
	).
		Options("DISTINCT ON (b.symbol)").
		From("crypto_coingecko_sentiment_data b").
		JoinClause(topRankedQuery(limit).Prefix("JOIN (").Suffix(") t ON t.symbol = b.symbol")).
		OrderBy("b.symbol", "b.timestamp DESC")

	var baselines []sentiment.Baseline
	if err := selectInto(ctx, r.db, "get_latest_baselines", &baselines, q); err != nil {
		return nil, err
	}
	return baselines, nil
}
