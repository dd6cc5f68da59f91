package postgres

import (
	"context"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"cryptopulse/internal/domain/sentiment"
)

// Compile-time check
var _ sentiment.AggregateRepository = (*AggregateRepository)(nil)

// AggregateRepository implements sentiment.AggregateRepository
type AggregateRepository struct {
	db DBTX
}

// NewAggregateRepository creates a new aggregate repository
func NewAggregateRepository(db DBTX) *AggregateRepository {
	return &AggregateRepository{db: db}
}

var aggregateColumns = []string{
	"symbol",
	"timestamp",
	"normalised_up_percentage",
	"normalised_down_percentage",
	"avg_positive_sentiment",
	"avg_neutral_sentiment",
	"avg_negative_sentiment",
	"avg_compound_sentiment",
	"earliest_post",
}

// UpsertNormalized writes the run's records in one transaction, replacing
// any row with the same (symbol, timestamp)
func (r *AggregateRepository) UpsertNormalized(ctx context.Context, records []sentiment.NormalizedRecord) error {
	type key struct {
		symbol string
		ts     int64
	}
	records = lastByKey(records, func(rec sentiment.NormalizedRecord) key {
		return key{rec.Symbol, rec.Timestamp.UnixNano()}
	})

	return withTx(ctx, r.db, func(db DBTX) error {
		for batch := range slices.Chunk(records, batchSize) {
			b := psql.Insert("crypto_sentiment_aggregate_data").Columns(aggregateColumns...)
			for _, rec := range batch {
				b = b.Values(
					rec.Symbol,
					rec.Timestamp.UTC(),
					rec.NormalisedUpPercentage,
					rec.NormalisedDownPercentage,
					rec.AvgPositive,
					rec.AvgNeutral,
					rec.AvgNegative,
					rec.AvgCompound,
					rec.EarliestPost.UTC(),
				)
			}
			b = b.Suffix(`ON CONFLICT (symbol, timestamp) DO UPDATE SET
				normalised_up_percentage = EXCLUDED.normalised_up_percentage,
				normalised_down_percentage = EXCLUDED.normalised_down_percentage,
				avg_positive_sentiment = EXCLUDED.avg_positive_sentiment,
				avg_neutral_sentiment = EXCLUDED.avg_neutral_sentiment,
				avg_negative_sentiment = EXCLUDED.avg_negative_sentiment,
				avg_compound_sentiment = EXCLUDED.avg_compound_sentiment,
				earliest_post = EXCLUDED.earliest_post`)

			if _, err := exec(ctx, db, "upsert_normalized", b); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetLatestNormalized returns the newest record for symbol or errors.ErrNotFound
func (r *AggregateRepository) GetLatestNormalized(ctx context.Context, symbol string) (*sentiment.NormalizedRecord, error) {
	q := psql.Select(aggregateColumns...).
		From("crypto_sentiment_aggregate_data").
		Where(sq.Eq{"symbol": symbol}).
		OrderBy("timestamp DESC").
		Limit(1)

	var rec sentiment.NormalizedRecord
	if err := getInto(ctx, r.db, "get_latest_normalized", &rec, q); err != nil {
		return nil, err
	}
	return &rec, nil
}
