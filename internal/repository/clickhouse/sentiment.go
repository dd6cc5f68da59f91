package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
)

// Default table names
const (
	NormalizedTable = "normalized_sentiment"
	MentionsTable   = "scored_mentions"
)

// normalizedDDL keeps every run's records; ReplacingMergeTree collapses
// reruns of the same (symbol, timestamp) on merge.
const normalizedDDL = `
CREATE TABLE IF NOT EXISTS %s (
	symbol                     LowCardinality(String),
	timestamp                  DateTime64(3, 'UTC'),
	normalised_up_percentage   Float64,
	normalised_down_percentage Float64,
	avg_positive_sentiment     Float64,
	avg_neutral_sentiment      Float64,
	avg_negative_sentiment     Float64,
	avg_compound_sentiment     Float64,
	positive_count             Float64,
	negative_count             Float64,
	neutral_count              Float64,
	total_weight               Float64,
	earliest_post              DateTime64(3, 'UTC'),
	inserted_at                DateTime64(3, 'UTC') DEFAULT now64(3)
) ENGINE = ReplacingMergeTree(inserted_at)
PARTITION BY toYYYYMM(timestamp)
ORDER BY (symbol, timestamp)`

const mentionsDDL = `
CREATE TABLE IF NOT EXISTS %s (
	run_id     String,
	symbol     LowCardinality(String),
	source     LowCardinality(String),
	confidence Float64,
	positive   Float64,
	neutral    Float64,
	negative   Float64,
	compound   Float64,
	scored_at  DateTime64(3, 'UTC')
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(scored_at)
ORDER BY (symbol, source, scored_at)
TTL toDateTime(scored_at) + INTERVAL 90 DAY`

// Compile-time check
var _ sentiment.HistoryRepository = (*SentimentRepository)(nil)

// SentimentRepository implements sentiment.HistoryRepository using ClickHouse
type SentimentRepository struct {
	conn            driver.Conn
	normalizedTable string
	mentionsTable   string
}

// NewSentimentRepository creates a new history repository on the default tables
func NewSentimentRepository(conn driver.Conn) *SentimentRepository {
	return NewSentimentRepositoryWithTables(conn, NormalizedTable, MentionsTable)
}

// NewSentimentRepositoryWithTables targets custom table names
func NewSentimentRepositoryWithTables(conn driver.Conn, normalized, mentions string) *SentimentRepository {
	return &SentimentRepository{conn: conn, normalizedTable: normalized, mentionsTable: mentions}
}

// Schema returns CREATE TABLE statements for the repository's tables
func (r *SentimentRepository) Schema() []string {
	return []string{
		fmt.Sprintf(normalizedDDL, r.normalizedTable),
		fmt.Sprintf(mentionsDDL, r.mentionsTable),
	}
}

// InsertNormalized appends one run's normalized records
func (r *SentimentRepository) InsertNormalized(ctx context.Context, records []sentiment.NormalizedRecord) error {
	if len(records) == 0 {
		return nil
	}
	start := time.Now()

	batch, err := r.conn.PrepareBatch(ctx, fmt.Sprintf(`
		INSERT INTO %s (
			symbol, timestamp,
			normalised_up_percentage, normalised_down_percentage,
			avg_positive_sentiment, avg_neutral_sentiment, avg_negative_sentiment, avg_compound_sentiment,
			positive_count, negative_count, neutral_count, total_weight,
			earliest_post
		)`, r.normalizedTable))
	if err != nil {
		return errors.Wrap(err, "prepare normalized batch")
	}

	for _, rec := range records {
		err := batch.Append(
			rec.Symbol, rec.Timestamp.UTC(),
			rec.NormalisedUpPercentage, rec.NormalisedDownPercentage,
			rec.AvgPositive, rec.AvgNeutral, rec.AvgNegative, rec.AvgCompound,
			rec.PositiveCount, rec.NegativeCount, rec.NeutralCount, rec.TotalWeight,
			rec.EarliestPost.UTC(),
		)
		if err != nil {
			return errors.Wrap(err, "failed to append normalized record")
		}
	}

	err = batch.Send()
	metrics.RecordDBQuery("clickhouse", "insert_normalized", time.Since(start), err)
	return errors.Wrap(err, "send normalized batch")
}

// InsertScoredMentions appends scored mentions. It is the flush function of
// the mention batch writer.
func (r *SentimentRepository) InsertScoredMentions(ctx context.Context, mentions []sentiment.ScoredMention) error {
	if len(mentions) == 0 {
		return nil
	}
	start := time.Now()

	batch, err := r.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", r.mentionsTable))
	if err != nil {
		return errors.Wrap(err, "prepare mentions batch")
	}

	for i := range mentions {
		m := mentions[i]
		m.ScoredAt = m.ScoredAt.UTC()
		if err := batch.AppendStruct(&m); err != nil {
			return errors.Wrap(err, "failed to append scored mention")
		}
	}

	err = batch.Send()
	metrics.RecordDBQuery("clickhouse", "insert_scored_mentions", time.Since(start), err)
	return errors.Wrap(err, "send mentions batch")
}

// GetHistory returns normalized records for symbol since the given time,
// oldest first, one row per timestamp
func (r *SentimentRepository) GetHistory(ctx context.Context, symbol string, since time.Time) ([]sentiment.NormalizedRecord, error) {
	start := time.Now()
	var records []sentiment.NormalizedRecord

	query := fmt.Sprintf(`
		SELECT
			symbol, timestamp,
			normalised_up_percentage, normalised_down_percentage,
			avg_positive_sentiment, avg_neutral_sentiment, avg_negative_sentiment, avg_compound_sentiment,
			positive_count, negative_count, neutral_count, total_weight,
			earliest_post
		FROM %s FINAL
		WHERE symbol = ? AND timestamp >= ?
		ORDER BY timestamp ASC`, r.normalizedTable)

	err := r.conn.Select(ctx, &records, query, symbol, since.UTC())
	metrics.RecordDBQuery("clickhouse", "get_history", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(err, "select history")
	}
	return records, nil
}
