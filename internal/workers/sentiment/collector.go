// Package sentiment holds the scheduled ingestion and aggregation workers.
package sentiment

import (
	"context"
	"time"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/events"
	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/logger"
)

// Worker names, also used as metric labels and lock names
const (
	RedditWorkerName      = "reddit_collector"
	YouTubeWorkerName     = "youtube_collector"
	NewsWorkerName        = "news_collector"
	CoingeckoWorkerName   = "coingecko_collector"
	AggregationWorkerName = "sentiment_aggregation"
)

// AssetSource lists the ranked assets a collector works on
type AssetSource interface {
	GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error)
}

// IngestionNotifier announces finished ingestion runs
type IngestionNotifier interface {
	PublishIngestionCompleted(ctx context.Context, summary events.IngestionCompleted) error
}

// runSummary accumulates what one collector run did
type runSummary struct {
	worker   string
	source   sentiment.Source
	start    time.Time
	assets   int
	records  int64
	failures int
}

// finish records metrics and publishes the summary; notifier may be nil
func (s *runSummary) finish(ctx context.Context, notifier IngestionNotifier, log *logger.Logger) {
	metrics.RecordIngested(string(s.source), s.records)

	duration := time.Since(s.start)
	log.Infow("Ingestion run complete",
		"assets", s.assets,
		"records", s.records,
		"failures", s.failures,
		"duration", duration,
	)

	if notifier == nil {
		return
	}
	err := notifier.PublishIngestionCompleted(ctx, events.IngestionCompleted{
		Worker:   s.worker,
		Records:  s.records,
		Assets:   s.assets,
		Failures: s.failures,
		Duration: duration,
	})
	if err != nil {
		log.Warnw("Failed to publish ingestion summary", "error", err)
	}
}
