package sentiment

import (
	"context"
	"time"
)

// AssetRepository stores the ranked asset universe and its market observations (Postgres)
type AssetRepository interface {
	UpsertAssets(ctx context.Context, assets []Asset) error
	InsertMarketData(ctx context.Context, rows []MarketData) error

	// GetTopRanked returns at most limit assets that have market data, ranking ascending
	GetTopRanked(ctx context.Context, limit int) ([]Asset, error)
}

// BaselineRepository stores external sentiment baselines (Postgres)
type BaselineRepository interface {
	InsertBaselines(ctx context.Context, baselines []Baseline) error

	// GetLatestBaselines returns the newest baseline per asset with market data
	GetLatestBaselines(ctx context.Context, limit int) ([]Baseline, error)
}

// SocialRepository stores raw social and news records (Postgres)
type SocialRepository interface {
	UpsertRedditRecords(ctx context.Context, records []RedditRecord) (int64, error)
	GetRedditSince(ctx context.Context, since time.Time) ([]RedditRecord, error)

	InsertNews(ctx context.Context, articles []NewsArticle) (int64, error)
	GetNewsSince(ctx context.Context, since time.Time) ([]NewsArticle, error)

	SaveYouTubeComments(ctx context.Context, comments []YouTubeComment, analyses []YouTubeCommentAnalysis) error
	GetYouTubeMentionsSince(ctx context.Context, since time.Time) ([]YouTubeMention, error)
}

// AggregateRepository stores normalized sentiment records (Postgres).
// UpsertNormalized replaces any existing row with the same (symbol, timestamp).
type AggregateRepository interface {
	UpsertNormalized(ctx context.Context, records []NormalizedRecord) error
	GetLatestNormalized(ctx context.Context, symbol string) (*NormalizedRecord, error)
}

// HistoryRepository keeps append-only time series (ClickHouse)
type HistoryRepository interface {
	InsertNormalized(ctx context.Context, records []NormalizedRecord) error
	InsertScoredMentions(ctx context.Context, mentions []ScoredMention) error
	GetHistory(ctx context.Context, symbol string, since time.Time) ([]NormalizedRecord, error)
}
