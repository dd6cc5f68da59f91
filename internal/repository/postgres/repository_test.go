package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/pkg/errors"
)

func TestLastByKey(t *testing.T) {
	rows := []sentiment.Asset{
		{Symbol: "BTC", Ranking: 1},
		{Symbol: "ETH", Ranking: 2},
		{Symbol: "BTC", Ranking: 3},
	}

	got := lastByKey(rows, func(a sentiment.Asset) string { return a.Symbol })

	require.Len(t, got, 2)
	assert.Equal(t, "BTC", got[0].Symbol)
	assert.Equal(t, 3, got[0].Ranking, "later row wins, first position kept")
	assert.Equal(t, "ETH", got[1].Symbol)
}

func TestTopRankedQuery(t *testing.T) {
	query, args, err := psql.Select("*").FromSelect(topRankedQuery(150), "t").ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, query, "EXISTS (SELECT 1 FROM crypto_market_data m WHERE m.symbol = a.symbol)")
	assert.Contains(t, query, "ORDER BY a.ranking ASC")
	assert.Contains(t, query, "LIMIT 150")
}

func TestAssetRepository_GetTopRanked(t *testing.T) {
	fx := newTestStore(t)
	repo := NewAssetRepository(fx.DB())
	ctx := context.Background()

	// negative rankings sort ahead of anything already in the database
	fx.CreateAsset(WithSymbol("ZZB", "Zeta B"), WithRanking(-2))
	fx.CreateAsset(WithSymbol("ZZA", "Zeta A"), WithRanking(-3))
	fx.CreateAsset(WithSymbol("ZZN", "No Market"), WithRanking(-4), Untracked())

	assets, err := repo.GetTopRanked(ctx, 2)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "ZZA", assets[0].Symbol)
	assert.Equal(t, "ZZB", assets[1].Symbol)
	for _, a := range assets {
		assert.NotEqual(t, "ZZN", a.Symbol, "assets without market data are not tracked")
	}
}

func TestAssetRepository_UpsertRefreshesRanking(t *testing.T) {
	fx := newTestStore(t)
	repo := NewAssetRepository(fx.DB())
	ctx := context.Background()

	fx.CreateAsset(WithSymbol("ZZR", "Rerank"), WithRanking(40))
	require.NoError(t, repo.UpsertAssets(ctx, []sentiment.Asset{{Symbol: "ZZR", Name: "Rerank", Ranking: -1}}))

	assets, err := repo.GetTopRanked(ctx, 1)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "ZZR", assets[0].Symbol)
}

func TestBaselineRepository_GetLatestBaselines(t *testing.T) {
	fx := newTestStore(t)
	repo := NewBaselineRepository(fx.DB())
	ctx := context.Background()

	fx.CreateAsset(WithSymbol("ZZA", "Zeta A"), WithRanking(0))
	fx.CreateAsset(WithSymbol("ZZU", "Untracked"), WithRanking(0), Untracked())

	older := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(6 * time.Hour)
	require.NoError(t, repo.InsertBaselines(ctx, []sentiment.Baseline{
		{Symbol: "ZZA", Timestamp: older, UpPercentage: 40, DownPercentage: 60},
		{Symbol: "ZZA", Timestamp: newer, UpPercentage: 75, DownPercentage: 25},
		{Symbol: "ZZU", Timestamp: newer, UpPercentage: 10, DownPercentage: 90},
	}))

	baselines, err := repo.GetLatestBaselines(ctx, 150)
	require.NoError(t, err)

	bySymbol := make(map[string]sentiment.Baseline)
	for _, b := range baselines {
		bySymbol[b.Symbol] = b
	}
	require.Contains(t, bySymbol, "ZZA")
	assert.InDelta(t, 75, bySymbol["ZZA"].UpPercentage, 1e-9)
	assert.True(t, newer.Equal(bySymbol["ZZA"].Timestamp))
	assert.NotContains(t, bySymbol, "ZZU")
}

func TestSocialRepository_RedditUpsertAndWindow(t *testing.T) {
	fx := newTestStore(t)
	repo := NewSocialRepository(fx.DB())
	ctx := context.Background()

	fx.CreateAsset(WithSymbol("ZZA", "Zeta A"))
	now := time.Now().UTC().Truncate(time.Second)

	n, err := repo.UpsertRedditRecords(ctx, []sentiment.RedditRecord{
		{Symbol: "ZZA", Subreddit: "CryptoCurrency", Text: "zeta is fine", Votes: 1, Confidence: 0.5, Timestamp: now},
		{Symbol: "ZZA", Subreddit: "CryptoCurrency", Text: "zeta is fine", Votes: 9, Confidence: 1, Timestamp: now},
		{Symbol: "ZZA", Subreddit: "CryptoCurrency", Text: "old news", Votes: 2, Confidence: 1, Timestamp: now.Add(-30 * 24 * time.Hour)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	records, err := repo.GetRedditSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 9, records[0].Votes)
	assert.InDelta(t, 1.0, records[0].Confidence, 1e-9)
}

func TestSocialRepository_NewsIgnoresDuplicates(t *testing.T) {
	fx := newTestStore(t)
	repo := NewSocialRepository(fx.DB())
	ctx := context.Background()

	fx.CreateAsset(WithSymbol("ZZA", "Zeta A"))
	ts := time.Now().UTC().Truncate(time.Second)
	article := sentiment.NewsArticle{Symbol: "ZZA", Timestamp: ts, SourceURL: "https://example.com/a", Title: "Zeta rallies", Description: "up"}

	n, err := repo.InsertNews(ctx, []sentiment.NewsArticle{article})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	article.Title = "changed"
	n, err = repo.InsertNews(ctx, []sentiment.NewsArticle{article})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	articles, err := repo.GetNewsSince(ctx, ts.Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Zeta rallies", articles[0].Title)
}

func TestSocialRepository_YouTubeMentions(t *testing.T) {
	fx := newTestStore(t)
	repo := NewSocialRepository(fx.DB())
	ctx := context.Background()

	fx.CreateAsset(WithSymbol("ZZA", "Zeta A"))
	fx.CreateAsset(WithSymbol("ZZB", "Zeta B"))
	now := time.Now().UTC().Truncate(time.Second)
	zero := 0.0
	rel := 0.9

	comments := []sentiment.YouTubeComment{
		{CommentID: "c1", VideoID: "v1", Text: "ZZA and ZZB both look good", PublishedAt: now, UpdatedAt: now},
		{CommentID: "c2", VideoID: "v1", Text: "stale", PublishedAt: now.Add(-10 * 24 * time.Hour), UpdatedAt: now},
	}
	analyses := []sentiment.YouTubeCommentAnalysis{
		{CommentID: "c1", Symbol: "ZZA", Timestamp: now, ConfidenceScore: &zero, RelevanceScore: &rel},
		{CommentID: "c1", Symbol: "ZZB", Timestamp: now, ConfidenceScore: &zero},
		{CommentID: "c2", Symbol: "ZZA", Timestamp: now, ConfidenceScore: &zero},
	}
	require.NoError(t, repo.SaveYouTubeComments(ctx, comments, analyses))

	mentions, err := repo.GetYouTubeMentionsSince(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, mentions, 2)
	assert.Equal(t, "ZZA", mentions[0].Symbol)
	assert.Equal(t, "ZZA and ZZB both look good", mentions[0].Text)
	assert.InDelta(t, 0.3, mentions[0].Confidence(), 1e-9)
	assert.Nil(t, mentions[1].QualityScore)
}

func TestAggregateRepository_UpsertReplaces(t *testing.T) {
	fx := newTestStore(t)
	repo := NewAggregateRepository(fx.DB())
	ctx := context.Background()

	fx.CreateAsset(WithSymbol("ZZA", "Zeta A"))
	ts := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	rec := sentiment.NormalizedRecord{
		Symbol:                   "ZZA",
		Timestamp:                ts,
		NormalisedUpPercentage:   0.6,
		NormalisedDownPercentage: 0.4,
		EarliestPost:             ts.Add(-7 * 24 * time.Hour),
	}
	require.NoError(t, repo.UpsertNormalized(ctx, []sentiment.NormalizedRecord{rec}))

	rec.NormalisedUpPercentage = 0.7
	rec.NormalisedDownPercentage = 0.3
	require.NoError(t, repo.UpsertNormalized(ctx, []sentiment.NormalizedRecord{rec}))

	got, err := repo.GetLatestNormalized(ctx, "ZZA")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got.NormalisedUpPercentage, 1e-9)
	assert.True(t, ts.Equal(got.Timestamp))

	var rows int
	require.NoError(t, fx.DB().GetContext(ctx, &rows,
		"SELECT COUNT(*) FROM crypto_sentiment_aggregate_data WHERE symbol = $1", "ZZA"))
	assert.Equal(t, 1, rows)
}

func TestAggregateRepository_NotFound(t *testing.T) {
	fx := newTestStore(t)
	repo := NewAggregateRepository(fx.DB())

	_, err := repo.GetLatestNormalized(context.Background(), "NOPE")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
