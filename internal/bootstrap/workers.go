package bootstrap

import (
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/workers"
	sentimentworkers "cryptopulse/internal/workers/sentiment"
)

// marketStore routes asset writes through the cache so rankings refresh
type marketStore struct {
	sentiment.AssetRepository
	sentiment.BaselineRepository
}

func (r *Repositories) coingeckoStore() sentimentworkers.MarketStore {
	return marketStore{AssetRepository: r.Assets, BaselineRepository: r.Baselines}
}

// provideWorkers builds the ingestion collectors and the aggregation worker
func provideWorkers(c *Container, registry *workers.Registry) *workers.Scheduler {
	c.Log.Info("Initializing workers...")

	scheduler := workers.NewScheduler(registry)

	sc := c.Config.Sentiment
	wc := c.Config.Workers

	// a nil *events.Publisher must not reach the interface
	var notifier sentimentworkers.IngestionNotifier
	if c.Adapters.Publisher != nil {
		notifier = c.Adapters.Publisher
	}

	// ========================================
	// Ingestion (one worker per upstream)
	// ========================================

	scheduler.RegisterWorker(sentimentworkers.NewCoingeckoCollector(
		c.Adapters.Coingecko,
		c.Repos.coingeckoStore(),
		notifier,
		sc.AggregationTopN,
		wc.CoingeckoInterval,
		wc.CoingeckoEnabled,
	))

	scheduler.RegisterWorker(sentimentworkers.NewRedditCollector(
		c.Adapters.Reddit,
		c.Repos.Assets,
		c.Repos.Social,
		notifier,
		sentimentworkers.RedditConfig{
			Subreddits:      sc.Subreddits,
			TimeRange:       sc.RedditTimeRange,
			Ranking:         sc.IngestionRanking,
			SubmissionLimit: sc.RedditSubmissions,
			CommentLimit:    sc.RedditComments,
			MaxWorkers:      sc.RedditMaxWorkers,
		},
		wc.RedditInterval,
		wc.RedditEnabled,
	))

	scheduler.RegisterWorker(sentimentworkers.NewYouTubeCollector(
		c.Adapters.YouTube,
		c.Services.Filter,
		c.Repos.Social,
		notifier,
		sentimentworkers.YouTubeConfig{
			Query:            sc.YouTubeQuery,
			Videos:           sc.YouTubeVideos,
			Lookback:         sc.YouTubeLookback,
			CommentsPerVideo: sc.YouTubeCommentsPerVideo,
			Ranking:          sc.YouTubeRanking,
		},
		wc.YouTubeInterval,
		wc.YouTubeEnabled,
	))

	scheduler.RegisterWorker(sentimentworkers.NewNewsCollector(
		c.Adapters.NewsAPI,
		c.Adapters.RSS,
		c.Repos.Assets,
		c.Repos.Social,
		notifier,
		sentimentworkers.NewsConfig{Ranking: sc.IngestionRanking},
		wc.NewsInterval,
		wc.NewsEnabled,
	))

	// ========================================
	// Aggregation
	// ========================================

	var flusher sentimentworkers.Flusher
	if c.Services.MentionWriter != nil {
		flusher = c.Services.MentionWriter
	}

	scheduler.RegisterWorker(sentimentworkers.NewAggregationWorker(
		c.Services.Sentiment,
		c.Repos.RunLock,
		flusher,
		wc.AggregationInterval,
		wc.AggregationEnabled,
	))

	c.Log.Infow("✓ Workers registered", "workers", registry.ListNames())
	return scheduler
}
