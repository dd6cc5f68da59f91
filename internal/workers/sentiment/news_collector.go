package sentiment

import (
	"context"
	"time"

	"cryptopulse/internal/adapters/newsapi"
	"cryptopulse/internal/adapters/rss"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/services/sentiment/filter"
	"cryptopulse/internal/workers"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/textnorm"
)

// NewsSearcher queries a news search API by keyword
type NewsSearcher interface {
	Everything(ctx context.Context, query string, from time.Time) ([]newsapi.Article, error)
}

// FeedReader reads the configured RSS feeds
type FeedReader interface {
	Fetch(ctx context.Context, since time.Time) ([]rss.Item, error)
}

// NewsStore persists articles; repeats of (symbol, timestamp, url) are ignored
type NewsStore interface {
	InsertNews(ctx context.Context, articles []sentiment.NewsArticle) (int64, error)
}

// NewsConfig tunes one collection run
type NewsConfig struct {
	Ranking  int
	Lookback time.Duration
}

// NewsCollector gathers articles per tracked asset from NewsAPI and from RSS
// feeds. Either source may be nil.
type NewsCollector struct {
	*workers.BaseWorker
	search   NewsSearcher
	feeds    FeedReader
	assets   AssetSource
	store    NewsStore
	notifier IngestionNotifier
	cfg      NewsConfig
	now      func() time.Time
}

// NewNewsCollector creates a new news collector worker
func NewNewsCollector(
	search NewsSearcher,
	feeds FeedReader,
	assets AssetSource,
	store NewsStore,
	notifier IngestionNotifier,
	cfg NewsConfig,
	interval time.Duration,
	enabled bool,
) *NewsCollector {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 24 * time.Hour
	}

	return &NewsCollector{
		BaseWorker: workers.NewBaseWorker(NewsWorkerName, interval, enabled),
		search:     search,
		feeds:      feeds,
		assets:     assets,
		store:      store,
		notifier:   notifier,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run executes one iteration of news collection
func (nc *NewsCollector) Run(ctx context.Context) error {
	summary := &runSummary{worker: nc.Name(), source: sentiment.SourceNews, start: time.Now()}
	since := nc.now().UTC().Add(-nc.cfg.Lookback)

	tracked, err := nc.assets.GetTopRanked(ctx, nc.cfg.Ranking)
	if err != nil {
		return errors.Wrap(err, "load tracked assets")
	}
	if len(tracked) == 0 {
		nc.Log().Warn("No ranked assets with market data, skipping news collection")
		return nil
	}
	summary.assets = len(tracked)

	var articles []sentiment.NewsArticle

	if nc.search != nil {
		for _, asset := range tracked {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			found, err := nc.search.Everything(ctx, asset.Name, since)
			if err != nil {
				summary.failures++
				nc.Log().Warnw("News search failed", "symbol", asset.Symbol, "error", err)
				if errors.Is(err, errors.ErrUnauthorized) {
					// same key for every asset
					break
				}
				continue
			}
			for _, a := range found {
				articles = append(articles, newsArticle(asset.Symbol, a.PublishedAt, a.URL, a.SourceName, a.Title, a.Description))
			}
		}
	}

	if nc.feeds != nil {
		items, err := nc.feeds.Fetch(ctx, since)
		if err != nil {
			summary.failures++
			nc.Log().Warnw("RSS feeds failed", "error", err)
		}
		articles = append(articles, AttributeFeedItems(items, tracked)...)
	}

	stored, err := nc.store.InsertNews(ctx, articles)
	if err != nil {
		return errors.Wrap(err, "store news")
	}
	summary.records = stored

	summary.finish(ctx, nc.notifier, nc.Log())
	return nil
}

// AttributeFeedItems turns every item into one article per asset whose ticker
// or name appears in its title or description
func AttributeFeedItems(items []rss.Item, assets []sentiment.Asset) []sentiment.NewsArticle {
	if len(items) == 0 {
		return nil
	}
	patterns := filter.BuildPatterns(assets)

	var articles []sentiment.NewsArticle
	for _, item := range items {
		text := item.Title + " " + item.Description
		for _, p := range patterns {
			if p.Mentions(text) {
				articles = append(articles, newsArticle(p.Symbol, item.PublishedAt, item.Link, item.Feed, item.Title, item.Description))
			}
		}
	}
	return articles
}

func newsArticle(symbol string, publishedAt time.Time, link, source, title, description string) sentiment.NewsArticle {
	return sentiment.NewsArticle{
		Symbol:      symbol,
		Timestamp:   publishedAt.UTC(),
		SourceURL:   link,
		SourceName:  source,
		Title:       textnorm.Normalize(title),
		Description: textnorm.Normalize(description),
	}
}
