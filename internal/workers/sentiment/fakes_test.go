package sentiment

import (
	"context"
	"sync"
	"time"

	"cryptopulse/internal/adapters/coingecko"
	"cryptopulse/internal/adapters/newsapi"
	"cryptopulse/internal/adapters/reddit"
	"cryptopulse/internal/adapters/rss"
	"cryptopulse/internal/adapters/youtube"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/events"
)

var (
	btc = sentiment.Asset{Symbol: "BTC", Name: "Bitcoin", Ranking: 1, CoingeckoID: "bitcoin"}
	eth = sentiment.Asset{Symbol: "ETH", Name: "Ethereum", Ranking: 2, CoingeckoID: "ethereum"}

	fixedNow = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
)

type assetsStub struct {
	assets []sentiment.Asset
	err    error
}

func (s assetsStub) GetTopRanked(ctx context.Context, limit int) ([]sentiment.Asset, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit > 0 && len(s.assets) > limit {
		return s.assets[:limit], nil
	}
	return s.assets, nil
}

type notifierSpy struct {
	mu       sync.Mutex
	received []events.IngestionCompleted
}

func (n *notifierSpy) PublishIngestionCompleted(ctx context.Context, summary events.IngestionCompleted) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, summary)
	return nil
}

type redditStub struct {
	search   func(subreddit, query string) ([]reddit.Submission, error)
	comments func(id string) ([]reddit.Comment, error)
}

func (r redditStub) Search(ctx context.Context, subreddit, query, timeRange string, limit int) ([]reddit.Submission, error) {
	return r.search(subreddit, query)
}

func (r redditStub) Comments(ctx context.Context, submissionID string, limit int) ([]reddit.Comment, error) {
	return r.comments(submissionID)
}

type redditStoreSpy struct {
	records []sentiment.RedditRecord
}

func (s *redditStoreSpy) UpsertRedditRecords(ctx context.Context, records []sentiment.RedditRecord) (int64, error) {
	s.records = append(s.records, records...)
	return int64(len(records)), nil
}

type youtubeStub struct {
	videos   []youtube.Video
	comments map[string][]sentiment.YouTubeComment
	errs     map[string]error
}

func (y youtubeStub) SearchVideos(ctx context.Context, query string, publishedAfter time.Time, limit int) ([]youtube.Video, error) {
	return y.videos, nil
}

func (y youtubeStub) VideoComments(ctx context.Context, videoID string, limit int) ([]sentiment.YouTubeComment, error) {
	if err := y.errs[videoID]; err != nil {
		return nil, err
	}
	return y.comments[videoID], nil
}

// sanitiserFunc adapts a function to CommentSanitiser
type sanitiserFunc func(comments []sentiment.CommentRecord, ranking int) ([]sentiment.CommentRecord, error)

func (f sanitiserFunc) Sanitise(ctx context.Context, comments []sentiment.CommentRecord, ranking int) ([]sentiment.CommentRecord, error) {
	return f(comments, ranking)
}

type youtubeStoreSpy struct {
	comments []sentiment.YouTubeComment
	analyses []sentiment.YouTubeCommentAnalysis
}

func (s *youtubeStoreSpy) SaveYouTubeComments(ctx context.Context, comments []sentiment.YouTubeComment, analyses []sentiment.YouTubeCommentAnalysis) error {
	s.comments = append(s.comments, comments...)
	s.analyses = append(s.analyses, analyses...)
	return nil
}

type newsSearchStub struct {
	calls    []string
	articles map[string][]newsapi.Article
	err      error
}

func (n *newsSearchStub) Everything(ctx context.Context, query string, from time.Time) ([]newsapi.Article, error) {
	n.calls = append(n.calls, query)
	if n.err != nil {
		return nil, n.err
	}
	return n.articles[query], nil
}

type feedStub struct {
	items []rss.Item
	err   error
}

func (f feedStub) Fetch(ctx context.Context, since time.Time) ([]rss.Item, error) {
	return f.items, f.err
}

type newsStoreSpy struct {
	articles []sentiment.NewsArticle
}

func (s *newsStoreSpy) InsertNews(ctx context.Context, articles []sentiment.NewsArticle) (int64, error) {
	s.articles = append(s.articles, articles...)
	return int64(len(articles)), nil
}

type marketStub struct {
	coins []coingecko.MarketCoin
	votes map[string]sentiment.Baseline
	err   error
}

func (m marketStub) Markets(ctx context.Context, perPage int) ([]coingecko.MarketCoin, error) {
	return m.coins, m.err
}

func (m marketStub) SentimentVotes(ctx context.Context, id, symbol string, at time.Time) (sentiment.Baseline, error) {
	b, ok := m.votes[id]
	if !ok {
		return sentiment.Baseline{}, context.DeadlineExceeded
	}
	b.Symbol = symbol
	b.Timestamp = at
	return b, nil
}

type marketStoreSpy struct {
	assets    []sentiment.Asset
	market    []sentiment.MarketData
	baselines []sentiment.Baseline
}

func (s *marketStoreSpy) UpsertAssets(ctx context.Context, assets []sentiment.Asset) error {
	s.assets = append(s.assets, assets...)
	return nil
}

func (s *marketStoreSpy) InsertMarketData(ctx context.Context, rows []sentiment.MarketData) error {
	s.market = append(s.market, rows...)
	return nil
}

func (s *marketStoreSpy) InsertBaselines(ctx context.Context, baselines []sentiment.Baseline) error {
	s.baselines = append(s.baselines, baselines...)
	return nil
}
