package sentiment

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptopulse/internal/adapters/reddit"
	"cryptopulse/internal/domain/sentiment"
	sentimentsvc "cryptopulse/internal/services/sentiment"
	"cryptopulse/internal/workers"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/textnorm"
)

// RedditAPI is the subset of the Reddit client the collector uses
type RedditAPI interface {
	Search(ctx context.Context, subreddit, query, timeRange string, limit int) ([]reddit.Submission, error)
	Comments(ctx context.Context, submissionID string, limit int) ([]reddit.Comment, error)
}

// RedditStore persists collected posts and comments
type RedditStore interface {
	UpsertRedditRecords(ctx context.Context, records []sentiment.RedditRecord) (int64, error)
}

// RedditConfig tunes one collection run
type RedditConfig struct {
	Subreddits      []string
	TimeRange       string
	Ranking         int
	SubmissionLimit int
	CommentLimit    int
	MaxWorkers      int
}

// RedditCollector searches each tracked asset in each subreddit and stores
// submissions plus their top-level comments
type RedditCollector struct {
	*workers.BaseWorker
	api      RedditAPI
	assets   AssetSource
	store    RedditStore
	notifier IngestionNotifier
	cfg      RedditConfig
	now      func() time.Time
}

// NewRedditCollector creates a new Reddit collector worker
func NewRedditCollector(
	api RedditAPI,
	assets AssetSource,
	store RedditStore,
	notifier IngestionNotifier,
	cfg RedditConfig,
	interval time.Duration,
	enabled bool,
) *RedditCollector {
	if len(cfg.Subreddits) == 0 {
		cfg.Subreddits = []string{"CryptoCurrency"}
	}
	if cfg.TimeRange == "" {
		cfg.TimeRange = "day"
	}
	if cfg.SubmissionLimit <= 0 {
		cfg.SubmissionLimit = 10
	}
	if cfg.CommentLimit <= 0 {
		cfg.CommentLimit = 20
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 10
	}

	return &RedditCollector{
		BaseWorker: workers.NewBaseWorker(RedditWorkerName, interval, enabled),
		api:        api,
		assets:     assets,
		store:      store,
		notifier:   notifier,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run executes one iteration of Reddit collection
func (rc *RedditCollector) Run(ctx context.Context) error {
	summary := &runSummary{worker: rc.Name(), source: sentiment.SourceReddit, start: time.Now()}
	collectedAt := rc.now().UTC()

	tracked, err := rc.assets.GetTopRanked(ctx, rc.cfg.Ranking)
	if err != nil {
		return errors.Wrap(err, "load tracked assets")
	}
	if len(tracked) == 0 {
		rc.Log().Warn("No ranked assets with market data, skipping Reddit collection")
		return nil
	}
	summary.assets = len(tracked)

	var (
		mu      sync.Mutex
		records []sentiment.RedditRecord
	)

	// failures stay inside the work item; the group only bounds concurrency
	var g errgroup.Group
	g.SetLimit(rc.cfg.MaxWorkers)

	for _, asset := range tracked {
		for _, subreddit := range rc.cfg.Subreddits {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				collected, err := rc.collect(ctx, asset, subreddit, tracked, collectedAt)

				mu.Lock()
				records = append(records, collected...)
				if err != nil {
					summary.failures++
				}
				mu.Unlock()

				if err != nil {
					rc.Log().Warnw("Reddit work item failed",
						"symbol", asset.Symbol,
						"subreddit", subreddit,
						"collected", len(collected),
						"error", err,
					)
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		rc.Log().Infow("Reddit collection interrupted by shutdown", "collected", len(records))
		return err
	}

	stored, err := rc.store.UpsertRedditRecords(ctx, records)
	if err != nil {
		return errors.Wrap(err, "store reddit records")
	}
	summary.records = stored

	summary.finish(ctx, rc.notifier, rc.Log())
	return nil
}

// collect searches one subreddit by the asset ticker and name
func (rc *RedditCollector) collect(ctx context.Context, asset sentiment.Asset, subreddit string, tracked []sentiment.Asset, at time.Time) ([]sentiment.RedditRecord, error) {
	var (
		records []sentiment.RedditRecord
		errs    errors.MultiError
	)

	for _, term := range searchTerms(asset) {
		submissions, err := rc.api.Search(ctx, subreddit, term, rc.cfg.TimeRange, rc.cfg.SubmissionLimit)
		if err != nil {
			errs.Add(errors.Wrapf(err, "search %q", term))
			continue
		}

		for _, sub := range submissions {
			if text := submissionText(sub); text != "" {
				records = append(records, sentiment.RedditRecord{
					Symbol:     asset.Symbol,
					Subreddit:  subreddit,
					Text:       text,
					Votes:      sub.Score,
					Confidence: 1.0,
					Timestamp:  at,
				})
			}

			comments, err := rc.api.Comments(ctx, sub.ID, rc.cfg.CommentLimit)
			if err != nil {
				errs.Add(errors.Wrapf(err, "comments of %s", sub.ID))
				continue
			}

			for _, c := range comments {
				text := textnorm.Normalize(c.Body)
				if text == "" {
					continue
				}
				symbol, confidence := sentimentsvc.AttributeRedditComment(text, asset, tracked)
				records = append(records, sentiment.RedditRecord{
					Symbol:     symbol,
					Subreddit:  subreddit,
					Text:       text,
					Votes:      c.Score,
					Confidence: confidence,
					Timestamp:  at,
				})
			}
		}
	}

	return records, errs.ToError()
}

// searchTerms returns the ticker and the name, once each
func searchTerms(asset sentiment.Asset) []string {
	terms := []string{asset.Symbol}
	if asset.Name != "" && !strings.EqualFold(asset.Name, asset.Symbol) {
		terms = append(terms, asset.Name)
	}
	return terms
}

// submissionText is the cleaned title and body separated by a newline
func submissionText(sub reddit.Submission) string {
	title := textnorm.Normalize(sub.Title)
	body := textnorm.Normalize(sub.SelfText)

	switch {
	case body == "":
		return title
	case title == "":
		return body
	}
	return textnorm.Truncate(title+"\n"+body, textnorm.DefaultBudget)
}
