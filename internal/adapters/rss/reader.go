// Package rss reads crypto news feeds with gofeed.
package rss

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"cryptopulse/internal/adapters/ratelimit"
	"cryptopulse/internal/metrics"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
	"cryptopulse/pkg/textnorm"
)

const sourceName = "rss"

// Item is one feed entry with cleaned text
type Item struct {
	Feed        string
	Title       string
	Description string
	Link        string
	PublishedAt time.Time
}

// Reader fetches a fixed list of feeds
type Reader struct {
	feeds   []string
	parser  *gofeed.Parser
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// NewReader creates a feed reader. requestsPerMinute <= 0 disables throttling.
func NewReader(feeds []string, timeout time.Duration, requestsPerMinute int) *Reader {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "cryptopulse/1.0"

	return &Reader{
		feeds:   feeds,
		parser:  parser,
		limiter: ratelimit.NewLimiter(sourceName, requestsPerMinute),
		log:     logger.Get().With("component", "rss_reader"),
	}
}

// Fetch reads every feed and returns items published at or after since.
// A failing feed is skipped; the error is returned only when all feeds fail.
func (r *Reader) Fetch(ctx context.Context, since time.Time) ([]Item, error) {
	var (
		items  []Item
		failed errors.MultiError
	)

	for _, feedURL := range r.feeds {
		feedItems, err := r.fetchFeed(ctx, feedURL, since)
		if err != nil {
			failed.Add(err)
			r.log.Warnw("Failed to read feed, skipping", "feed", feedURL, "error", err)
			continue
		}
		items = append(items, feedItems...)
	}

	if len(r.feeds) > 0 && len(failed.Errors) == len(r.feeds) {
		return nil, failed.ToError()
	}
	return items, nil
}

func (r *Reader) fetchFeed(ctx context.Context, feedURL string, since time.Time) ([]Item, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	metrics.RecordSourceCall(sourceName, time.Since(start), err)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, errors.NewStatusError(sourceName, httpErr.StatusCode, httpErr.Status)
		}
		return nil, errors.Wrapf(err, "parse feed %s", feedURL)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published := publishedAt(entry)
		if published.IsZero() || published.Before(since) || entry.Link == "" {
			continue
		}

		items = append(items, Item{
			Feed:        feed.Title,
			Title:       textnorm.Normalize(entry.Title),
			Description: textnorm.Normalize(entry.Description),
			Link:        entry.Link,
			PublishedAt: published.UTC(),
		})
	}
	return items, nil
}

func publishedAt(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return *entry.PublishedParsed
	}
	if entry.UpdatedParsed != nil {
		return *entry.UpdatedParsed
	}
	return time.Time{}
}
