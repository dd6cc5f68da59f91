package sentiment

import (
	"context"
	"time"

	"cryptopulse/internal/adapters/youtube"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/workers"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/textnorm"
)

// YouTubeAPI is the subset of the YouTube client the collector uses
type YouTubeAPI interface {
	SearchVideos(ctx context.Context, query string, publishedAfter time.Time, limit int) ([]youtube.Video, error)
	VideoComments(ctx context.Context, videoID string, limit int) ([]sentiment.YouTubeComment, error)
}

// CommentSanitiser runs the comment filter pipeline against the top ranked assets
type CommentSanitiser interface {
	Sanitise(ctx context.Context, comments []sentiment.CommentRecord, ranking int) ([]sentiment.CommentRecord, error)
}

// YouTubeStore persists comments with their per-asset analysis rows
type YouTubeStore interface {
	SaveYouTubeComments(ctx context.Context, comments []sentiment.YouTubeComment, analyses []sentiment.YouTubeCommentAnalysis) error
}

// YouTubeConfig tunes one collection run
type YouTubeConfig struct {
	Query            string
	Videos           int
	Lookback         time.Duration
	CommentsPerVideo int
	Ranking          int
}

// YouTubeCollector pulls comments of recent popular crypto videos, keeps the
// ones surviving the filter pipeline and records which assets they mention
type YouTubeCollector struct {
	*workers.BaseWorker
	api       YouTubeAPI
	sanitiser CommentSanitiser
	store     YouTubeStore
	notifier  IngestionNotifier
	cfg       YouTubeConfig
	now       func() time.Time
}

// NewYouTubeCollector creates a new YouTube collector worker
func NewYouTubeCollector(
	api YouTubeAPI,
	sanitiser CommentSanitiser,
	store YouTubeStore,
	notifier IngestionNotifier,
	cfg YouTubeConfig,
	interval time.Duration,
	enabled bool,
) *YouTubeCollector {
	if cfg.Query == "" {
		cfg.Query = "crypto news"
	}
	if cfg.Videos <= 0 {
		cfg.Videos = 50
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 48 * time.Hour
	}
	if cfg.CommentsPerVideo <= 0 {
		cfg.CommentsPerVideo = 100
	}
	if cfg.Ranking <= 0 {
		cfg.Ranking = 50
	}

	return &YouTubeCollector{
		BaseWorker: workers.NewBaseWorker(YouTubeWorkerName, interval, enabled),
		api:        api,
		sanitiser:  sanitiser,
		store:      store,
		notifier:   notifier,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run executes one iteration of YouTube collection
func (yc *YouTubeCollector) Run(ctx context.Context) error {
	summary := &runSummary{worker: yc.Name(), source: sentiment.SourceYouTube, start: time.Now()}
	now := yc.now().UTC()

	videos, err := yc.api.SearchVideos(ctx, yc.cfg.Query, now.Add(-yc.cfg.Lookback), yc.cfg.Videos)
	if err != nil && len(videos) == 0 {
		return errors.Wrap(err, "search videos")
	}
	if err != nil {
		yc.Log().Warnw("Video search ended early, continuing with partial results", "videos", len(videos), "error", err)
	}

	mentioned := make(map[string]struct{})
	for _, video := range videos {
		if ctx.Err() != nil {
			yc.Log().Infow("YouTube collection interrupted by shutdown", "stored", summary.records)
			return ctx.Err()
		}

		stored, symbols, err := yc.collectVideo(ctx, video, now)
		if err != nil {
			summary.failures++
			yc.Log().Warnw("Skipping video", "video_id", video.ID, "title", video.Title, "error", err)
			continue
		}
		summary.records += int64(stored)
		for _, s := range symbols {
			mentioned[s] = struct{}{}
		}
	}
	summary.assets = len(mentioned)

	summary.finish(ctx, yc.notifier, yc.Log())
	return nil
}

// collectVideo stores the relevant comments of one video and returns how many
// were kept and which symbols they mention
func (yc *YouTubeCollector) collectVideo(ctx context.Context, video youtube.Video, now time.Time) (int, []string, error) {
	comments, err := yc.api.VideoComments(ctx, video.ID, yc.cfg.CommentsPerVideo)
	if err != nil {
		return 0, nil, errors.Wrap(err, "fetch comments")
	}
	if len(comments) == 0 {
		return 0, nil, nil
	}

	byID := make(map[string]sentiment.YouTubeComment, len(comments))
	records := make([]sentiment.CommentRecord, 0, len(comments))
	for _, c := range comments {
		c.Text = textnorm.Normalize(c.Text)
		if c.Text == "" {
			continue
		}
		byID[c.CommentID] = c
		records = append(records, sentiment.CommentRecord{
			ID:          c.CommentID,
			ThreadID:    c.VideoID,
			Text:        c.Text,
			Author:      c.Author,
			PublishedAt: c.PublishedAt,
			LikeCount:   c.LikeCount,
			ReplyCount:  c.ReplyCount,
		})
	}

	kept, err := yc.sanitiser.Sanitise(ctx, records, yc.cfg.Ranking)
	if err != nil {
		return 0, nil, errors.Wrap(err, "sanitise comments")
	}
	if len(kept) == 0 {
		return 0, nil, nil
	}

	stored := make([]sentiment.YouTubeComment, 0, len(kept))
	var (
		analyses []sentiment.YouTubeCommentAnalysis
		symbols  []string
	)
	for _, rec := range kept {
		stored = append(stored, byID[rec.ID])
		for _, symbol := range rec.CryptoMentions {
			analyses = append(analyses, newAnalysis(rec, symbol, now))
			symbols = append(symbols, symbol)
		}
	}

	if err := yc.store.SaveYouTubeComments(ctx, stored, analyses); err != nil {
		return 0, nil, errors.Wrap(err, "store comments")
	}

	yc.Log().Debugw("Stored video comments", "video_id", video.ID, "fetched", len(comments), "kept", len(stored))
	return len(stored), symbols, nil
}

// newAnalysis links a kept comment to one asset. Confidence starts at zero
// until a model scores it; relevance reflects the pattern match and quality
// the inverse of the bot score.
func newAnalysis(rec sentiment.CommentRecord, symbol string, at time.Time) sentiment.YouTubeCommentAnalysis {
	confidence := 0.0
	relevance := 1.0
	quality := 1.0 - rec.BotScore
	if quality < 0 {
		quality = 0
	}

	return sentiment.YouTubeCommentAnalysis{
		CommentID:       rec.ID,
		Symbol:          symbol,
		Timestamp:       at,
		ConfidenceScore: &confidence,
		RelevanceScore:  &relevance,
		QualityScore:    &quality,
	}
}
