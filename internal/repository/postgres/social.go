package postgres

import (
	"context"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"

	"cryptopulse/internal/domain/sentiment"
)

// Compile-time check
var _ sentiment.SocialRepository = (*SocialRepository)(nil)

// SocialRepository implements sentiment.SocialRepository for Reddit, news and YouTube records
type SocialRepository struct {
	db DBTX
}

// NewSocialRepository creates a new social repository
func NewSocialRepository(db DBTX) *SocialRepository {
	return &SocialRepository{db: db}
}

// UpsertRedditRecords stores submissions and comments keyed by (symbol, subreddit, text).
// A repeat refreshes votes, confidence and timestamp.
func (r *SocialRepository) UpsertRedditRecords(ctx context.Context, records []sentiment.RedditRecord) (int64, error) {
	type key struct{ symbol, subreddit, text string }
	records = lastByKey(records, func(rec sentiment.RedditRecord) key {
		return key{rec.Symbol, rec.Subreddit, rec.Text}
	})

	var total int64
	for batch := range slices.Chunk(records, batchSize) {
		b := psql.Insert("crypto_reddit_data").
			Columns("symbol", "subreddit", "text", "votes", "confidence", "timestamp")
		for _, rec := range batch {
			b = b.Values(rec.Symbol, rec.Subreddit, rec.Text, rec.Votes, rec.Confidence, rec.Timestamp.UTC())
		}
		b = b.Suffix(`ON CONFLICT (symbol, subreddit, text) DO UPDATE SET
			votes = EXCLUDED.votes,
			confidence = EXCLUDED.confidence,
			timestamp = EXCLUDED.timestamp`)

		n, err := exec(ctx, r.db, "upsert_reddit", b)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// GetRedditSince returns records stamped at or after since
func (r *SocialRepository) GetRedditSince(ctx context.Context, since time.Time) ([]sentiment.RedditRecord, error) {
	q := psql.Select("symbol", "subreddit", "text", "votes", "confidence", "timestamp").
		From("crypto_reddit_data").
		Where(sq.GtOrEq{"timestamp": since.UTC()}).
		OrderBy("timestamp")

	var records []sentiment.RedditRecord
	if err := selectInto(ctx, r.db, "get_reddit_since", &records, q); err != nil {
		return nil, err
	}
	return records, nil
}

// InsertNews stores articles; an article already stored for the same
// (symbol, timestamp, source_url) is left alone. Returns rows inserted.
func (r *SocialRepository) InsertNews(ctx context.Context, articles []sentiment.NewsArticle) (int64, error) {
	var total int64
	for batch := range slices.Chunk(articles, batchSize) {
		b := psql.Insert("crypto_news_data").
			Columns("symbol", "timestamp", "source_url", "source_name", "title", "description")
		for _, a := range batch {
			b = b.Values(a.Symbol, a.Timestamp.UTC(), a.SourceURL, a.SourceName, a.Title, a.Description)
		}
		b = b.Suffix("ON CONFLICT (symbol, timestamp, source_url) DO NOTHING")

		n, err := exec(ctx, r.db, "insert_news", b)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// GetNewsSince returns articles published at or after since
func (r *SocialRepository) GetNewsSince(ctx context.Context, since time.Time) ([]sentiment.NewsArticle, error) {
	q := psql.Select("symbol", "timestamp", "source_url", "source_name", "title", "description").
		From("crypto_news_data").
		Where(sq.GtOrEq{"timestamp": since.UTC()}).
		OrderBy("timestamp")

	var articles []sentiment.NewsArticle
	if err := selectInto(ctx, r.db, "get_news_since", &articles, q); err != nil {
		return nil, err
	}
	return articles, nil
}

// SaveYouTubeComments stores comments and their per-asset analyses atomically.
// Comments refresh their engagement counters; analyses are insert-only.
func (r *SocialRepository) SaveYouTubeComments(ctx context.Context, comments []sentiment.YouTubeComment, analyses []sentiment.YouTubeCommentAnalysis) error {
	comments = lastByKey(comments, func(c sentiment.YouTubeComment) string { return c.CommentID })

	return withTx(ctx, r.db, func(db DBTX) error {
		for batch := range slices.Chunk(comments, batchSize) {
			b := psql.Insert("youtube_comment").
				Columns("comment_id", "video_id", "channel_id", "author_channel_id", "author",
					"text_original", "like_count", "reply_count", "published_at", "updated_at")
			for _, c := range batch {
				b = b.Values(c.CommentID, c.VideoID, c.ChannelID, c.AuthorChannelID, c.Author,
					c.Text, c.LikeCount, c.ReplyCount, c.PublishedAt.UTC(), c.UpdatedAt.UTC())
			}
			b = b.Suffix(`ON CONFLICT (comment_id) DO UPDATE SET
				text_original = EXCLUDED.text_original,
				like_count = EXCLUDED.like_count,
				reply_count = EXCLUDED.reply_count,
				updated_at = EXCLUDED.updated_at`)

			if _, err := exec(ctx, db, "upsert_youtube_comments", b); err != nil {
				return err
			}
		}

		for batch := range slices.Chunk(analyses, batchSize) {
			b := psql.Insert("youtube_comment_analysis").
				Columns("comment_id", "crypto_symbol", "timestamp", "confidence_score", "relevance_score", "quality_score")
			for _, a := range batch {
				b = b.Values(a.CommentID, a.Symbol, a.Timestamp.UTC(), a.ConfidenceScore, a.RelevanceScore, a.QualityScore)
			}
			b = b.Suffix("ON CONFLICT (comment_id, crypto_symbol, timestamp) DO NOTHING")

			if _, err := exec(ctx, db, "insert_youtube_analyses", b); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetYouTubeMentionsSince joins comments published at or after since with
// every analysis row, one mention per (comment, asset)
func (r *SocialRepository) GetYouTubeMentionsSince(ctx context.Context, since time.Time) ([]sentiment.YouTubeMention, error) {
	q := psql.Select(
		"c.text_original",
		"a.comment_id",
		"a.crypto_symbol",
		"a.timestamp",
		"a.confidence_score",
		"a.relevance_score",
		"a.quality_score",
	).
		From("youtube_comment c").
		Join("youtube_comment_analysis a ON a.comment_id = c.comment_id").
		Where(sq.GtOrEq{"c.published_at": since.UTC()}).
		OrderBy("c.published_at", "a.crypto_symbol")

	var mentions []sentiment.YouTubeMention
	if err := selectInto(ctx, r.db, "get_youtube_mentions_since", &mentions, q); err != nil {
		return nil, err
	}
	return mentions, nil
}
