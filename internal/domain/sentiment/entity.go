package sentiment

import "time"

// Source identifies where a social data point came from
type Source string

const (
	SourceReddit  Source = "reddit"
	SourceYouTube Source = "youtube"
	SourceNews    Source = "news"
)

// Asset is a ranked crypto asset tracked by the pipeline
type Asset struct {
	Symbol      string `db:"symbol" json:"symbol"`
	Name        string `db:"name" json:"name"`
	Ranking     int    `db:"ranking" json:"ranking"`
	CoingeckoID string `db:"coingecko_id" json:"coingecko_id"`
}

// MarketData is one market observation for an asset. An asset is only
// aggregated when at least one of these exists.
type MarketData struct {
	Symbol    string    `db:"symbol"`
	Timestamp time.Time `db:"timestamp"`
	PriceUSD  float64   `db:"price_usd"`
	MarketCap float64   `db:"market_cap"`
	Volume24h float64   `db:"volume_24h"`
}

// Baseline is the externally reported up/down vote split for an asset (0-100 scale)
type Baseline struct {
	Symbol         string    `db:"symbol"`
	Timestamp      time.Time `db:"timestamp"`
	UpPercentage   float64   `db:"sentiment_up_percentage"`
	DownPercentage float64   `db:"sentiment_down_percentage"`
}

// SocialDataPoint is the uniform shape every source record is adapted to before scoring
type SocialDataPoint struct {
	Symbol     string
	Text       string
	Confidence float64
	Source     Source
}

// RedditRecord is a stored Reddit submission or comment
type RedditRecord struct {
	Symbol     string    `db:"symbol"`
	Subreddit  string    `db:"subreddit"`
	Text       string    `db:"text"`
	Votes      int       `db:"votes"`
	Confidence float64   `db:"confidence"`
	Timestamp  time.Time `db:"timestamp"`
}

// NewsArticle is a stored news item attributed to one asset
type NewsArticle struct {
	Symbol      string    `db:"symbol"`
	Timestamp   time.Time `db:"timestamp"`
	SourceURL   string    `db:"source_url"`
	SourceName  string    `db:"source_name"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
}

// Text is what gets scored for an article
func (a NewsArticle) Text() string {
	if a.Description == "" {
		return a.Title
	}
	return a.Title + " " + a.Description
}

// YouTubeComment is a stored top-level YouTube comment
type YouTubeComment struct {
	CommentID       string    `db:"comment_id"`
	VideoID         string    `db:"video_id"`
	ChannelID       string    `db:"channel_id"`
	AuthorChannelID string    `db:"author_channel_id"`
	Author          string    `db:"author"`
	Text            string    `db:"text_original"`
	LikeCount       int       `db:"like_count"`
	ReplyCount      int       `db:"reply_count"`
	PublishedAt     time.Time `db:"published_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// YouTubeCommentAnalysis links a comment to one asset it mentions.
// Nil scores count as zero when deriving confidence.
type YouTubeCommentAnalysis struct {
	CommentID       string    `db:"comment_id"`
	Symbol          string    `db:"crypto_symbol"`
	Timestamp       time.Time `db:"timestamp"`
	ConfidenceScore *float64  `db:"confidence_score"`
	RelevanceScore  *float64  `db:"relevance_score"`
	QualityScore    *float64  `db:"quality_score"`
}

// YouTubeMention is a comment joined with one of its analysis rows
type YouTubeMention struct {
	Text string `db:"text_original"`
	YouTubeCommentAnalysis
}

// Confidence is the mean of the three analysis sub-scores
func (m YouTubeMention) Confidence() float64 {
	return (deref(m.ConfidenceScore) + deref(m.RelevanceScore) + deref(m.QualityScore)) / 3
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// NormalizedRecord is the reconciled sentiment for one asset and window
type NormalizedRecord struct {
	Symbol                   string    `db:"symbol" ch:"symbol" json:"symbol"`
	Timestamp                time.Time `db:"timestamp" ch:"timestamp" json:"timestamp"`
	NormalisedUpPercentage   float64   `db:"normalised_up_percentage" ch:"normalised_up_percentage" json:"normalised_up_percentage"`
	NormalisedDownPercentage float64   `db:"normalised_down_percentage" ch:"normalised_down_percentage" json:"normalised_down_percentage"`
	AvgPositive              float64   `db:"avg_positive_sentiment" ch:"avg_positive_sentiment" json:"avg_positive_sentiment"`
	AvgNeutral               float64   `db:"avg_neutral_sentiment" ch:"avg_neutral_sentiment" json:"avg_neutral_sentiment"`
	AvgNegative              float64   `db:"avg_negative_sentiment" ch:"avg_negative_sentiment" json:"avg_negative_sentiment"`
	AvgCompound              float64   `db:"avg_compound_sentiment" ch:"avg_compound_sentiment" json:"avg_compound_sentiment"`
	PositiveCount            float64   `db:"-" ch:"positive_count" json:"positive_count"`
	NegativeCount            float64   `db:"-" ch:"negative_count" json:"negative_count"`
	NeutralCount             float64   `db:"-" ch:"neutral_count" json:"neutral_count"`
	TotalWeight              float64   `db:"-" ch:"total_weight" json:"total_weight"`
	EarliestPost             time.Time `db:"earliest_post" ch:"earliest_post" json:"earliest_post"`
}

// ScoredMention is one scored social data point, kept as time-series history
type ScoredMention struct {
	RunID      string    `ch:"run_id"`
	Symbol     string    `ch:"symbol"`
	Source     string    `ch:"source"`
	Confidence float64   `ch:"confidence"`
	Positive   float64   `ch:"positive"`
	Neutral    float64   `ch:"neutral"`
	Negative   float64   `ch:"negative"`
	Compound   float64   `ch:"compound"`
	ScoredAt   time.Time `ch:"scored_at"`
}

// CommentRecord is the unit flowing through the comment filter pipeline.
// Stages return modified copies; CryptoMentions only ever grows.
type CommentRecord struct {
	ID             string
	ThreadID       string
	Text           string
	Author         string
	PublishedAt    time.Time
	LikeCount      int
	ReplyCount     int
	BotScore       float64
	CryptoMentions []string
}
