package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"cryptopulse/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	ClickHouse    ClickHouseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	ErrorTracking ErrorTrackingConfig
	Trace         TraceConfig
	Sentiment     SentimentConfig
	Sources       SourcesConfig
	Workers       WorkerConfig
}

// AppConfig contains general application settings
type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"cryptopulse"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

// HTTPConfig contains the health/metrics server settings
type HTTPConfig struct {
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

// DSN returns PostgreSQL connection string
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ClickHouseConfig contains ClickHouse connection settings.
// An empty host disables the time series store.
type ClickHouseConfig struct {
	Host     string `envconfig:"CLICKHOUSE_HOST"`
	Port     int    `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	User     string `envconfig:"CLICKHOUSE_USER" default:"default"`
	Password string `envconfig:"CLICKHOUSE_PASSWORD"`
	Database string `envconfig:"CLICKHOUSE_DB" default:"cryptopulse"`
}

// Enabled reports whether ClickHouse is configured
func (c ClickHouseConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" required:"true"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`

	AssetCacheTTL time.Duration `envconfig:"REDIS_ASSET_CACHE_TTL" default:"10m"`
	LockTTL       time.Duration `envconfig:"REDIS_LOCK_TTL" default:"30m"`
}

// Addr returns Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig contains Kafka settings. No brokers disables publishing.
type KafkaConfig struct {
	Brokers  []string `envconfig:"KAFKA_BROKERS"`
	ClientID string   `envconfig:"KAFKA_CLIENT_ID" default:"cryptopulse"`
}

// ErrorTrackingConfig contains error tracking settings
type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	Provider    string `envconfig:"ERROR_TRACKING_PROVIDER" default:"sentry"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// TraceConfig contains OpenTelemetry settings
type TraceConfig struct {
	Enabled     bool `envconfig:"TRACE_ENABLED" default:"false"`
	PrettyPrint bool `envconfig:"TRACE_PRETTY_PRINT" default:"false"`
}

// SentimentConfig tunes ingestion and aggregation
type SentimentConfig struct {
	LookbackDays     int `envconfig:"SENTIMENT_LOOKBACK_DAYS" default:"7"`
	AggregationTopN  int `envconfig:"SENTIMENT_AGGREGATION_TOP_N" default:"150"`
	YouTubeRanking   int `envconfig:"SENTIMENT_YOUTUBE_RANKING" default:"50"`
	IngestionRanking int `envconfig:"SENTIMENT_INGESTION_RANKING" default:"50"`

	Subreddits        []string `envconfig:"SENTIMENT_SUBREDDITS" default:"CryptoCurrency"`
	RedditTimeRange   string   `envconfig:"SENTIMENT_REDDIT_TIME_RANGE" default:"day"`
	RedditSubmissions int      `envconfig:"SENTIMENT_REDDIT_SUBMISSIONS" default:"10"`
	RedditComments    int      `envconfig:"SENTIMENT_REDDIT_COMMENTS" default:"20"`
	RedditMaxWorkers  int      `envconfig:"SENTIMENT_REDDIT_MAX_WORKERS" default:"10"`

	YouTubeQuery            string        `envconfig:"SENTIMENT_YOUTUBE_QUERY" default:"crypto news"`
	YouTubeVideos           int           `envconfig:"SENTIMENT_YOUTUBE_VIDEOS" default:"50"`
	YouTubeLookback         time.Duration `envconfig:"SENTIMENT_YOUTUBE_LOOKBACK" default:"48h"`
	YouTubeCommentsPerVideo int           `envconfig:"SENTIMENT_YOUTUBE_COMMENTS_PER_VIDEO" default:"100"`

	RSSFeeds []string `envconfig:"SENTIMENT_RSS_FEEDS" default:"https://www.coindesk.com/arc/outboundfeeds/rss/,https://cointelegraph.com/rss"`

	Languages      []string `envconfig:"SENTIMENT_LANGUAGES" default:"en,fr,de,es,it,pt,nl,ru"`
	TargetLanguage string   `envconfig:"SENTIMENT_TARGET_LANGUAGE" default:"en"`
}

// Lookback returns the aggregation window length
func (c SentimentConfig) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// SourcesConfig contains upstream API credentials and limits
type SourcesConfig struct {
	RedditClientID     string `envconfig:"REDDIT_CLIENT_ID"`
	RedditClientSecret string `envconfig:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent    string `envconfig:"REDDIT_USER_AGENT" default:"cryptopulse/1.0"`
	RedditRPM          int    `envconfig:"REDDIT_RPM" default:"60"`

	YouTubeAPIKey string `envconfig:"YOUTUBE_API_KEY"`
	YouTubeRPM    int    `envconfig:"YOUTUBE_RPM" default:"120"`

	NewsAPIKey string `envconfig:"NEWSAPI_KEY"`
	NewsRPM    int    `envconfig:"NEWSAPI_RPM" default:"30"`

	CoingeckoAPIKey string `envconfig:"COINGECKO_API_KEY"`
	CoingeckoRPM    int    `envconfig:"COINGECKO_RPM" default:"25"`

	HTTPTimeout time.Duration `envconfig:"SOURCES_HTTP_TIMEOUT" default:"20s"`
	MaxRetries  int           `envconfig:"SOURCES_MAX_RETRIES" default:"3"`
}

// WorkerConfig contains intervals and switches for background workers
type WorkerConfig struct {
	RedditInterval      time.Duration `envconfig:"WORKER_REDDIT_INTERVAL" default:"1h"`
	YouTubeInterval     time.Duration `envconfig:"WORKER_YOUTUBE_INTERVAL" default:"6h"`
	NewsInterval        time.Duration `envconfig:"WORKER_NEWS_INTERVAL" default:"30m"`
	CoingeckoInterval   time.Duration `envconfig:"WORKER_COINGECKO_INTERVAL" default:"1h"`
	AggregationInterval time.Duration `envconfig:"WORKER_AGGREGATION_INTERVAL" default:"1h"`

	RedditEnabled      bool `envconfig:"WORKER_REDDIT_ENABLED" default:"true"`
	YouTubeEnabled     bool `envconfig:"WORKER_YOUTUBE_ENABLED" default:"true"`
	NewsEnabled        bool `envconfig:"WORKER_NEWS_ENABLED" default:"true"`
	CoingeckoEnabled   bool `envconfig:"WORKER_COINGECKO_ENABLED" default:"true"`
	AggregationEnabled bool `envconfig:"WORKER_AGGREGATION_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if cfg.Sentiment.LookbackDays <= 0 {
		return nil, errors.NewValidationError("SENTIMENT_LOOKBACK_DAYS", "must be positive", cfg.Sentiment.LookbackDays)
	}

	return &cfg, nil
}
