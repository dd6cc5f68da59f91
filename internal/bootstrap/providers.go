package bootstrap

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	chclient "cryptopulse/internal/adapters/clickhouse"
	"cryptopulse/internal/adapters/coingecko"
	"cryptopulse/internal/adapters/config"
	errnoop "cryptopulse/internal/adapters/errors/noop"
	"cryptopulse/internal/adapters/errors/sentry"
	"cryptopulse/internal/adapters/kafka"
	"cryptopulse/internal/adapters/newsapi"
	pgclient "cryptopulse/internal/adapters/postgres"
	"cryptopulse/internal/adapters/reddit"
	redisclient "cryptopulse/internal/adapters/redis"
	"cryptopulse/internal/adapters/rss"
	"cryptopulse/internal/adapters/youtube"
	"cryptopulse/internal/api"
	"cryptopulse/internal/api/health"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/events"
	"cryptopulse/internal/metrics"
	chrepo "cryptopulse/internal/repository/clickhouse"
	pgrepo "cryptopulse/internal/repository/postgres"
	redisrepo "cryptopulse/internal/repository/redis"
	"cryptopulse/internal/services/profile"
	sentimentsvc "cryptopulse/internal/services/sentiment"
	"cryptopulse/internal/services/sentiment/filter"
	"cryptopulse/internal/workers"
	chbatch "cryptopulse/pkg/clickhouse"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
	"cryptopulse/pkg/trace"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger, error tracking and tracing
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)

	if err := trace.Init(trace.Config{
		Enabled:     cfg.Trace.Enabled,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
		PrettyPrint: cfg.Trace.PrettyPrint,
	}); err != nil {
		c.Log.Warnf("Failed to initialize tracing: %v", err)
	}

	metrics.Init()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects data stores and applies schemas
func (c *Container) MustInitInfrastructure() {
	var err error
	ctx := c.Context

	c.Log.Info("Connecting to PostgreSQL...")
	c.PG, err = pgclient.NewClient(ctx, c.Config.Postgres)
	if err != nil {
		c.Log.Fatalf("failed to connect postgres: %v", err)
	}
	if err := c.PG.Migrate(ctx, pgrepo.Schema); err != nil {
		c.Log.Fatalf("failed to apply postgres schema: %v", err)
	}
	c.Log.Info("✓ PostgreSQL connected")

	if c.Config.ClickHouse.Enabled() {
		c.Log.Info("Connecting to ClickHouse...")
		c.CH, err = chclient.NewClient(ctx, c.Config.ClickHouse)
		if err != nil {
			c.Log.Fatalf("failed to connect clickhouse: %v", err)
		}
		c.Log.Info("✓ ClickHouse connected")
	} else {
		c.Log.Info("ClickHouse not configured, history and scored mentions disabled")
	}

	c.Log.Info("Connecting to Redis...")
	c.Redis, err = redisclient.NewClient(ctx, c.Config.Redis)
	if err != nil {
		c.Log.Fatalf("failed to connect redis: %v", err)
	}
	c.Log.Info("✓ Redis connected")
}

// ========================================
// Phase 3: Repositories
// ========================================

// MustInitRepositories initializes all repositories
func (c *Container) MustInitRepositories() {
	db := c.PG.DB()

	c.Repos.RawAssets = pgrepo.NewAssetRepository(db)
	c.Repos.Assets, c.Repos.RunLock = provideRedisRepositories(c.Repos.RawAssets, c.Redis, c.Config.Redis)
	c.Repos.Baselines = pgrepo.NewBaselineRepository(db)
	c.Repos.Social = pgrepo.NewSocialRepository(db)
	c.Repos.Aggregate = pgrepo.NewAggregateRepository(db)

	if c.CH != nil {
		c.Repos.History = chrepo.NewSentimentRepository(c.CH.Conn())
		if err := c.CH.EnsureTables(c.Context, c.Repos.History.Schema()...); err != nil {
			c.Log.Fatalf("failed to create clickhouse tables: %v", err)
		}
	}

	metrics.RegisterStoreCollector(metrics.NewStoreCollector(c.Log, db, clickhouseConn(c.CH)))

	c.Log.Info("✓ Repositories initialized")
}

// ========================================
// Phase 4: External Adapters
// ========================================

// MustInitAdapters initializes Kafka and the upstream source clients
func (c *Container) MustInitAdapters() {
	c.Adapters.KafkaProducer = provideKafkaProducer(c.Config, c.Log)
	if c.Adapters.KafkaProducer != nil {
		c.Adapters.Publisher = events.NewPublisher(c.Adapters.KafkaProducer, c.Config.App.Name, c.Log)
	}

	src := c.Config.Sources

	c.Adapters.Reddit = reddit.NewClient(reddit.Config{
		ClientID:          src.RedditClientID,
		ClientSecret:      src.RedditClientSecret,
		UserAgent:         src.RedditUserAgent,
		RequestsPerMinute: src.RedditRPM,
		MaxRetries:        src.MaxRetries,
		Timeout:           src.HTTPTimeout,
	})

	c.Adapters.YouTube = youtube.NewClient(youtube.Config{
		APIKey:            src.YouTubeAPIKey,
		RequestsPerMinute: src.YouTubeRPM,
		MaxRetries:        src.MaxRetries,
		Timeout:           src.HTTPTimeout,
	})

	c.Adapters.NewsAPI = newsapi.NewClient(newsapi.Config{
		APIKey:            src.NewsAPIKey,
		RequestsPerMinute: src.NewsRPM,
		MaxRetries:        src.MaxRetries,
		Timeout:           src.HTTPTimeout,
	})

	c.Adapters.RSS = rss.NewReader(c.Config.Sentiment.RSSFeeds, src.HTTPTimeout, src.NewsRPM)

	c.Adapters.Coingecko = coingecko.NewClient(coingecko.Config{
		APIKey:            src.CoingeckoAPIKey,
		RequestsPerMinute: src.CoingeckoRPM,
		MaxRetries:        src.MaxRetries,
		Timeout:           src.HTTPTimeout,
	})

	c.Log.Info("✓ Adapters initialized")
}

// ========================================
// Phase 5: Services
// ========================================

// MustInitServices builds the filter pipeline, the aggregation service and the profile evaluator
func (c *Container) MustInitServices() {
	sc := c.Config.Sentiment

	detector, err := filter.NewLinguaDetector(sc.Languages...)
	if err != nil {
		c.Log.Fatalf("failed to build language detector: %v", err)
	}
	c.Services.Filter = filter.NewPipeline(detector, sc.TargetLanguage, c.Repos.Assets, c.Log)

	deps := sentimentsvc.Deps{
		Baselines: c.Repos.Baselines,
		Social:    c.Repos.Social,
		Output:    c.Repos.Aggregate,
	}
	// optional sinks stay nil interfaces when their backend is off
	if c.Repos.History != nil {
		c.Services.MentionWriter = provideMentionWriter(c.Repos.History, c.Log)
		deps.History = c.Repos.History
		deps.Mentions = c.Services.MentionWriter
	}
	if c.Adapters.Publisher != nil {
		deps.Publisher = c.Adapters.Publisher
	}

	c.Services.Sentiment = sentimentsvc.NewService(deps, sentimentsvc.Config{
		Lookback: sc.Lookback(),
		TopN:     sc.AggregationTopN,
	}, c.Log)

	scoring, err := profile.DefaultScoringMap()
	if err != nil {
		c.Log.Fatalf("failed to load profile scoring map: %v", err)
	}
	c.Services.Profile = profile.NewService(scoring, c.Log)

	c.Log.Info("✓ Services initialized")
}

// ========================================
// Phase 6: Background Processing
// ========================================

// MustInitBackground registers all workers with the scheduler
func (c *Container) MustInitBackground() {
	c.Background.WorkerRegistry = workers.NewRegistry()
	c.Background.WorkerScheduler = provideWorkers(c, c.Background.WorkerRegistry)

	c.Log.Infow("✓ Background processing initialized", "workers", c.Background.WorkerRegistry.Count())
}

// ========================================
// Phase 7: Application Layer
// ========================================

// MustInitApplication builds the health handler and the HTTP server
func (c *Container) MustInitApplication() {
	h := health.New(c.Log, c.Config.App.Name, c.Config.App.Version).
		AddCheck("postgres", c.PG, true).
		AddCheck("redis", c.Redis, true).
		WithWorkers(c.Background.WorkerRegistry, workerStaleAfter(c.Config.Workers))
	if c.CH != nil {
		h.AddCheck("clickhouse", c.CH, false)
	}
	c.Application.HealthHandler = h

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Port:        c.Config.HTTP.Port,
		ServiceName: c.Config.App.Name,
		Version:     c.Config.App.Version,
		Workers:     c.Background.WorkerRegistry,
	}, h, c.Log)
}

// ========================================
// Helper Provider Functions
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("✓ Error tracking initialized (Sentry)")
	return tracker
}

// provideKafkaProducer returns nil when no brokers are configured
func provideKafkaProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("Kafka brokers not configured, event publishing disabled")
		return nil
	}

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
	})
	log.Infow("✓ Kafka producer initialized", "brokers", cfg.Kafka.Brokers)
	return producer
}

// provideRedisRepositories puts the asset cache in front of the primary store
// and builds the run lock on the same client
func provideRedisRepositories(assets sentiment.AssetRepository, client *redisclient.Client, cfg config.RedisConfig) (*redisrepo.CachedAssetRepository, *redisrepo.RunLock) {
	return redisrepo.NewCachedAssetRepository(assets, client, cfg.AssetCacheTTL),
		redisrepo.NewRunLock(client, cfg.LockTTL)
}

func provideMentionWriter(repo *chrepo.SentimentRepository, log *logger.Logger) *chbatch.BatchWriter[sentiment.ScoredMention] {
	return chbatch.NewBatchWriter(chbatch.BatchWriterConfig[sentiment.ScoredMention]{
		FlushFunc:    repo.InsertScoredMentions,
		TableName:    "scored_mentions",
		MaxBatchSize: 1000,
		MaxAge:       10 * time.Second,
		Logger:       log,
	})
}

func clickhouseConn(ch *chclient.Client) driver.Conn {
	if ch == nil {
		return nil
	}
	return ch.Conn()
}

// workerStaleAfter flags a worker after it missed two runs of the slowest schedule
func workerStaleAfter(cfg config.WorkerConfig) time.Duration {
	longest := max(
		cfg.RedditInterval,
		cfg.YouTubeInterval,
		cfg.NewsInterval,
		cfg.CoingeckoInterval,
		cfg.AggregationInterval,
	)
	return 2 * longest
}
