package bootstrap

import (
	"context"
	"sync"

	chclient "cryptopulse/internal/adapters/clickhouse"
	"cryptopulse/internal/adapters/coingecko"
	"cryptopulse/internal/adapters/config"
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
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure Layer (Data stores). CH is nil when ClickHouse is not configured.
	PG    *pgclient.Client
	CH    *chclient.Client
	Redis *redisclient.Client

	Repos      *Repositories
	Adapters   *Adapters
	Services   *Services
	Background *Background

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Repositories groups all repositories
type Repositories struct {
	Assets    sentiment.AssetRepository // redis cached
	RawAssets *pgrepo.AssetRepository
	Baselines *pgrepo.BaselineRepository
	Social    *pgrepo.SocialRepository
	Aggregate *pgrepo.AggregateRepository
	History   *chrepo.SentimentRepository // nil without ClickHouse
	RunLock   *redisrepo.RunLock
}

// Adapters groups all external adapters
type Adapters struct {
	KafkaProducer *kafka.Producer // nil without brokers
	Publisher     *events.Publisher

	Reddit    *reddit.Client
	YouTube   *youtube.Client
	NewsAPI   *newsapi.Client
	RSS       *rss.Reader
	Coingecko *coingecko.Client
}

// Services groups all domain services
type Services struct {
	Sentiment     *sentimentsvc.Service
	Filter        *filter.Pipeline
	Profile       *profile.Service
	MentionWriter *chbatch.BatchWriter[sentiment.ScoredMention] // nil without ClickHouse
}

// Application groups application layer components
type Application struct {
	HTTPServer    *api.Server
	HealthHandler *health.Handler
}

// Background groups all background processing components
type Background struct {
	WorkerRegistry  *workers.Registry
	WorkerScheduler *workers.Scheduler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Repos:       &Repositories{},
		Adapters:    &Adapters{},
		Services:    &Services{},
		Background:  &Background{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitBackground()
	c.MustInitApplication()
}

// MustInitCommand initializes everything a one-shot command needs: stores,
// clients, services and workers, but no HTTP server
func (c *Container) MustInitCommand() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitBackground()
}

// Start starts the HTTP server, the mention writer and the worker scheduler
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	if c.Services.MentionWriter != nil {
		c.Services.MentionWriter.Start(c.Context)
	}

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel() // Trigger shutdown on fatal HTTP error
		}
	}()

	if err := c.Background.WorkerScheduler.Start(c.Context); err != nil {
		return errors.Wrap(err, "failed to start workers")
	}

	c.Log.Infow("✓ All systems operational", "workers", c.Background.WorkerRegistry.ListNames())
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	// Cancel application context to signal all other components to stop
	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Background.WorkerScheduler,
		c.Services.MentionWriter,
		c.Adapters.KafkaProducer,
		c.PG,
		c.CH,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}

// Close releases what a one-shot command opened; workers and the HTTP server
// are never started in that mode
func (c *Container) Close() {
	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		nil,
		nil,
		c.Services.MentionWriter,
		c.Adapters.KafkaProducer,
		c.PG,
		c.CH,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}
