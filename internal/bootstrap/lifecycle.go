package bootstrap

import (
	"context"
	"sync"
	"time"

	chclient "cryptopulse/internal/adapters/clickhouse"
	"cryptopulse/internal/adapters/kafka"
	pgclient "cryptopulse/internal/adapters/postgres"
	redisclient "cryptopulse/internal/adapters/redis"
	"cryptopulse/internal/api"
	"cryptopulse/internal/domain/sentiment"
	"cryptopulse/internal/workers"
	chbatch "cryptopulse/pkg/clickhouse"
	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
	"cryptopulse/pkg/trace"
)

// Lifecycle manages graceful startup and shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 150 * time.Second, // covers the scheduler's 2m stop timeout
	}
}

// Shutdown performs coordinated cleanup. Order matters:
// 1. No new probe traffic
// 2. Workers finish their current run
// 3. Buffered mentions are flushed while ClickHouse is still open
// 4. Producer closes after the last publisher call
// 5. Databases close last
// httpServer and scheduler may be nil for one-shot commands.
func (l *Lifecycle) Shutdown(
	wg *sync.WaitGroup,
	httpServer *api.Server,
	scheduler *workers.Scheduler,
	mentionWriter *chbatch.BatchWriter[sentiment.ScoredMention],
	kafkaProducer *kafka.Producer,
	pgClient *pgclient.Client,
	chClient *chclient.Client,
	redisClient *redisclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	log.Info("[1/8] Stopping HTTP server...")
	if httpServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		if err := httpServer.Shutdown(httpCtx); err != nil {
			log.Errorw("HTTP server shutdown failed", "error", err)
		}
		httpCancel()
	}

	log.Info("[2/8] Stopping background workers...")
	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Errorw("Workers shutdown failed", "error", err)
		} else {
			log.Info("✓ Workers stopped")
		}
	}

	log.Info("[3/8] Waiting for goroutines...")
	l.waitForGoroutines(wg, 5*time.Second, log)

	log.Info("[4/8] Flushing scored mentions...")
	if mentionWriter != nil {
		if err := mentionWriter.Stop(shutdownCtx); err != nil {
			log.Errorw("Mention writer stop failed", "error", err)
		} else {
			log.Info("✓ Mention writer flushed")
		}
	}

	log.Info("[5/8] Closing Kafka producer...")
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Errorw("Kafka producer close failed", "error", err)
		} else {
			log.Info("✓ Kafka producer closed")
		}
	}

	log.Info("[6/8] Flushing error tracker and traces...")
	l.flushErrorTracker(shutdownCtx, errorTracker, log)
	if err := trace.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Trace exporter shutdown failed", "error", err)
	}

	log.Info("[7/8] Syncing logs...")
	_ = logger.Sync()

	// LAST - other components may need them during shutdown
	log.Info("[8/8] Closing database connections...")
	l.closeDatabases(pgClient, chClient, redisClient, log)

	log.Info("✅ Graceful shutdown complete")
}

// waitForGoroutines waits for all goroutines with a timeout
func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("✓ All goroutines finished")
	case <-time.After(timeout):
		log.Warnw("⚠ Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

// flushErrorTracker flushes the error tracker (Sentry, etc.)
func (l *Lifecycle) flushErrorTracker(ctx context.Context, tracker errors.Tracker, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Errorw("Error tracker flush failed", "error", err)
	}
}

// closeDatabases closes all database connections
func (l *Lifecycle) closeDatabases(
	pgClient *pgclient.Client,
	chClient *chclient.Client,
	redisClient *redisclient.Client,
	log *logger.Logger,
) {
	dbErrors := &errors.MultiError{}

	if pgClient != nil {
		if err := pgClient.Close(); err != nil {
			dbErrors.Add(errors.Wrap(err, "postgres"))
		}
	}

	if chClient != nil {
		if err := chClient.Close(); err != nil {
			dbErrors.Add(errors.Wrap(err, "clickhouse"))
		}
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			dbErrors.Add(errors.Wrap(err, "redis"))
		}
	}

	if dbErrors.HasErrors() {
		log.Errorw("Database close errors", "errors", dbErrors.Error())
	} else {
		log.Info("✓ Database connections closed")
	}
}
