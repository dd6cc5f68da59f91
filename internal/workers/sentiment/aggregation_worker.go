package sentiment

import (
	"context"
	"time"

	sentimentsvc "cryptopulse/internal/services/sentiment"
	"cryptopulse/internal/workers"
	"cryptopulse/pkg/errors"
)

// Aggregator runs one aggregation cycle
type Aggregator interface {
	RunAggregation(ctx context.Context) (*sentimentsvc.RunReport, error)
}

// Locker serialises runs across instances
type Locker interface {
	Acquire(ctx context.Context, name string) (func(), error)
}

// Flusher pushes buffered rows out; used for the scored mention writer
type Flusher interface {
	Flush(ctx context.Context) error
}

// AggregationWorker runs the aggregation cycle on a schedule, at most once
// at a time across all instances
type AggregationWorker struct {
	*workers.BaseWorker
	service Aggregator
	lock    Locker
	flusher Flusher
}

// NewAggregationWorker creates the aggregation worker. lock and flusher may be nil.
func NewAggregationWorker(service Aggregator, lock Locker, flusher Flusher, interval time.Duration, enabled bool) *AggregationWorker {
	return &AggregationWorker{
		BaseWorker: workers.NewBaseWorker(AggregationWorkerName, interval, enabled),
		service:    service,
		lock:       lock,
		flusher:    flusher,
	}
}

// Run executes one aggregation cycle
func (aw *AggregationWorker) Run(ctx context.Context) error {
	if aw.lock != nil {
		release, err := aw.lock.Acquire(ctx, aw.Name())
		if errors.Is(err, errors.ErrLockNotAcquired) {
			aw.Log().Info("Aggregation already running on another instance, skipping")
			return nil
		}
		if err != nil {
			return err
		}
		defer release()
	}

	report, err := aw.service.RunAggregation(ctx)
	if err != nil {
		return err
	}

	if report.Partial() {
		aw.Log().Warnw("Aggregation completed with skipped inputs",
			"run_id", report.RunID.String(),
			"errors", report.Errors.Error(),
		)
	}

	if aw.flusher != nil {
		if err := aw.flusher.Flush(ctx); err != nil {
			aw.Log().Warnw("Failed to flush scored mentions", "error", err)
		}
	}
	return nil
}
