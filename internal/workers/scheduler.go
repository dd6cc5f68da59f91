package workers

import (
	"context"
	"sync"
	"time"

	"cryptopulse/pkg/errors"
	"cryptopulse/pkg/logger"
)

// DefaultStopTimeout bounds how long Stop waits for in-flight iterations
const DefaultStopTimeout = 2 * time.Minute

// Scheduler manages and coordinates multiple workers
type Scheduler struct {
	workers     []Worker
	registry    *Registry
	stopTimeout time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.RWMutex
	log         *logger.Logger
	started     bool
}

// NewScheduler creates a new worker scheduler. When registry is not nil
// every registered worker that reports health is also tracked there.
func NewScheduler(registry *Registry) *Scheduler {
	return &Scheduler{
		workers:     make([]Worker, 0),
		registry:    registry,
		stopTimeout: DefaultStopTimeout,
		log:         logger.Get().With("component", "scheduler"),
	}
}

// SetStopTimeout overrides DefaultStopTimeout
func (s *Scheduler) SetStopTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.stopTimeout = d
	}
}

// RegisterWorker adds a worker to the scheduler
func (s *Scheduler) RegisterWorker(w Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.log.Warnw("Cannot register worker after scheduler has started", "worker", w.Name())
		return
	}

	if s.registry != nil {
		if h, ok := w.(WorkerWithHealth); ok {
			if err := s.registry.Register(h); err != nil {
				s.log.Warnw("Worker not tracked in registry", "worker", w.Name(), "error", err)
			}
		}
	}

	s.workers = append(s.workers, w)
	s.log.Infow("Worker registered", "worker", w.Name(), "interval", w.Interval(), "enabled", w.Enabled())
}

// Start begins running all registered workers
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler already started")
	}

	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.log.Infow("Starting worker scheduler", "workers", len(s.workers))

	for _, worker := range s.workers {
		if !worker.Enabled() {
			s.log.Infow("Skipping disabled worker", "worker", worker.Name())
			continue
		}

		s.wg.Add(1)
		go s.runWorker(worker)
	}

	return nil
}

// Stop cancels all workers and waits for in-flight iterations to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return errors.Wrapf(errors.ErrInternal, "scheduler not started")
	}
	s.cancel()
	timeout := s.stopTimeout
	s.mu.Unlock()

	s.log.Info("Stopping worker scheduler...")

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	var shutdownErr error
	select {
	case <-done:
		s.log.Info("All workers stopped gracefully")
	case <-time.After(timeout):
		s.log.Warnw("Worker shutdown timed out", "timeout", timeout)
		shutdownErr = errors.Wrapf(errors.ErrTimeout, "shutdown timeout after %s", timeout)
	}

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	return shutdownErr
}

// runWorker executes a single worker in a loop
func (s *Scheduler) runWorker(worker Worker) {
	defer s.wg.Done()

	ticker := time.NewTicker(worker.Interval())
	defer ticker.Stop()

	// Run immediately on start
	s.executeWorker(worker)

	for {
		select {
		case <-s.ctx.Done():
			s.log.Infow("Worker stopping due to context cancellation", "worker", worker.Name())
			return

		case <-ticker.C:
			if !worker.Enabled() {
				continue
			}
			s.executeWorker(worker)
		}
	}
}

// executeWorker runs a single iteration of the worker with error handling
func (s *Scheduler) executeWorker(worker Worker) {
	start := time.Now()
	s.trackRunning(worker.Name())

	err := RunOnce(s.ctx, worker)
	s.trackResult(worker.Name(), time.Since(start), err)

	if err != nil {
		if s.ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return
		}
		s.log.With("duration", time.Since(start)).ErrorWithContext(s.ctx,
			errors.Wrapf(err, "worker %s failed", worker.Name()),
			map[string]string{"worker": worker.Name()},
		)
		return
	}

	s.log.Debugw("Worker execution completed",
		"worker", worker.Name(),
		"duration", time.Since(start),
	)
}

func (s *Scheduler) trackRunning(name string) {
	if s.registry == nil {
		return
	}
	_ = s.registry.MarkRunning(name)
}

func (s *Scheduler) trackResult(name string, duration time.Duration, err error) {
	if s.registry == nil {
		return
	}
	if err != nil {
		_ = s.registry.RecordError(name, err)
		return
	}
	_ = s.registry.RecordRun(name, duration)
}

// GetWorkers returns a list of all registered workers
func (s *Scheduler) GetWorkers() []Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]Worker, len(s.workers))
	copy(workers, s.workers)
	return workers
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
