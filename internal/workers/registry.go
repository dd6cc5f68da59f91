package workers

import (
	"sort"
	"sync"
	"time"

	"cryptopulse/pkg/errors"
)

// errorRateThreshold marks a worker unhealthy once it has run minRunsForRate
// times and more than this share of runs failed
const (
	errorRateThreshold = 0.5
	minRunsForRate     = 10
)

// Status is a point-in-time view of one registered worker
type Status struct {
	Name      string        `json:"name"`
	Interval  time.Duration `json:"interval"`
	LastError string        `json:"last_error,omitempty"`
	WorkerHealth
}

type entry struct {
	worker       WorkerWithHealth
	health       WorkerHealth
	registeredAt time.Time
}

// Registry tracks workers and their run history for the ops endpoints and the CLI
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry creates a new worker registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Register adds a worker; names must be unique
func (r *Registry) Register(w WorkerWithHealth) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := w.Name()
	if _, exists := r.entries[name]; exists {
		return errors.Wrapf(errors.ErrAlreadyExists, "worker %s already registered", name)
	}

	r.entries[name] = &entry{
		worker:       w,
		health:       WorkerHealth{Enabled: w.Enabled()},
		registeredAt: r.now(),
	}
	return nil
}

// Get returns a worker by name
func (r *Registry) Get(name string) (WorkerWithHealth, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.worker, true
}

// ListNames returns the sorted names of all registered workers
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames()
}

func (r *Registry) sortedNames() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnableWorker switches a worker on or off; the scheduler skips disabled workers on the next tick
func (r *Registry) EnableWorker(name string, enabled bool) error {
	return r.update(name, func(e *entry) {
		e.worker.SetEnabled(enabled)
		e.health.Enabled = enabled
	})
}

func (r *Registry) update(name string, fn func(*entry)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[name]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "worker %s not found", name)
	}

	fn(e)
	return nil
}

// Snapshot returns the status of every worker ordered by name
func (r *Registry) Snapshot() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Status, 0, len(r.entries))
	for _, name := range r.sortedNames() {
		e := r.entries[name]
		s := Status{
			Name:         name,
			Interval:     e.worker.Interval(),
			WorkerHealth: e.health,
		}
		if e.health.LastError != nil {
			s.LastError = e.health.LastError.Error()
		}
		out = append(out, s)
	}
	return out
}

// RecordRun records a successful run
func (r *Registry) RecordRun(name string, duration time.Duration) error {
	return r.update(name, func(e *entry) {
		h := &e.health
		h.LastRun = r.now()
		h.LastError = nil
		h.RunCount++
		h.IsRunning = false

		// 80% old, 20% new
		if h.AvgDuration == 0 {
			h.AvgDuration = duration
		} else {
			h.AvgDuration = time.Duration(float64(h.AvgDuration)*0.8 + float64(duration)*0.2)
		}
	})
}

// RecordError records a failed run
func (r *Registry) RecordError(name string, err error) error {
	return r.update(name, func(e *entry) {
		h := &e.health
		h.LastRun = r.now()
		h.LastError = err
		h.RunCount++
		h.ErrorCount++
		h.IsRunning = false
	})
}

// MarkRunning marks a worker as currently running
func (r *Registry) MarkRunning(name string) error {
	return r.update(name, func(e *entry) {
		e.health.IsRunning = true
	})
}

// GetUnhealthyWorkers returns enabled workers that have not finished a run
// within maxAge (counted from registration if they never ran) or that fail
// more than half of their runs
func (r *Registry) GetUnhealthyWorkers(maxAge time.Duration) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	var unhealthy []string

	for _, name := range r.sortedNames() {
		e := r.entries[name]
		h := e.health
		if !h.Enabled {
			continue
		}

		last := h.LastRun
		if last.IsZero() {
			last = e.registeredAt
		}
		if now.Sub(last) > maxAge {
			unhealthy = append(unhealthy, name)
			continue
		}

		if h.RunCount >= minRunsForRate && float64(h.ErrorCount)/float64(h.RunCount) > errorRateThreshold {
			unhealthy = append(unhealthy, name)
		}
	}

	return unhealthy
}

// Count returns the number of registered workers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
