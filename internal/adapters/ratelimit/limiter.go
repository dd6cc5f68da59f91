package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"cryptopulse/pkg/errors"
)

// Limiter throttles calls to one upstream API
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a new rate limiter
// requestsPerMinute: maximum number of requests allowed per minute; <= 0 disables limiting
func NewLimiter(name string, requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1), name: name}
	}

	rps := float64(requestsPerMinute) / 60.0

	// Allow burst of 10% of per-minute limit
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Name returns the limiter name
func (l *Limiter) Name() string {
	return l.name
}

// Wait blocks until the rate limiter allows the request
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(err, "rate limiter %s", l.name)
	}
	return nil
}

// Allow checks if a request is allowed without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Registry hands out one limiter per upstream source
type Registry struct {
	limiters map[string]*Limiter
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		limiters: make(map[string]*Limiter),
	}
}

// Register adds or replaces the limiter for a source
func (r *Registry) Register(source string, requestsPerMinute int) *Limiter {
	l := NewLimiter(source, requestsPerMinute)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiters[source] = l
	return l
}

// Get returns the limiter for source or an unlimited one if none is registered
func (r *Registry) Get(source string) *Limiter {
	r.mu.RLock()
	l, ok := r.limiters[source]
	r.mu.RUnlock()
	if ok {
		return l
	}
	return r.Register(source, 0)
}
