package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"cryptopulse/pkg/logger"
)

// Checker pings one backing store
type Checker interface {
	Health(ctx context.Context) error
}

// WorkerStatus reports workers that stopped running on schedule
type WorkerStatus interface {
	GetUnhealthyWorkers(maxAge time.Duration) []string
}

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	checks      map[string]Checker
	required    map[string]bool
	workers     WorkerStatus
	staleAfter  time.Duration
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler
func New(log *logger.Logger, serviceName, version string) *Handler {
	return &Handler{
		log:         log,
		checks:      make(map[string]Checker),
		required:    make(map[string]bool),
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// AddCheck registers a dependency. Required checks gate readiness; the others
// only degrade /health.
func (h *Handler) AddCheck(name string, c Checker, required bool) *Handler {
	h.checks[name] = c
	h.required[name] = required
	return h
}

// WithWorkers makes /health report workers that have not finished a run
// within staleAfter
func (h *Handler) WithWorkers(ws WorkerStatus, staleAfter time.Duration) *Handler {
	h.workers = ws
	h.staleAfter = staleAfter
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Service      string                     `json:"service"`
	Version      string                     `json:"version"`
	Uptime       string                     `json:"uptime"`
	Timestamp    string                     `json:"timestamp"`
	Checks       map[string]ComponentHealth `json:"checks"`
	StaleWorkers []string                   `json:"stale_workers,omitempty"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if service is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness fails when any required dependency is down
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runChecks(ctx)
	status := h.newStatus(checks)

	statusCode := http.StatusOK
	for name, c := range checks {
		if h.required[name] && c.Status != "healthy" {
			status.Status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}
	}
	if statusCode != http.StatusOK {
		h.log.Warnw("Readiness check failed", "checks", checks)
	}

	writeJSON(w, statusCode, status)
}

// HandleHealth returns detailed health status including stale workers
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks := h.runChecks(ctx)
	status := h.newStatus(checks)

	healthyCount := 0
	for _, c := range checks {
		if c.Status == "healthy" {
			healthyCount++
		}
	}

	if h.workers != nil && h.staleAfter > 0 {
		status.StaleWorkers = h.workers.GetUnhealthyWorkers(h.staleAfter)
	}

	statusCode := http.StatusOK
	switch {
	case len(checks) > 0 && healthyCount == 0:
		status.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	case healthyCount < len(checks) || len(status.StaleWorkers) > 0:
		status.Status = "degraded"
	}

	writeJSON(w, statusCode, status)
}

func (h *Handler) newStatus(checks map[string]ComponentHealth) HealthStatus {
	return HealthStatus{
		Status:    "healthy",
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
}

func (h *Handler) runChecks(ctx context.Context) map[string]ComponentHealth {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]ComponentHealth, len(names))
	for _, name := range names {
		results[name] = h.check(ctx, name, h.checks[name])
	}
	return results
}

func (h *Handler) check(ctx context.Context, name string, c Checker) ComponentHealth {
	start := time.Now()
	err := c.Health(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Health check failed", "component", name, "error", err, "elapsed", elapsed)
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: elapsed.String(),
			Error:        err.Error(),
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: elapsed.String(),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
