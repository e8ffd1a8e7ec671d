package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bandipurcablecar/website-sub001/internal/health"
	"github.com/bandipurcablecar/website-sub001/internal/platform/httpx"
)

// ReadinessReporter collects dependency health for /readyz.
type ReadinessReporter interface {
	Collect(ctx context.Context) health.Report
}

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	readiness ReadinessReporter
	now       func() time.Time
	started   time.Time
}

// HealthOption customises HealthHandlers.
type HealthOption func(*HealthHandlers)

// WithReadiness sets the reporter consulted by /readyz.
func WithReadiness(r ReadinessReporter) HealthOption {
	return func(h *HealthHandlers) {
		h.readiness = r
	}
}

// WithHealthClock overrides the clock, primarily for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.now = clock
		}
	}
}

// NewHealthHandlers constructs probe handlers.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.started = h.now()
	return h
}

// Healthz reports liveness without touching dependencies.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    health.StatusOK,
		"uptime":    now.Sub(h.started).Truncate(time.Second).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

// Readyz probes dependencies. Only a failing probe answers 503; a degraded
// content store still leaves the static site servable.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.readiness == nil {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    health.StatusOK,
			"timestamp": h.now().UTC().Format(time.RFC3339),
		})
		return
	}
	report := h.readiness.Collect(r.Context())
	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, report)
}
