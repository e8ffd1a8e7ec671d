// Package health probes the site's dependencies for the readiness endpoint.
package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 1500 * time.Millisecond

// Status values reported per check and for the whole report.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusError    = "error"
)

// Check describes one dependency probe.
type Check struct {
	Name    string
	Timeout time.Duration
	Probe   func(context.Context) error
}

// Result is the outcome of one probe.
type Result struct {
	Status    string        `json:"status"`
	Detail    string        `json:"detail,omitempty"`
	Latency   time.Duration `json:"latencyNs"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// Report aggregates every probe.
type Report struct {
	Status      string            `json:"status"`
	Checks      map[string]Result `json:"checks"`
	Environment string            `json:"environment,omitempty"`
	Uptime      string            `json:"uptime"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// Healthy reports whether the site can serve traffic. A degraded content
// store still lets the site serve the static menu, so only StatusError fails.
func (r Report) Healthy() bool {
	return r.Status != StatusError
}

// Option customises a Checker.
type Option func(*Checker)

// WithTimeout overrides the timeout applied when a check omits its own.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithClock injects a clock, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Checker) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithEnvironment labels reports with the deployment environment.
func WithEnvironment(env string) Option {
	return func(c *Checker) {
		c.environment = strings.TrimSpace(env)
	}
}

// Checker runs the configured probes concurrently.
type Checker struct {
	checks      []Check
	timeout     time.Duration
	now         func() time.Time
	started     time.Time
	environment string
}

// NewChecker validates checks and constructs a Checker. A Checker without
// checks always reports ok.
func NewChecker(checks []Check, opts ...Option) (*Checker, error) {
	for _, check := range checks {
		if strings.TrimSpace(check.Name) == "" {
			return nil, errors.New("health: check missing name")
		}
		if check.Probe == nil {
			return nil, fmt.Errorf("health: check %s missing probe", check.Name)
		}
	}
	c := &Checker{
		checks:  append([]Check(nil), checks...),
		timeout: defaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.started = c.now()
	return c, nil
}

// Collect runs every probe and returns the aggregated report.
func (c *Checker) Collect(ctx context.Context) Report {
	results := make(map[string]Result, len(c.checks))
	var mu sync.Mutex

	var g errgroup.Group
	for _, check := range c.checks {
		g.Go(func() error {
			result := c.run(ctx, check)
			mu.Lock()
			results[check.Name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := StatusOK
	for _, result := range results {
		if result.Status == StatusError {
			status = StatusError
			break
		}
		if result.Status == StatusDegraded {
			status = StatusDegraded
		}
	}

	now := c.now()
	return Report{
		Status:      status,
		Checks:      results,
		Environment: c.environment,
		Uptime:      now.Sub(c.started).Truncate(time.Second).String(),
		GeneratedAt: now,
	}
}

func (c *Checker) run(ctx context.Context, check Check) Result {
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := c.now()
	err := check.Probe(checkCtx)
	end := c.now()

	result := Result{Status: StatusOK, Latency: end.Sub(start), CheckedAt: end}
	switch {
	case err == nil && checkCtx.Err() != nil:
		result.Status = StatusError
		result.Detail = checkCtx.Err().Error()
	case err == nil:
	case errors.Is(err, context.Canceled):
		result.Status = StatusError
		result.Detail = "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		result.Status = StatusError
		result.Detail = "timeout"
	default:
		result.Status = StatusDegraded
		result.Detail = err.Error()
	}
	return result
}
