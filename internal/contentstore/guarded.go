package contentstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/failsafe-go/failsafe-go/timeout"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
)

const (
	metricNamespace    = "github.com/bandipurcablecar/website-sub001/internal/contentstore"
	defaultReadTimeout = 3 * time.Second
	defaultRetryDelay  = 100 * time.Millisecond
	defaultRetries     = 1
)

var tracer = otel.Tracer(metricNamespace)

// Guarded decorates a Client with a per-read time bound, bounded retries for
// transient failures, tracing and latency metrics.
type Guarded struct {
	next        Client
	readTimeout time.Duration
	retries     int
	retryDelay  time.Duration
	retryIf     func(error) bool

	latency  metric.Float64Histogram
	failures metric.Int64Counter
}

// GuardOption customises Guarded.
type GuardOption func(*Guarded)

// WithReadTimeout bounds each read, retries included.
func WithReadTimeout(d time.Duration) GuardOption {
	return func(g *Guarded) {
		if d > 0 {
			g.readTimeout = d
		}
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int, delay time.Duration) GuardOption {
	return func(g *Guarded) {
		if n >= 0 {
			g.retries = n
		}
		if delay >= 0 {
			g.retryDelay = delay
		}
	}
}

// WithRetryIf overrides the transient-error predicate.
func WithRetryIf(fn func(error) bool) GuardOption {
	return func(g *Guarded) {
		if fn != nil {
			g.retryIf = fn
		}
	}
}

// WithMeter injects a custom OpenTelemetry meter.
func WithMeter(meter metric.Meter) GuardOption {
	return func(g *Guarded) {
		if meter != nil {
			g.registerMetrics(meter)
		}
	}
}

// NewGuarded wraps next with the read policy.
func NewGuarded(next Client, opts ...GuardOption) *Guarded {
	g := &Guarded{
		next:        next,
		readTimeout: defaultReadTimeout,
		retries:     defaultRetries,
		retryDelay:  defaultRetryDelay,
		retryIf:     IsTransient,
	}
	g.registerMetrics(otel.GetMeterProvider().Meter(metricNamespace))
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// Query implements Client.
func (g *Guarded) Query(ctx context.Context, collection string, filters []Filter, orderBy []Order) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "contentstore.query", trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	start := time.Now()
	records, err := failsafe.NewExecutor[[]Record](guardPolicies[[]Record](g)...).
		WithContext(ctx).
		GetWithExecution(func(exec failsafe.Execution[[]Record]) ([]Record, error) {
			return g.next.Query(exec.Context(), collection, filters, orderBy)
		})
	err = g.finish(ctx, span, "query", collection, start, err)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(records)))
	return records, nil
}

// QueryOne implements Client.
func (g *Guarded) QueryOne(ctx context.Context, collection string, filters []Filter) (Record, error) {
	ctx, span := tracer.Start(ctx, "contentstore.query_one", trace.WithAttributes(attribute.String("collection", collection)))
	defer span.End()

	start := time.Now()
	record, err := failsafe.NewExecutor[Record](guardPolicies[Record](g)...).
		WithContext(ctx).
		GetWithExecution(func(exec failsafe.Execution[Record]) (Record, error) {
			return g.next.QueryOne(exec.Context(), collection, filters)
		})
	err = g.finish(ctx, span, "query_one", collection, start, err)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("found", record != nil))
	return record, nil
}

// Ping forwards to the wrapped client when it supports health checks.
func (g *Guarded) Ping(ctx context.Context) error {
	pinger, ok := g.next.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, g.readTimeout)
	defer cancel()
	return pinger.Ping(ctx)
}

// guardPolicies orders the timeout outside the retry policy so the bound
// covers every attempt.
func guardPolicies[R any](g *Guarded) []failsafe.Policy[R] {
	policies := []failsafe.Policy[R]{timeout.With[R](g.readTimeout)}
	if g.retries > 0 {
		policies = append(policies, retrypolicy.Builder[R]().
			HandleIf(func(_ R, err error) bool { return err != nil && g.retryIf(err) }).
			WithMaxRetries(g.retries).
			WithDelay(g.retryDelay).
			ReturnLastFailure().
			Build())
	}
	return policies
}

func (g *Guarded) finish(ctx context.Context, span trace.Span, op, collection string, start time.Time, err error) error {
	attrs := []attribute.KeyValue{
		attribute.String("op", op),
		attribute.String("collection", collection),
		attribute.Bool("error", err != nil),
	}
	if g.latency != nil {
		g.latency.Record(ctx, float64(time.Since(start))/float64(time.Millisecond), metric.WithAttributes(attrs...))
	}
	if err == nil {
		return nil
	}

	if errors.Is(err, timeout.ErrExceeded) {
		err = fmt.Errorf("contentstore: %s %s exceeded %s: %w", op, collection, g.readTimeout, context.DeadlineExceeded)
	}
	if g.failures != nil {
		g.failures.Add(ctx, 1, metric.WithAttributes(attrs[:2]...))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "content store read failed")
	requestctx.Logger(ctx).Debug("content store read failed",
		zap.String("op", op),
		zap.String("collection", collection),
		zap.Error(err),
	)
	return err
}

func (g *Guarded) registerMetrics(meter metric.Meter) {
	latency, err := meter.Float64Histogram(
		"contentstore.read.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Latency in milliseconds for content store reads"),
	)
	if err == nil {
		g.latency = latency
	}
	failures, err := meter.Int64Counter(
		"contentstore.read.failures",
		metric.WithDescription("Count of content store reads that returned an error"),
	)
	if err == nil {
		g.failures = failures
	}
}
