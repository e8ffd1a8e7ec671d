// Package requestctx carries per-request values between the HTTP middlewares
// and the page handlers: the scoped logger, trace metadata and a summary of the
// page the request resolved to.
package requestctx

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	traceKey
	pageKey
)

var noopLogger = zap.NewNop()

// TraceInfo captures trace metadata propagated through request context.
type TraceInfo struct {
	TraceID   string
	SpanID    string
	Sampled   bool
	ProjectID string
}

// PageInfo summarises how a request was served. Handlers fill it in; the
// request logger reports it once the response is written.
type PageInfo struct {
	Kind       string
	PageID     string
	NavVersion string
	Degraded   bool
}

type pageSlot struct {
	mu   sync.Mutex
	info PageInfo
	set  bool
}

// WithLogger stores the logger in context for downstream consumers.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = noopLogger
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger retrieves the zap logger from context or returns a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return noopLogger
	}
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return noopLogger
}

// NoopLogger exposes the shared noop logger instance.
func NoopLogger() *zap.Logger { return noopLogger }

// WithTrace stores the trace metadata on the context.
func WithTrace(ctx context.Context, info TraceInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceKey, info)
}

// Trace retrieves the trace metadata from context when available.
func Trace(ctx context.Context) (TraceInfo, bool) {
	if ctx == nil {
		return TraceInfo{}, false
	}
	info, ok := ctx.Value(traceKey).(TraceInfo)
	return info, ok
}

// TraceID extracts the trace identifier from context when present.
func TraceID(ctx context.Context) string {
	info, _ := Trace(ctx)
	return info.TraceID
}

// WithPageSlot prepares the context to receive a PageInfo from a handler
// further down the chain.
func WithPageSlot(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, pageKey, &pageSlot{})
}

// AnnotatePage records how the request was served. It is a no-op when no slot
// was installed.
func AnnotatePage(ctx context.Context, info PageInfo) {
	if ctx == nil {
		return
	}
	slot, ok := ctx.Value(pageKey).(*pageSlot)
	if !ok {
		return
	}
	slot.mu.Lock()
	slot.info = info
	slot.set = true
	slot.mu.Unlock()
}

// Page returns the PageInfo recorded by AnnotatePage.
func Page(ctx context.Context) (PageInfo, bool) {
	if ctx == nil {
		return PageInfo{}, false
	}
	slot, ok := ctx.Value(pageKey).(*pageSlot)
	if !ok {
		return PageInfo{}, false
	}
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.info, slot.set
}
