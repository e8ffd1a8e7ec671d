package nav

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
)

const metricNamespace = "github.com/bandipurcablecar/website-sub001/internal/nav"

// ErrSourceMissing signals that no page source was supplied.
var ErrSourceMissing = errors.New("nav: page source is not configured")

// PageSource yields the custom pages eligible for the menu.
type PageSource interface {
	MenuPages(ctx context.Context) ([]content.Page, error)
}

// Tree is a composed menu. Version identifies one composition so clients can
// tell whether the menu changed between requests.
type Tree struct {
	Items    []Item    `json:"items"`
	Version  string    `json:"version"`
	Degraded bool      `json:"degraded,omitempty"`
	BuiltAt  time.Time `json:"builtAt"`
}

// Loader reads menu pages and composes the menu. It holds no content between calls.
type Loader struct {
	source   PageSource
	static   []Item
	clock    func() time.Time
	degraded metric.Int64Counter
}

// LoaderOption customises Loader.
type LoaderOption func(*Loader)

// WithStatic replaces the fixed hierarchy. Mainly useful in tests.
func WithStatic(items []Item) LoaderOption {
	return func(l *Loader) {
		l.static = Clone(items)
	}
}

// WithClock overrides the time source used for BuiltAt.
func WithClock(clock func() time.Time) LoaderOption {
	return func(l *Loader) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewLoader constructs a Loader reading from source.
func NewLoader(source PageSource, opts ...LoaderOption) (*Loader, error) {
	if source == nil {
		return nil, ErrSourceMissing
	}
	l := &Loader{
		source: source,
		static: Clone(Main),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if counter, err := otel.GetMeterProvider().Meter(metricNamespace).Int64Counter(
		"nav.build.degraded",
		metric.WithDescription("Count of menu compositions served without custom pages"),
	); err == nil {
		l.degraded = counter
	}
	return l, nil
}

// Load reads menu pages once and composes the menu. When the read fails the
// static hierarchy plus Contact is returned with Degraded set.
func (l *Loader) Load(ctx context.Context) Tree {
	pages, err := l.source.MenuPages(ctx)
	return l.compose(ctx, pages, err)
}

// Fallback returns the static-only menu without touching the content store.
func (l *Loader) Fallback() Tree {
	return l.tree(Build(l.static, nil), true)
}

func (l *Loader) compose(ctx context.Context, pages []content.Page, err error) Tree {
	if err != nil {
		requestctx.Logger(ctx).Warn("nav: custom pages unavailable, serving static menu", zap.Error(err))
		if l.degraded != nil {
			l.degraded.Add(ctx, 1)
		}
		return l.Fallback()
	}
	l.reportOrphans(ctx, pages)
	return l.tree(Build(l.static, pages), false)
}

// reportOrphans logs menu pages whose parent key names no top-level entry.
// Build places them at the top level.
func (l *Loader) reportOrphans(ctx context.Context, pages []content.Page) {
	logger := requestctx.Logger(ctx)
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	keys := make(map[string]struct{}, len(l.static))
	for _, item := range l.static {
		keys[item.Key] = struct{}{}
	}
	for _, page := range pages {
		if page.ParentMenuKey == "" || !page.InMenu() {
			continue
		}
		if _, ok := keys[page.ParentMenuKey]; !ok {
			logger.Debug("nav: unknown parent menu, placing at top level",
				zap.String("slug", page.Slug),
				zap.String("parent_menu", page.ParentMenuKey),
			)
		}
	}
}

func (l *Loader) tree(items []Item, degraded bool) Tree {
	now := l.clock().UTC()
	return Tree{
		Items:    items,
		Version:  ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Degraded: degraded,
		BuiltAt:  now,
	}
}
