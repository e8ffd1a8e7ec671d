package routes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
)

const metricNamespace = "github.com/bandipurcablecar/website-sub001/internal/routes"

// ErrPagesMissing signals that no custom page lookup was supplied.
var ErrPagesMissing = errors.New("routes: page lookup is not configured")

// reservedPrefixes are never resolved, not even as custom page slugs.
var reservedPrefixes = []string{"/admin"}

// Kind classifies a resolution.
type Kind int

const (
	KindNotFound Kind = iota
	KindStatic
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindDynamic:
		return "dynamic"
	default:
		return "notFound"
	}
}

// MarshalText renders the kind by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Meta carries advisory document metadata for the page.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
}

// Resolution is the outcome of resolving one path. Page is set only for
// KindDynamic; PageID only for KindStatic.
type Resolution struct {
	Kind   Kind              `json:"kind"`
	Path   string            `json:"path"`
	PageID PageID            `json:"pageId,omitempty"`
	Params map[string]string `json:"params,omitempty"`
	Page   *content.Page     `json:"page,omitempty"`
	Meta   Meta              `json:"meta"`
}

// Found reports whether the path resolved to a page.
func (r Resolution) Found() bool {
	return r.Kind != KindNotFound
}

// PageLookup fetches a published custom page by slug, returning (nil, nil)
// when none exists.
type PageLookup interface {
	PublishedPage(ctx context.Context, slug string) (*content.Page, error)
}

// Resolver maps request paths to pages.
type Resolver struct {
	table    *Table
	pages    PageLookup
	siteName string
	outcomes metric.Int64Counter
}

// ResolverOption customises Resolver.
type ResolverOption func(*Resolver)

// WithTable replaces the default route table.
func WithTable(t *Table) ResolverOption {
	return func(r *Resolver) {
		if t != nil {
			r.table = t
		}
	}
}

// WithSiteName sets the suffix appended to page titles.
func WithSiteName(name string) ResolverOption {
	return func(r *Resolver) {
		r.siteName = strings.TrimSpace(name)
	}
}

// NewResolver constructs a Resolver backed by pages.
func NewResolver(pages PageLookup, opts ...ResolverOption) (*Resolver, error) {
	if pages == nil {
		return nil, ErrPagesMissing
	}
	r := &Resolver{table: Default, pages: pages}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if counter, err := otel.GetMeterProvider().Meter(metricNamespace).Int64Counter(
		"routes.resolve.outcomes",
		metric.WithDescription("Count of path resolutions by outcome kind"),
	); err == nil {
		r.outcomes = counter
	}
	return r, nil
}

// Resolve maps p to a static page, a published custom page, or not found.
// Static routes always win. A failed content-store read resolves to not
// found; Resolve itself never fails.
func (r *Resolver) Resolve(ctx context.Context, p string) Resolution {
	res := r.resolve(ctx, cleanPath(p))
	if r.outcomes != nil {
		r.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", res.Kind.String())))
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, p string) Resolution {
	notFound := Resolution{Kind: KindNotFound, Path: p, Meta: Meta{Title: r.title("Page Not Found")}}
	if reserved(p) {
		return notFound
	}

	match, ok := r.table.Match(p)
	if !ok {
		return notFound
	}
	if !match.CatchAll {
		return Resolution{
			Kind:   KindStatic,
			Path:   p,
			PageID: match.Entry.PageID,
			Params: match.Params,
			Meta:   Meta{Title: r.siteName},
		}
	}

	slug := strings.TrimPrefix(p, "/")
	page, err := r.pages.PublishedPage(ctx, slug)
	if err != nil {
		logger := requestctx.Logger(ctx)
		if errors.Is(err, content.ErrMalformed) {
			logger.Warn("routes: custom page record is malformed", zap.String("slug", slug), zap.Error(err))
		} else {
			logger.Warn("routes: custom page lookup failed", zap.String("slug", slug), zap.Error(err))
		}
		return notFound
	}
	if page == nil {
		return notFound
	}
	return Resolution{
		Kind:   KindDynamic,
		Path:   p,
		Params: match.Params,
		Page:   page,
		Meta: Meta{
			Title:       r.title(page.Title),
			Description: page.MetaDescription,
			Keywords:    page.MetaKeywords,
		},
	}
}

func (r *Resolver) title(pageTitle string) string {
	if r.siteName == "" {
		return pageTitle
	}
	return fmt.Sprintf("%s - %s", pageTitle, r.siteName)
}

func reserved(p string) bool {
	lower := strings.ToLower(p)
	for _, prefix := range reservedPrefixes {
		if lower == prefix || strings.HasPrefix(lower, prefix+"/") {
			return true
		}
	}
	return false
}
