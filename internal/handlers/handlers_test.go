package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
	"github.com/bandipurcablecar/website-sub001/internal/nav"
	"github.com/bandipurcablecar/website-sub001/internal/routes"
)

const testSiteName = "Bandipur Cable Car"

type failingStore struct{}

func (failingStore) Query(context.Context, string, []contentstore.Filter, []contentstore.Order) ([]contentstore.Record, error) {
	return nil, errors.Join(contentstore.ErrUnavailable, errors.New("connection refused"))
}

func (failingStore) QueryOne(context.Context, string, []contentstore.Filter) (contentstore.Record, error) {
	return nil, errors.Join(contentstore.ErrUnavailable, errors.New("connection refused"))
}

// switchableStore fails every read while down is set.
type switchableStore struct {
	contentstore.Client
	down atomic.Bool
}

func (s *switchableStore) Query(ctx context.Context, collection string, filters []contentstore.Filter, orderBy []contentstore.Order) ([]contentstore.Record, error) {
	if s.down.Load() {
		return failingStore{}.Query(ctx, collection, filters, orderBy)
	}
	return s.Client.Query(ctx, collection, filters, orderBy)
}

func (s *switchableStore) QueryOne(ctx context.Context, collection string, filters []contentstore.Filter) (contentstore.Record, error) {
	if s.down.Load() {
		return failingStore{}.QueryOne(ctx, collection, filters)
	}
	return s.Client.QueryOne(ctx, collection, filters)
}

type stack struct {
	router   http.Handler
	snapshot *nav.Snapshot
}

func newStack(t *testing.T, store contentstore.Client, opts ...Option) stack {
	t.Helper()

	svc, err := content.NewService(content.Deps{
		Store:    store,
		Defaults: content.SiteSettings{CompanyName: testSiteName, ContactEmail: "info@bandipurcablecar.com.np"},
	})
	require.NoError(t, err)

	loader, err := nav.NewLoader(svc)
	require.NoError(t, err)
	snapshot := nav.NewSnapshot(loader)

	resolver, err := routes.NewResolver(svc, routes.WithSiteName(testSiteName))
	require.NoError(t, err)

	site, err := NewSiteHandlers(
		WithSiteNavigation(snapshot),
		WithSiteResolver(resolver),
		WithSiteContent(svc),
		WithSiteName(testSiteName),
	)
	require.NoError(t, err)

	public := NewPublicHandlers(
		WithPublicNavigation(snapshot),
		WithPublicResolver(resolver),
		WithPublicContent(svc),
	)

	opts = append([]Option{WithPublicRoutes(public.Routes), WithSiteRoutes(site.Routes)}, opts...)
	return stack{router: NewRouter(opts...), snapshot: snapshot}
}

func (s stack) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}
