package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandipurcablecar/website-sub001/internal/platform/httpx"
	"github.com/bandipurcablecar/website-sub001/internal/testutil"
)

func decodeJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v))
}

func TestPublicNavigation(t *testing.T) {
	s := newStack(t, testutil.SeedStore())

	rec := s.get(t, "/api/v1/public/navigation?path=/careers")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var payload struct {
		Version  string `json:"version"`
		Degraded bool   `json:"degraded"`
		Path     string `json:"path"`
		Items    []struct {
			Href     string `json:"href"`
			Label    string `json:"label"`
			Active   bool   `json:"active"`
			Children []struct {
				Href   string `json:"href"`
				Active bool   `json:"active"`
			} `json:"children"`
		} `json:"items"`
		Breadcrumbs []struct {
			Label string `json:"label"`
		} `json:"breadcrumbs"`
	}
	decodeJSON(t, rec.Body.Bytes(), &payload)

	assert.NotEmpty(t, payload.Version)
	assert.Equal(t, payload.Version, rec.Header().Get(navigationVersionHeader))
	assert.False(t, payload.Degraded)
	assert.Equal(t, "/careers", payload.Path)

	require.NotEmpty(t, payload.Items)
	first := payload.Items[0]
	assert.Equal(t, "Who We Are", first.Label)
	assert.True(t, first.Active)
	require.Len(t, first.Children, 7)
	assert.Equal(t, "/careers", first.Children[1].Href)
	assert.True(t, first.Children[1].Active)
	assert.Equal(t, "Contact", payload.Items[len(payload.Items)-1].Label)

	require.Len(t, payload.Breadcrumbs, 2)
	assert.Equal(t, "Careers", payload.Breadcrumbs[1].Label)
}

func TestPublicNavigationDegraded(t *testing.T) {
	s := newStack(t, failingStore{})

	rec := s.get(t, "/api/v1/public/navigation")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Degraded bool              `json:"degraded"`
		Items    []json.RawMessage `json:"items"`
	}
	decodeJSON(t, rec.Body.Bytes(), &payload)
	assert.True(t, payload.Degraded)
	assert.Len(t, payload.Items, 8)
}

func TestPublicResolve(t *testing.T) {
	s := newStack(t, testutil.SeedStore())

	type resolution struct {
		Kind   string            `json:"kind"`
		Path   string            `json:"path"`
		PageID string            `json:"pageId"`
		Params map[string]string `json:"params"`
		Page   *struct {
			Slug    string `json:"slug"`
			Content string `json:"content"`
		} `json:"page"`
		Meta struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"meta"`
	}

	var static resolution
	rec := s.get(t, "/api/v1/public/resolve?path=/about")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &static)
	assert.Equal(t, "static", static.Kind)
	assert.Equal(t, "about", static.PageID)
	assert.Nil(t, static.Page)

	var dynamic resolution
	rec = s.get(t, "/api/v1/public/resolve?path=careers")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &dynamic)
	assert.Equal(t, "dynamic", dynamic.Kind)
	assert.Equal(t, "/careers", dynamic.Path)
	require.NotNil(t, dynamic.Page)
	assert.Equal(t, "careers", dynamic.Page.Slug)
	assert.NotContains(t, dynamic.Page.Content, "<script>")
	assert.Equal(t, "Careers - Bandipur Cable Car", dynamic.Meta.Title)
	assert.Equal(t, "Work with us", dynamic.Meta.Description)

	var missing resolution
	rec = s.get(t, "/api/v1/public/resolve?path=/random-page")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &missing)
	assert.Equal(t, "notFound", missing.Kind)
}

func TestPublicResolveRequiresPath(t *testing.T) {
	s := newStack(t, testutil.SeedStore())

	rec := s.get(t, "/api/v1/public/resolve")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	decodeJSON(t, rec.Body.Bytes(), &body)
	assert.Equal(t, "invalid_path", body["error"])
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
	assert.NotEmpty(t, body["request_id"])
}

func TestPublicContentEndpoints(t *testing.T) {
	s := newStack(t, testutil.SeedStore())

	var settings struct {
		CompanyName  string            `json:"companyName"`
		OpeningHours map[string]string `json:"openingHours"`
	}
	rec := s.get(t, "/api/v1/public/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &settings)
	assert.Equal(t, "Bandipur Cable Car and Tourism Ltd.", settings.CompanyName)
	assert.Equal(t, "9:00 - 17:00", settings.OpeningHours["weekday"])

	var list struct {
		Items []map[string]any `json:"items"`
	}
	rec = s.get(t, "/api/v1/public/announcements")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &list)
	assert.Len(t, list.Items, 1)

	rec = s.get(t, "/api/v1/public/team?type=Board")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Ram Shrestha", list.Items[0]["name"])

	rec = s.get(t, "/api/v1/public/team?type=volunteers")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.get(t, "/api/v1/public/documents?category=ipo")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Prospectus", list.Items[0]["title"])
}

func TestPublicContentDegradesToEmptyLists(t *testing.T) {
	s := newStack(t, failingStore{})

	var list struct {
		Items []map[string]any `json:"items"`
	}
	rec := s.get(t, "/api/v1/public/documents")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec.Body.Bytes(), &list)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func TestPublicUnknownRoute(t *testing.T) {
	s := newStack(t, testutil.SeedStore())

	rec := s.get(t, "/api/v1/public/unknown")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	decodeJSON(t, rec.Body.Bytes(), &body)
	assert.Equal(t, httpx.CodeRouteNotFound, body["error"])
	assert.Equal(t, "/api/v1/public/unknown", body["path"])
}

func TestPublicHandlersWithoutDependencies(t *testing.T) {
	router := NewRouter(WithPublicRoutes(NewPublicHandlers().Routes))

	for _, target := range []string{"/api/v1/public/navigation", "/api/v1/public/resolve?path=/", "/api/v1/public/settings"} {
		rec := serve(router, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}
}
