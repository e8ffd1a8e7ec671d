package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/nav"
	"github.com/bandipurcablecar/website-sub001/internal/platform/httpx"
	"github.com/bandipurcablecar/website-sub001/internal/routes"
)

const (
	navigationVersionHeader = "X-Navigation-Version"
	publicCacheControl      = "no-cache"
)

// NavigationSource yields the menu to display for one request.
type NavigationSource interface {
	Refresh(ctx context.Context) (nav.Tree, bool)
}

// PathResolver maps request paths to pages.
type PathResolver interface {
	Resolve(ctx context.Context, path string) routes.Resolution
}

// ContentReader exposes the auxiliary content collections.
type ContentReader interface {
	Settings(ctx context.Context) content.SiteSettings
	Announcements(ctx context.Context) []content.Announcement
	TeamMembers(ctx context.Context, kind string) []content.TeamMember
	Documents(ctx context.Context, category string) []content.Document
}

// PublicHandlers exposes the navigation, resolution and content endpoints as JSON.
type PublicHandlers struct {
	nav      NavigationSource
	resolver PathResolver
	content  ContentReader
}

// PublicOption customises construction of PublicHandlers.
type PublicOption func(*PublicHandlers)

// WithPublicNavigation injects the navigation source.
func WithPublicNavigation(src NavigationSource) PublicOption {
	return func(h *PublicHandlers) {
		h.nav = src
	}
}

// WithPublicResolver injects the path resolver.
func WithPublicResolver(resolver PathResolver) PublicOption {
	return func(h *PublicHandlers) {
		h.resolver = resolver
	}
}

// WithPublicContent injects the content reader.
func WithPublicContent(reader ContentReader) PublicOption {
	return func(h *PublicHandlers) {
		h.content = reader
	}
}

// NewPublicHandlers constructs the public JSON handlers.
func NewPublicHandlers(opts ...PublicOption) *PublicHandlers {
	h := &PublicHandlers{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Routes registers public endpoints against the provided router.
func (h *PublicHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/navigation", h.getNavigation)
	r.Get("/resolve", h.resolvePath)
	r.Get("/settings", h.getSettings)
	r.Get("/announcements", h.listAnnouncements)
	r.Get("/team", h.listTeam)
	r.Get("/documents", h.listDocuments)
}

type navigationPayload struct {
	Version     string             `json:"version"`
	Degraded    bool               `json:"degraded"`
	BuiltAt     string             `json:"builtAt"`
	Path        string             `json:"path"`
	Items       []nav.RenderedItem `json:"items"`
	Breadcrumbs []nav.Crumb        `json:"breadcrumbs"`
}

func (h *PublicHandlers) getNavigation(w http.ResponseWriter, r *http.Request) {
	if h.nav == nil {
		unavailable(w, r, "navigation")
		return
	}
	current := queryPath(r)
	tree, _ := h.nav.Refresh(r.Context())

	w.Header().Set(navigationVersionHeader, tree.Version)
	w.Header().Set("Cache-Control", publicCacheControl)
	httpx.WriteJSON(w, http.StatusOK, navigationPayload{
		Version:     tree.Version,
		Degraded:    tree.Degraded,
		BuiltAt:     formatTimestamp(tree.BuiltAt),
		Path:        current,
		Items:       nav.Render(tree.Items, current),
		Breadcrumbs: nav.Breadcrumbs(current, tree.Items),
	})
}

func (h *PublicHandlers) resolvePath(w http.ResponseWriter, r *http.Request) {
	if h.resolver == nil {
		unavailable(w, r, "resolver")
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("path"))
	if raw == "" {
		httpx.WriteError(r.Context(), w, httpx.InvalidParameter("path", "path query parameter is required"))
		return
	}
	res := h.resolver.Resolve(r.Context(), raw)
	if res.Page != nil {
		page := *res.Page
		page.Content = sanitizeContent(page.Content)
		res.Page = &page
	}
	w.Header().Set("Cache-Control", publicCacheControl)
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *PublicHandlers) getSettings(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		unavailable(w, r, "content")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.content.Settings(r.Context()))
}

func (h *PublicHandlers) listAnnouncements(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		unavailable(w, r, "content")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": h.content.Announcements(r.Context())})
}

func (h *PublicHandlers) listTeam(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		unavailable(w, r, "content")
		return
	}
	kind := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	switch kind {
	case "", content.TeamBoard, content.TeamManagement:
	default:
		httpx.WriteError(r.Context(), w, httpx.InvalidParameter("type", "type must be board or management"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": h.content.TeamMembers(r.Context(), kind)})
}

func (h *PublicHandlers) listDocuments(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		unavailable(w, r, "content")
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": h.content.Documents(r.Context(), category)})
}

func queryPath(r *http.Request) string {
	p := strings.TrimSpace(r.URL.Query().Get("path"))
	if p == "" {
		return "/"
	}
	return p
}

func unavailable(w http.ResponseWriter, r *http.Request, dependency string) {
	httpx.WriteError(r.Context(), w, httpx.Unavailable(dependency))
}
