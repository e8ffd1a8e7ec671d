package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/nav"
	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
	"github.com/bandipurcablecar/website-sub001/internal/routes"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const defaultLang = "en"

var errSiteDependencies = errors.New("handlers: site pages need navigation, resolver and content")

// SiteHandlers renders HTML pages: the composed menu around either a static
// page, a published custom page, or the not-found page.
type SiteHandlers struct {
	nav      NavigationSource
	resolver PathResolver
	content  ContentReader
	siteName string
	tmpl     *template.Template
}

// SiteOption customises construction of SiteHandlers.
type SiteOption func(*SiteHandlers)

// WithSiteNavigation injects the navigation source.
func WithSiteNavigation(src NavigationSource) SiteOption {
	return func(h *SiteHandlers) {
		h.nav = src
	}
}

// WithSiteResolver injects the path resolver.
func WithSiteResolver(resolver PathResolver) SiteOption {
	return func(h *SiteHandlers) {
		h.resolver = resolver
	}
}

// WithSiteContent injects the content reader.
func WithSiteContent(reader ContentReader) SiteOption {
	return func(h *SiteHandlers) {
		h.content = reader
	}
}

// WithSiteName sets the name appended to static page titles.
func WithSiteName(name string) SiteOption {
	return func(h *SiteHandlers) {
		h.siteName = strings.TrimSpace(name)
	}
}

// NewSiteHandlers parses the embedded templates and constructs the handlers.
// Navigation, resolver and content are required.
func NewSiteHandlers(opts ...SiteOption) (*SiteHandlers, error) {
	h := &SiteHandlers{}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.nav == nil || h.resolver == nil || h.content == nil {
		return nil, errSiteDependencies
	}
	tmpl, err := template.New("site").Funcs(template.FuncMap{
		"date": formatDate,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	h.tmpl = tmpl
	return h, nil
}

// Routes registers the page handler for every GET path not claimed elsewhere.
func (h *SiteHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/*", h.page)
}

type pageView struct {
	Lang        string
	Meta        routes.Meta
	Path        string
	Kind        string
	PageID      routes.PageID
	Heading     string
	Params      map[string]string
	Body        template.HTML
	UpdatedAt   string
	NavVersion  string
	NavDegraded bool
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Settings    content.SiteSettings
	SocialLinks []socialLink
	Favicon     string

	Announcements []content.Announcement
	Team          []content.TeamMember
	Documents     []content.Document
}

type socialLink struct {
	Name string
	URL  string
}

func (h *SiteHandlers) page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		tree     nav.Tree
		res      routes.Resolution
		settings content.SiteSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tree, _ = h.nav.Refresh(gctx)
		return nil
	})
	g.Go(func() error {
		res = h.resolver.Resolve(gctx, r.URL.Path)
		return nil
	})
	g.Go(func() error {
		settings = h.content.Settings(gctx)
		return nil
	})
	_ = g.Wait()

	if ctx.Err() != nil {
		requestctx.Logger(ctx).Debug("site: request ended before page was composed", zap.String("path", r.URL.Path))
		return
	}

	view := h.compose(ctx, tree, res, settings)
	status := http.StatusOK
	if !res.Found() {
		status = http.StatusNotFound
	}
	requestctx.AnnotatePage(ctx, requestctx.PageInfo{
		Kind:       res.Kind.String(),
		PageID:     string(res.PageID),
		NavVersion: tree.Version,
		Degraded:   tree.Degraded,
	})
	w.Header().Set(navigationVersionHeader, tree.Version)
	h.render(ctx, w, status, view)
}

func (h *SiteHandlers) compose(ctx context.Context, tree nav.Tree, res routes.Resolution, settings content.SiteSettings) pageView {
	crumbs := nav.Breadcrumbs(res.Path, tree.Items)
	view := pageView{
		Lang:        defaultLang,
		Path:        res.Path,
		Kind:        res.Kind.String(),
		PageID:      res.PageID,
		Params:      res.Params,
		NavVersion:  tree.Version,
		NavDegraded: tree.Degraded,
		Nav:         nav.Render(tree.Items, res.Path),
		Breadcrumbs: crumbs,
		Settings:    settings,
		SocialLinks: socialLinks(settings.SocialLinks),
		Favicon:     favicon(settings),
	}

	switch res.Kind {
	case routes.KindDynamic:
		view.Heading = res.Page.Title
		view.Body = template.HTML(sanitizeContent(res.Page.Content))
		view.UpdatedAt = formatDate(res.Page.UpdatedAt)
		view.Meta = res.Meta
	case routes.KindStatic:
		view.Heading = staticHeading(res, crumbs, settings)
		view.Meta = routes.Meta{Title: h.title(view.Heading, res.PageID)}
		h.attachSections(ctx, &view)
	default:
		view.Heading = "Page Not Found"
		view.Meta = res.Meta
		view.Breadcrumbs = nil
	}
	return view
}

// attachSections loads the collections a static page lists.
func (h *SiteHandlers) attachSections(ctx context.Context, view *pageView) {
	switch view.PageID {
	case routes.PageHome, routes.PageMedia:
		view.Announcements = h.content.Announcements(ctx)
	case routes.PageStructure:
		view.Team = h.content.TeamMembers(ctx, "")
	case routes.PageDownloads:
		view.Documents = h.content.Documents(ctx, "")
	case routes.PageInvestors:
		view.Documents = h.content.Documents(ctx, "financial-reports")
	}
}

func (h *SiteHandlers) title(heading string, id routes.PageID) string {
	if id == routes.PageHome || heading == "" || heading == h.siteName {
		return h.siteName
	}
	if h.siteName == "" {
		return heading
	}
	return heading + " - " + h.siteName
}

func (h *SiteHandlers) render(ctx context.Context, w http.ResponseWriter, status int, view pageView) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		requestctx.Logger(ctx).Error("site: render page", zap.String("path", view.Path), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func staticHeading(res routes.Resolution, crumbs []nav.Crumb, settings content.SiteSettings) string {
	if res.PageID == routes.PageHome {
		return settings.CompanyName
	}
	if len(crumbs) == 0 {
		return ""
	}
	return crumbs[len(crumbs)-1].Label
}

// favicon prefers the dedicated icon and falls back to the logo unless the
// logo is a video.
func favicon(settings content.SiteSettings) string {
	if icon := strings.TrimSpace(settings.SocialLinks["favicon"]); icon != "" {
		return icon
	}
	if logo := strings.TrimSpace(settings.LogoURL); logo != "" && !strings.HasSuffix(strings.ToLower(logo), ".mp4") {
		return logo
	}
	return ""
}

func socialLinks(links map[string]string) []socialLink {
	out := make([]socialLink, 0, len(links))
	for name, url := range links {
		if name == "favicon" || strings.TrimSpace(url) == "" {
			continue
		}
		out = append(out, socialLink{Name: name, URL: url})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
