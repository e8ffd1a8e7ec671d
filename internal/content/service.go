package content

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
	"github.com/bandipurcablecar/website-sub001/internal/platform/requestctx"
)

// ErrStoreMissing signals that the content store dependency is absent.
var ErrStoreMissing = errors.New("content service: content store is not configured")

// Deps groups constructor parameters for the content service.
type Deps struct {
	Store contentstore.Client
	// Defaults fill settings fields the store leaves empty, and replace the
	// whole row when the store is unreachable.
	Defaults SiteSettings
}

// Service reads typed content from the store. Every call issues exactly one
// store read; nothing is cached.
type Service struct {
	store    contentstore.Client
	defaults SiteSettings
}

// NewService constructs the content service with the supplied dependencies.
func NewService(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, ErrStoreMissing
	}
	return &Service{store: deps.Store, defaults: deps.Defaults}, nil
}

// MenuPages returns published custom pages flagged for the menu, ordered by
// menu_order. Malformed records are skipped. Store failures are returned so
// the caller can choose its fallback.
func (s *Service) MenuPages(ctx context.Context) ([]Page, error) {
	records, err := s.store.Query(ctx, CollectionCustomPages,
		[]contentstore.Filter{
			contentstore.Eq("is_published", true),
			contentstore.Eq("show_in_menu", true),
		},
		[]contentstore.Order{contentstore.Asc("menu_order")},
	)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, records, DecodePage), nil
}

// PublishedPage looks up a published custom page by slug. It returns
// (nil, nil) when no such page exists.
func (s *Service) PublishedPage(ctx context.Context, slug string) (*Page, error) {
	slug = NormalizeSlug(slug)
	if slug == "" {
		return nil, nil
	}
	record, err := s.store.QueryOne(ctx, CollectionCustomPages, []contentstore.Filter{
		contentstore.Eq("slug", slug),
		contentstore.Eq("is_published", true),
	})
	if err != nil || record == nil {
		return nil, err
	}
	page, err := DecodePage(record)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// Settings returns the site settings row merged over the configured defaults.
func (s *Service) Settings(ctx context.Context) SiteSettings {
	record, err := s.store.QueryOne(ctx, CollectionSiteSettings, nil)
	if err != nil {
		requestctx.Logger(ctx).Warn("content: site settings unavailable, using defaults", zap.Error(err))
		return s.defaults
	}
	if record == nil {
		return s.defaults
	}
	settings := decodeSettings(record)
	settings.CompanyName = firstNonEmpty(settings.CompanyName, s.defaults.CompanyName)
	settings.ContactEmail = firstNonEmpty(settings.ContactEmail, s.defaults.ContactEmail)
	settings.ContactPhone = firstNonEmpty(settings.ContactPhone, s.defaults.ContactPhone)
	settings.LogoURL = firstNonEmpty(settings.LogoURL, s.defaults.LogoURL)
	if len(settings.OpeningHours) == 0 {
		settings.OpeningHours = s.defaults.OpeningHours
	}
	return settings
}

// Announcements lists active announcements, newest first.
func (s *Service) Announcements(ctx context.Context) []Announcement {
	records, err := s.store.Query(ctx, CollectionAnnouncements,
		[]contentstore.Filter{contentstore.Eq("is_active", true)},
		[]contentstore.Order{contentstore.Desc("published_at")},
	)
	if err != nil {
		requestctx.Logger(ctx).Warn("content: announcements unavailable", zap.Error(err))
		return []Announcement{}
	}
	return decodeAll(ctx, records, decodeAnnouncement)
}

// TeamMembers lists team profiles by display order. An empty kind returns all.
func (s *Service) TeamMembers(ctx context.Context, kind string) []TeamMember {
	var filters []contentstore.Filter
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
		filters = append(filters, contentstore.Eq("type", kind))
	}
	records, err := s.store.Query(ctx, CollectionTeamMembers, filters, []contentstore.Order{contentstore.Asc("display_order")})
	if err != nil {
		requestctx.Logger(ctx).Warn("content: team members unavailable", zap.Error(err))
		return []TeamMember{}
	}
	return decodeAll(ctx, records, decodeTeamMember)
}

// Documents lists downloadable documents, newest first. An empty category returns all.
func (s *Service) Documents(ctx context.Context, category string) []Document {
	var filters []contentstore.Filter
	if category = strings.TrimSpace(category); category != "" && category != "all" {
		filters = append(filters, contentstore.Eq("category", category))
	}
	records, err := s.store.Query(ctx, CollectionDocuments, filters, []contentstore.Order{contentstore.Desc("published_at")})
	if err != nil {
		requestctx.Logger(ctx).Warn("content: documents unavailable", zap.Error(err))
		return []Document{}
	}
	return decodeAll(ctx, records, decodeDocument)
}

func decodeAll[T any](ctx context.Context, records []contentstore.Record, decode func(contentstore.Record) (T, error)) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		item, err := decode(record)
		if err != nil {
			requestctx.Logger(ctx).Warn("content: skipping malformed record", zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
