package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
)

// DecodePage converts a custom_pages record. Records without a title, or
// whose slug is empty or not stored in normalized form, return ErrMalformed.
// Lookups match the stored slug exactly.
func DecodePage(r contentstore.Record) (Page, error) {
	raw, _ := r["slug"].(string)
	slug := NormalizeSlug(raw)
	if slug == "" {
		return Page{}, fmt.Errorf("%w: custom page %q has no slug", ErrMalformed, r.String("id"))
	}
	if slug != raw {
		return Page{}, fmt.Errorf("%w: custom page slug %q is not normalized", ErrMalformed, raw)
	}
	title := r.String("title")
	if title == "" {
		return Page{}, fmt.Errorf("%w: custom page %q has no title", ErrMalformed, slug)
	}

	page := Page{
		ID:              r.String("id"),
		Slug:            slug,
		Title:           title,
		Content:         r.String("content"),
		MetaDescription: r.String("meta_description"),
		MetaKeywords:    r.String("meta_keywords"),
		IsPublished:     r.Bool("is_published"),
		ShowInMenu:      r.Bool("show_in_menu"),
		ParentMenuKey:   r.String("parent_menu"),
		UpdatedAt:       r.Time("updated_at"),
	}
	if order, ok := r.Int("menu_order"); ok {
		page.MenuOrder = &order
	}
	return page, nil
}

// NormalizeSlug trims whitespace and surrounding path separators.
func NormalizeSlug(slug string) string {
	return strings.Trim(strings.TrimSpace(slug), "/")
}

func decodeSettings(r contentstore.Record) SiteSettings {
	hours := r.StringMap("opening_hours")
	if plain := r.String("opening_hours"); len(hours) == 0 && plain != "" {
		hours = map[string]string{"default": plain}
	}
	return SiteSettings{
		CompanyName:     r.String("company_name"),
		ContactEmail:    r.String("contact_email"),
		ContactPhone:    r.String("contact_phone"),
		CorporateOffice: r.String("corporate_office"),
		OpeningHours:    hours,
		LogoURL:         r.String("logo_url"),
		FooterText:      r.String("footer_text"),
		SocialLinks:     r.StringMap("social_links"),
	}
}

func decodeAnnouncement(r contentstore.Record) (Announcement, error) {
	title := r.String("title")
	if title == "" {
		return Announcement{}, fmt.Errorf("%w: announcement %q has no title", ErrMalformed, r.String("id"))
	}
	return Announcement{
		ID:          r.String("id"),
		Title:       title,
		LinkURL:     r.String("link_url"),
		PublishedAt: r.Time("published_at"),
	}, nil
}

func decodeTeamMember(r contentstore.Record) (TeamMember, error) {
	name := r.String("name")
	if name == "" {
		return TeamMember{}, fmt.Errorf("%w: team member %q has no name", ErrMalformed, r.String("id"))
	}
	order, _ := r.Int("display_order")
	return TeamMember{
		ID:           r.String("id"),
		Name:         name,
		Position:     r.String("position"),
		Type:         strings.ToLower(r.String("type")),
		ImageURL:     r.String("image_url"),
		DisplayOrder: order,
	}, nil
}

func decodeDocument(r contentstore.Record) (Document, error) {
	title := r.String("title")
	fileURL := r.String("file_url")
	if title == "" || fileURL == "" {
		return Document{}, fmt.Errorf("%w: document %q needs title and file_url", ErrMalformed, r.String("id"))
	}
	fiscalYear := r.String("fiscal_year")
	if fiscalYear == "" {
		if year, ok := r.Int("fiscal_year"); ok {
			fiscalYear = strconv.Itoa(year)
		}
	}
	published := r.Time("published_at")
	if published.IsZero() {
		published = r.Time("created_at")
	}
	return Document{
		ID:          r.String("id"),
		Title:       title,
		Category:    r.String("category"),
		FileURL:     fileURL,
		FiscalYear:  fiscalYear,
		PublishedAt: published,
	}, nil
}
