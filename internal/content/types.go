// Package content maps content-store records to the typed values the site
// renders: custom pages, site settings, announcements, team members and
// downloadable documents.
package content

import (
	"errors"
	"time"
)

// Collection names in the content store.
const (
	CollectionCustomPages   = "custom_pages"
	CollectionSiteSettings  = "site_settings"
	CollectionAnnouncements = "announcements"
	CollectionTeamMembers   = "team_members"
	CollectionDocuments     = "documents"
)

// DefaultMenuOrder applies to menu entries without an explicit order.
const DefaultMenuOrder = 100

// ErrMalformed marks a record missing a required field. Callers skip such records.
var ErrMalformed = errors.New("content: malformed record")

// Page is an editor-created custom page addressable by slug.
type Page struct {
	ID              string    `json:"id,omitempty"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content,omitempty"`
	MetaDescription string    `json:"metaDescription,omitempty"`
	MetaKeywords    string    `json:"metaKeywords,omitempty"`
	IsPublished     bool      `json:"isPublished"`
	ShowInMenu      bool      `json:"showInMenu"`
	MenuOrder       *int      `json:"menuOrder,omitempty"`
	ParentMenuKey   string    `json:"parentMenu,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// Order returns the menu order, defaulting to DefaultMenuOrder when unset.
func (p Page) Order() int {
	if p.MenuOrder == nil {
		return DefaultMenuOrder
	}
	return *p.MenuOrder
}

// InMenu reports whether the page contributes a navigation entry.
func (p Page) InMenu() bool {
	return p.IsPublished && p.ShowInMenu
}

// SiteSettings holds the single-row company profile.
type SiteSettings struct {
	CompanyName     string            `json:"companyName"`
	ContactEmail    string            `json:"contactEmail,omitempty"`
	ContactPhone    string            `json:"contactPhone,omitempty"`
	CorporateOffice string            `json:"corporateOffice,omitempty"`
	OpeningHours    map[string]string `json:"openingHours,omitempty"`
	LogoURL         string            `json:"logoUrl,omitempty"`
	FooterText      string            `json:"footerText,omitempty"`
	SocialLinks     map[string]string `json:"socialLinks,omitempty"`
}

// Announcement is a short notice shown in the news ticker.
type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	LinkURL     string    `json:"linkUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// TeamMember kinds.
const (
	TeamBoard      = "board"
	TeamManagement = "management"
)

// TeamMember is a board or management profile.
type TeamMember struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position,omitempty"`
	Type         string `json:"type,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	DisplayOrder int    `json:"displayOrder"`
}

// Document is a downloadable file such as an annual report.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	FileURL     string    `json:"fileUrl"`
	FiscalYear  string    `json:"fiscalYear,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty"`
}
