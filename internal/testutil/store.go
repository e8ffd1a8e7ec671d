package testutil

import (
	"time"

	"github.com/bandipurcablecar/website-sub001/internal/content"
	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
)

// SeedStore returns a Memory store holding a small, representative site.
func SeedStore() *contentstore.Memory {
	store := contentstore.NewMemory()
	published := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	store.Put(content.CollectionCustomPages,
		contentstore.Record{
			"id": "careers", "slug": "careers", "title": "Careers",
			"content":          `<p class="lead">We are hiring.</p><script>alert(1)</script>`,
			"meta_description": "Work with us", "meta_keywords": "jobs, bandipur",
			"is_published": true, "show_in_menu": true, "menu_order": 15, "parent_menu": "who-we-are",
			"updated_at": published,
		},
		contentstore.Record{
			"id": "faq", "slug": "faq", "title": "FAQ", "content": "<p>Questions</p>",
			"is_published": true, "show_in_menu": true, "parent_menu": "nonexistent",
		},
		contentstore.Record{
			"id": "about", "slug": "about", "title": "About (custom)", "content": "<p>shadowed</p>",
			"is_published": true, "show_in_menu": false,
		},
		contentstore.Record{
			"id": "draft", "slug": "draft", "title": "Draft", "is_published": false, "show_in_menu": true,
		},
	)
	store.Put(content.CollectionSiteSettings, contentstore.Record{
		"id":            "main",
		"company_name":  "Bandipur Cable Car and Tourism Ltd.",
		"contact_email": "info@bandipurcablecar.com.np",
		"contact_phone": "+977-1-4000000",
		"opening_hours": map[string]any{"weekday": "9:00 - 17:00"},
		"social_links":  map[string]any{"facebook": "https://facebook.com/bandipurcablecar"},
	})
	store.Put(content.CollectionAnnouncements,
		contentstore.Record{"id": "a1", "title": "AGM notice", "is_active": true, "published_at": published},
		contentstore.Record{"id": "a2", "title": "Old notice", "is_active": false, "published_at": published},
	)
	store.Put(content.CollectionTeamMembers,
		contentstore.Record{"id": "t1", "name": "Ram Shrestha", "position": "Chairman", "type": "board", "display_order": 1},
		contentstore.Record{"id": "t2", "name": "Sita Gurung", "position": "CEO", "type": "management", "display_order": 2},
	)
	store.Put(content.CollectionDocuments,
		contentstore.Record{"id": "d1", "title": "Annual Report 2080/81", "category": "financial-reports", "file_url": "https://cdn.example.com/ar.pdf", "fiscal_year": "2080/81", "published_at": published},
		contentstore.Record{"id": "d2", "title": "Prospectus", "category": "ipo", "file_url": "https://cdn.example.com/prospectus.pdf", "published_at": published.Add(-time.Hour)},
	)
	return store
}
