package content

import (
	"context"
	"strings"
	"testing"

	"github.com/bandipurcablecar/website-sub001/internal/contentstore"
)

// The repository ships a content directory used by local runs and the seeder.
func TestBundledContentDecodes(t *testing.T) {
	store, err := contentstore.LoadDir("../../content")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	svc := newTestService(t, store)
	ctx := context.Background()

	pages, err := svc.MenuPages(ctx)
	if err != nil {
		t.Fatalf("MenuPages: %v", err)
	}
	var slugs []string
	for _, p := range pages {
		slugs = append(slugs, p.Slug)
	}
	if strings.Join(slugs, ",") != "careers,visitor-guide" {
		t.Fatalf("unexpected menu pages %v", slugs)
	}
	if pages[0].ParentMenuKey != "who-we-are" || pages[0].Order() != 15 {
		t.Fatalf("unexpected careers entry %+v", pages[0])
	}

	page, err := svc.PublishedPage(ctx, "visitor-guide")
	if err != nil || page == nil {
		t.Fatalf("PublishedPage: %v %v", page, err)
	}
	if !strings.Contains(page.Content, "<table>") {
		t.Fatalf("expected markdown table rendered to HTML, got %q", page.Content)
	}

	settings := svc.Settings(ctx)
	if settings.CompanyName != "Bandipur Cable Car and Tourism Ltd." || settings.OpeningHours["weekend"] == "" {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if got := len(svc.Announcements(ctx)); got != 2 {
		t.Fatalf("expected 2 active announcements, got %d", got)
	}
	if got := len(svc.TeamMembers(ctx, TeamBoard)); got != 2 {
		t.Fatalf("expected 2 board members, got %d", got)
	}
	reports := svc.Documents(ctx, "financial-reports")
	if len(reports) != 2 || reports[0].ID != "q1-report-2081-82" {
		t.Fatalf("unexpected financial reports %+v", reports)
	}
}
