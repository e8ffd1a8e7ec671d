package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string         `json:"href"`
	Label    string         `json:"label"`
	Active   bool           `json:"active"`
	Children []RenderedItem `json:"children,omitempty"`
}

// Crumb represents a breadcrumb entry.
type Crumb struct {
	Href   string `json:"href"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Render marks the items matching currentPath as active. A parent is active
// when any of its children is.
func Render(items []Item, currentPath string) []RenderedItem {
	currentPath = normalizePath(currentPath)
	out := make([]RenderedItem, 0, len(items))
	for _, item := range items {
		rendered := RenderedItem{
			Href:   item.Path,
			Label:  item.Label,
			Active: isActive(item.Path, currentPath),
		}
		if len(item.Children) > 0 {
			rendered.Children = Render(item.Children, currentPath)
			for _, child := range rendered.Children {
				if child.Active {
					rendered.Active = true
					break
				}
			}
		}
		out = append(out, rendered)
	}
	return out
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	return currentPath == itemPath || strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds the trail for currentPath, starting at Home. Segments
// take their label from the menu when a matching entry exists.
func Breadcrumbs(currentPath string, items []Item) []Crumb {
	currentPath = normalizePath(currentPath)
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	parts := strings.Split(strings.TrimPrefix(currentPath, "/"), "/")
	href := ""
	for i, part := range parts {
		href += "/" + part
		label, ok := labelFor(items, href)
		if !ok {
			label = titleFromSegment(part)
		}
		crumbs = append(crumbs, Crumb{Href: href, Label: label, Active: i == len(parts)-1})
	}
	return crumbs
}

// labelFor prefers dropdown entries, which name pages more precisely than the
// section headings that share their path.
func labelFor(items []Item, p string) (string, bool) {
	for _, item := range items {
		for _, child := range item.Children {
			if child.Path == p {
				return child.Label, true
			}
		}
	}
	for _, item := range items {
		if item.Path == p {
			return item.Label, true
		}
	}
	return "", false
}

func titleFromSegment(seg string) string {
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	// Casers carry state, so each call gets its own.
	return cases.Title(language.English).String(strings.TrimSpace(seg))
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
