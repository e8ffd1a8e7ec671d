// Package nav composes the site menu from the fixed section hierarchy and the
// custom pages editors flag for the menu.
package nav

import (
	"sort"

	"github.com/bandipurcablecar/website-sub001/internal/content"
)

// Item is one navigation entry. Top-level items may carry children, which are
// kept sorted by Order.
type Item struct {
	Key       string `json:"key,omitempty"`
	Label     string `json:"label"`
	Path      string `json:"path"`
	Order     int    `json:"order"`
	ParentKey string `json:"parentKey,omitempty"`
	Children  []Item `json:"children,omitempty"`
}

// ContactOrder keeps Contact after every other entry unless an editor
// deliberately orders past it.
const ContactOrder = 1000

// Contact is appended to every composed menu.
var Contact = Item{Key: "contact", Label: "Contact", Path: "/contact", Order: ContactOrder}

// Main is the fixed section hierarchy. Keys of the first three entries are the
// parent keys editors use to place custom pages in a dropdown.
var Main = []Item{
	{
		Key: "who-we-are", Label: "Who We Are", Path: "/about", Order: 10,
		Children: []Item{
			{Label: "Message from CEO", Path: "/message-from-ceo", Order: 10},
			{Label: "About Bandipur", Path: "/about", Order: 20},
			{Label: "Our Structure", Path: "/structure", Order: 30},
			{Label: "Corporate Governance", Path: "/governance", Order: 40},
			{Label: "Awards & Recognition", Path: "/awards", Order: 50},
			{Label: "CSR", Path: "/csr", Order: 60},
		},
	},
	{
		Key: "what-we-do", Label: "What We Do", Path: "/projects", Order: 20,
		Children: []Item{
			{Label: "Cablecar and Hotel", Path: "/projects", Order: 10},
		},
	},
	{
		Key: "investors", Label: "Investors", Path: "/investors", Order: 30,
		Children: []Item{
			{Label: "Financial Reports", Path: "/investors", Order: 10},
			{Label: "Basic Shareholder", Path: "/basic-shareholders", Order: 20},
			{Label: "IPO", Path: "/ipo", Order: 30},
		},
	},
	{Key: "progress", Label: "Progress Stories", Path: "/progress", Order: 40},
	{Key: "associates", Label: "Associates", Path: "/associates", Order: 50},
	{Key: "downloads", Label: "Downloads", Path: "/downloads", Order: 60},
	{Key: "media", Label: "Media Center", Path: "/media", Order: 70},
}

// Build merges the static hierarchy with menu-eligible pages. It never mutates
// its inputs and always returns the same tree for the same inputs.
//
// A page whose parent key names a top-level static item joins that item's
// children; any other page becomes a top-level entry. Contact is appended
// last and the top level is then stably sorted by Order.
func Build(static []Item, pages []content.Page) []Item {
	items := Clone(static)

	parents := make(map[string]int, len(items))
	for i, item := range items {
		if item.Key == "" {
			continue
		}
		if _, seen := parents[item.Key]; !seen {
			parents[item.Key] = i
		}
	}

	touched := make(map[int]struct{})
	for _, page := range pages {
		if !page.InMenu() || page.Slug == "" {
			continue
		}
		entry := Item{
			Label:     page.Title,
			Path:      "/" + page.Slug,
			Order:     page.Order(),
			ParentKey: page.ParentMenuKey,
		}
		if idx, ok := parents[page.ParentMenuKey]; ok && page.ParentMenuKey != "" {
			items[idx].Children = append(items[idx].Children, entry)
			touched[idx] = struct{}{}
			continue
		}
		items = append(items, entry)
	}

	for idx := range touched {
		sortByOrder(items[idx].Children)
	}

	items = append(items, Contact)
	sortByOrder(items)
	return items
}

// Clone deep-copies items and their children.
func Clone(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = item
		out[i].Children = Clone(item.Children)
	}
	return out
}

// Find returns the first item, at any depth, whose path equals p.
func Find(items []Item, p string) (Item, bool) {
	for _, item := range items {
		if item.Path == p {
			return item, true
		}
		if child, ok := Find(item.Children, p); ok {
			return child, true
		}
	}
	return Item{}, false
}

func sortByOrder(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
}
