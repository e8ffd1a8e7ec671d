// Package routes holds the compiled-in route table and resolves request paths
// to static pages or published custom pages.
package routes

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// PageID names a page the site renders from a template.
type PageID string

const (
	PageHome              PageID = "home"
	PageAbout             PageID = "about"
	PageCompanySnapshot   PageID = "company-snapshot"
	PageCEOMessage        PageID = "ceo-message"
	PageStructure         PageID = "structure"
	PageGovernance        PageID = "governance"
	PageChairmanMessage   PageID = "chairman-message"
	PageAwards            PageID = "awards"
	PageCSR               PageID = "csr"
	PageProjects          PageID = "projects"
	PageProjectDetail     PageID = "project-detail"
	PageAssociates        PageID = "associates"
	PageInvestors         PageID = "investors"
	PageBasicShareholders PageID = "basic-shareholders"
	PageIPO               PageID = "ipo"
	PageDownloads         PageID = "downloads"
	PageMedia             PageID = "media"
	PageProgress          PageID = "progress"
	PageContact           PageID = "contact"
	// PageCustom is bound to the catch-all and served from the content store.
	PageCustom PageID = "custom-page"
)

// Entry binds a path pattern to a page. A segment written as {name} matches
// any single non-empty segment and is reported under name.
type Entry struct {
	Pattern string `json:"pattern"`
	PageID  PageID `json:"pageId"`
}

var (
	// ErrInvalidPattern reports a pattern that is empty, relative or has an empty parameter name.
	ErrInvalidPattern = errors.New("routes: invalid pattern")
	// ErrDuplicatePattern reports the same pattern bound twice.
	ErrDuplicatePattern = errors.New("routes: duplicate pattern")
	// ErrCatchAllPosition reports a catch-all that is not the final entry.
	ErrCatchAllPosition = errors.New("routes: catch-all must be the last entry")
)

// DefaultEntries is the site's route table. Several paths alias the same
// page; every alias is a valid address for it.
var DefaultEntries = []Entry{
	{"/", PageHome},

	{"/about", PageAbout},
	{"/about-bandipur", PageCompanySnapshot},
	{"/message-from-ceo", PageCEOMessage},
	{"/structure", PageStructure},
	{"/our-structure", PageStructure},
	{"/governance", PageGovernance},
	{"/chairman-message", PageChairmanMessage},
	{"/awards", PageAwards},
	{"/award-recognition", PageAwards},
	{"/csr", PageCSR},

	{"/projects", PageProjects},
	{"/projects/{slug}", PageProjectDetail},
	{"/cablecar", PageProjects},
	{"/hotel", PageProjects},
	{"/sky-cycling", PageProjects},
	{"/zipline", PageProjects},
	{"/associates", PageAssociates},

	{"/investors", PageInvestors},
	{"/basic-shareholders", PageBasicShareholders},
	{"/ipo", PageIPO},
	{"/downloads", PageDownloads},
	{"/agm", PageInvestors},
	{"/financial-reports", PageInvestors},

	{"/media", PageMedia},
	{"/news", PageMedia},
	{"/announcements", PageMedia},
	{"/progress", PageProgress},

	{"/contact", PageContact},

	{"/{slug}", PageCustom},
}

// Default is the compiled table built from DefaultEntries.
var Default = MustNewTable(DefaultEntries)

// Match is the outcome of a table lookup.
type Match struct {
	Entry  Entry
	Params map[string]string
	// CatchAll is set when only the trailing single-segment pattern matched.
	CatchAll bool
}

type compiled struct {
	entry    Entry
	segments []string
}

// Table is an immutable, validated route table. It is safe for concurrent use.
type Table struct {
	entries  []Entry
	exact    map[string]Entry
	params   []compiled
	catchAll *compiled
}

// NewTable validates entries and compiles them into a Table. Patterns are
// compared case-insensitively.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: append([]Entry(nil), entries...),
		exact:   make(map[string]Entry, len(entries)),
	}
	seen := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		pattern := strings.ToLower(entry.Pattern)
		if !strings.HasPrefix(pattern, "/") || entry.PageID == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, entry.Pattern)
		}
		pattern = cleanPath(pattern)
		if _, dup := seen[pattern]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, entry.Pattern)
		}
		seen[pattern] = struct{}{}

		segments := splitPath(pattern)
		hasParam := false
		for _, seg := range segments {
			if name, ok := paramName(seg); ok {
				if name == "" {
					return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, entry.Pattern)
				}
				hasParam = true
			}
		}

		switch {
		case !hasParam:
			t.exact[pattern] = entry
		case len(segments) == 1:
			if i != len(entries)-1 {
				return nil, fmt.Errorf("%w: %q at position %d", ErrCatchAllPosition, entry.Pattern, i)
			}
			t.catchAll = &compiled{entry: entry, segments: segments}
		default:
			t.params = append(t.params, compiled{entry: entry, segments: segments})
		}
	}
	return t, nil
}

// MustNewTable is NewTable for compiled-in tables; it panics on invalid input.
func MustNewTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Entries returns a copy of the entries in declaration order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Match finds the entry for p. Exact patterns win over parameterised ones,
// which win over the catch-all.
func (t *Table) Match(p string) (Match, bool) {
	p = cleanPath(p)
	lookup := strings.ToLower(p)

	if entry, ok := t.exact[lookup]; ok {
		return Match{Entry: entry}, true
	}

	segments := splitPath(p)
	for _, c := range t.params {
		if params, ok := c.bind(segments); ok {
			return Match{Entry: c.entry, Params: params}, true
		}
	}
	if t.catchAll != nil {
		if params, ok := t.catchAll.bind(segments); ok {
			return Match{Entry: t.catchAll.entry, Params: params, CatchAll: true}, true
		}
	}
	return Match{}, false
}

func (c compiled) bind(segments []string) (map[string]string, bool) {
	if len(segments) != len(c.segments) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range c.segments {
		if name, ok := paramName(seg); ok {
			if segments[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[name] = segments[i]
			continue
		}
		if !strings.EqualFold(seg, segments[i]) {
			return nil, false
		}
	}
	return params, true
}

func paramName(seg string) (string, bool) {
	if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
		return strings.TrimSpace(seg[1 : len(seg)-1]), true
	}
	return "", false
}

func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
