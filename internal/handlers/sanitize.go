package handlers

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Custom page bodies are editor HTML; everything rendered passes this policy.
var pageHTMLPolicy = newPageHTMLPolicy()

func newPageHTMLPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption", "section")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div", "section", "table")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

func sanitizeContent(raw string) string {
	if raw == "" {
		return ""
	}
	return pageHTMLPolicy.Sanitize(raw)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("January 2, 2006")
}
