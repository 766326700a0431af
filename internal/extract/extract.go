// Package extract turns fetched bytes into plain text plus best-effort
// title and publication metadata. It never blocks a save: parse failures
// surface as errors the pipeline degrades from.
package extract

import (
	"net/url"
	"strings"
	"time"
)

// SummaryLength is the truncation point for heuristic summaries.
const SummaryLength = 200

// Result is the normalized output of an extractor.
type Result struct {
	Title       string
	Text        string
	Summary     string
	PublishedAt string
}

// Summarize returns the first SummaryLength characters of cleaned text,
// with an ellipsis when truncated.
func Summarize(text string) string {
	s := CleanText(text)
	if len(s) <= SummaryLength {
		return s
	}
	// Cut on a rune boundary.
	runes := []rune(s)
	if len(runes) <= SummaryLength {
		return s
	}
	return string(runes[:SummaryLength]) + "..."
}

// CleanText collapses all whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Domain extracts the host from a URL, minus any www. prefix. Empty for
// unparseable input and local files.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// dateLayouts are the structured-metadata date formats accepted for
// published_at. Dates are never guessed from body text.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// normalizeDate reduces a source-supplied date string to YYYY-MM-DD when it
// matches a known layout, otherwise returns the trimmed original.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
