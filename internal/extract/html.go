package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/hyperifyio/gobacklog/internal/backlog"
)

// FromHTML extracts readable text and metadata from an HTML page.
// Readability strips boilerplate; when it cannot produce a document the
// plain node walk in fallback.go is used instead. Title fallback order:
// readability title, <title>, first heading, "Article from <domain>", the
// URL itself.
func FromHTML(data []byte, rawURL string) (Result, error) {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		pageURL = &url.URL{}
	}

	var title, text, published string
	if art, err := readability.FromReader(bytes.NewReader(data), pageURL); err == nil {
		title = CleanText(art.Title)
		text = art.TextContent
		if art.PublishedTime != nil {
			published = art.PublishedTime.Format("2006-01-02")
		}
	}

	doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if text == "" {
		if docErr != nil {
			return Result{}, fmt.Errorf("%w: parse html: %v", backlog.ErrExtraction, docErr)
		}
		title, text = walkDocument(data)
	}
	if strings.TrimSpace(text) == "" && strings.TrimSpace(title) == "" {
		return Result{}, fmt.Errorf("%w: no readable content", backlog.ErrExtraction)
	}

	if doc != nil {
		if title == "" {
			title = CleanText(doc.Find("title").First().Text())
		}
		if title == "" {
			title = CleanText(doc.Find("h1, h2").First().Text())
		}
		if published == "" {
			published = metaPublishedDate(doc)
		}
	}
	if title == "" {
		if d := Domain(rawURL); d != "" {
			title = "Article from " + d
		} else {
			title = rawURL
		}
	}

	return Result{
		Title:       title,
		Text:        CleanText(text),
		Summary:     Summarize(text),
		PublishedAt: published,
	}, nil
}

// metaPublishedDate reads the publication date from structured metadata
// tags only.
func metaPublishedDate(doc *goquery.Document) string {
	selectors := []struct{ sel, attr string }{
		{`meta[property="article:published_time"]`, "content"},
		{`meta[name="article:published_time"]`, "content"},
		{`meta[name="date"]`, "content"},
		{`meta[name="publish-date"]`, "content"},
		{`meta[itemprop="datePublished"]`, "content"},
		{`time[datetime]`, "datetime"},
	}
	for _, s := range selectors {
		if v, ok := doc.Find(s.sel).First().Attr(s.attr); ok {
			if d := normalizeDate(v); d != "" {
				return d
			}
		}
	}
	return ""
}
