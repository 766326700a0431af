// Package pipeline orchestrates fetch, classification, extraction, and
// optional enhancement into a backlog.Draft. Fetch failure is fatal to an
// add; everything downstream degrades to a simpler deterministic result.
package pipeline

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gobacklog/internal/backlog"
	"github.com/hyperifyio/gobacklog/internal/enhance"
	"github.com/hyperifyio/gobacklog/internal/extract"
	"github.com/hyperifyio/gobacklog/internal/fetch"
)

// Fetcher retrieves bytes and a content-type signal for a URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Request describes a single add. Exactly one of URL or LocalPath is set.
type Request struct {
	URL       string
	LocalPath string
	Tags      []string
	Priority  backlog.Priority
}

// Result pairs a draft with the error from a pipeline run, for the
// channel-based call shape.
type Result struct {
	Draft backlog.Draft
	Err   error
}

// Pipeline wires the extraction stages together.
type Pipeline struct {
	Fetcher Fetcher
	Refiner *enhance.Refiner
	// ReadFile is swappable for tests; nil means fetch.ReadLocal.
	ReadFile func(path string) ([]byte, string, error)
}

// Run executes fetch → classify → extract → enhance and returns the draft.
// This is the blocking call shape used by the CLI; Go wraps the identical
// logic for callers that must not stall.
func (p *Pipeline) Run(ctx context.Context, req Request) (backlog.Draft, error) {
	if req.LocalPath != "" {
		return p.runLocal(ctx, req)
	}
	data, contentType, err := p.Fetcher.Get(ctx, req.URL)
	if err != nil {
		return backlog.Draft{}, err
	}

	draft := backlog.Draft{
		URL:          req.URL,
		SourceDomain: extract.Domain(req.URL),
		Priority:     req.Priority,
	}
	kind := extract.Detect(req.URL, contentType, data)
	res := p.extractByKind(kind, data, req.URL, urlFilename(req.URL))
	p.finish(ctx, &draft, res, req.Tags, req.URL)
	return draft, nil
}

// Go is the non-blocking call shape: it runs the identical sequence in a
// goroutine and delivers the result on the returned channel.
func (p *Pipeline) Go(ctx context.Context, req Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		draft, err := p.Run(ctx, req)
		ch <- Result{Draft: draft, Err: err}
	}()
	return ch
}

func (p *Pipeline) runLocal(ctx context.Context, req Request) (backlog.Draft, error) {
	readFile := p.ReadFile
	if readFile == nil {
		readFile = fetch.ReadLocal
	}
	data, name, err := readFile(req.LocalPath)
	if err != nil {
		return backlog.Draft{}, err
	}

	draft := backlog.Draft{
		URL:          "file://" + req.LocalPath,
		SourceDomain: name,
		Priority:     req.Priority,
	}
	kind := extract.Detect(name, "", data)
	res := p.extractByKind(kind, data, name, name)
	p.finish(ctx, &draft, res, req.Tags, name)
	return draft, nil
}

// extractByKind runs the extractor for the detected kind, degrading to a
// minimal result on any extraction failure: the source reference becomes
// the title and the summary stays empty. Saving must never be blocked by a
// parse problem.
func (p *Pipeline) extractByKind(kind extract.Kind, data []byte, ref, filename string) extract.Result {
	var (
		res extract.Result
		err error
	)
	switch kind {
	case extract.KindPDF:
		res, err = extract.FromPDF(data, filename)
	case extract.KindHTML:
		res, err = extract.FromHTML(data, ref)
	default:
		err = backlog.ErrUnsupportedContent
	}
	if err != nil {
		log.Warn().Err(err).Str("source", ref).Str("kind", kind.String()).
			Msg("extraction degraded to minimal draft")
		return extract.Result{Title: ref}
	}
	return res
}

// finish applies enhancement and tag merging to the draft in place.
func (p *Pipeline) finish(ctx context.Context, draft *backlog.Draft, res extract.Result, userTags []string, ref string) {
	draft.Title = res.Title
	draft.Summary = res.Summary
	draft.PublishedAt = res.PublishedAt

	if refined, ok := p.Refiner.Refine(ctx, res.Text, enhance.Hint{Title: res.Title, Summary: res.Summary}); ok {
		draft.Title = refined.Title
		draft.Summary = refined.Summary
		draft.Tags = backlog.MergeTags(userTags, refined.SuggestedTags)
		log.Debug().Str("source", ref).Msg("draft refined by model")
	} else {
		draft.Tags = backlog.NormalizeTags(userTags)
	}
	if draft.Priority == "" {
		draft.Priority = backlog.PriorityMedium
	}
}

// urlFilename returns the last path element of a URL for PDF naming.
func urlFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	name, err2 := url.PathUnescape(path.Base(u.Path))
	if err2 != nil || name == "." || name == "/" || strings.TrimSpace(name) == "" {
		return rawURL
	}
	return name
}
