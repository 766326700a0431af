package backlog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the non-fatal degradation paths. These are absorbed
// inside the pipeline and logged; they never reach the CLI or API as
// failures of an add operation.
var (
	// ErrUnsupportedContent marks content that is neither HTML nor PDF.
	ErrUnsupportedContent = errors.New("unsupported content type")
	// ErrExtraction marks a parse failure in an extractor.
	ErrExtraction = errors.New("extraction failed")
	// ErrEnhancementUnavailable marks an unreachable or misbehaving model
	// service. Callers fall back to the heuristic draft.
	ErrEnhancementUnavailable = errors.New("enhancement unavailable")
)

// FetchError is fatal to an add operation: the resource could not be
// retrieved at all, so there is nothing to save.
type FetchError struct {
	URL        string
	StatusCode int // zero when the failure happened before a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup that matched no stored article.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no article found with id %q", e.ID)
}

// AmbiguousIDError reports a prefix that matched more than one article.
// Matches carries the candidate ids so callers can show them.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("id prefix %q is ambiguous (%d matches: %s)",
		e.Prefix, len(e.Matches), strings.Join(e.Matches, ", "))
}

// ValidationError reports a rejected field value before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
