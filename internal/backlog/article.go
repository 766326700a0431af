// Package backlog defines the domain model for the reading backlog:
// articles, drafts, the priority/status enumerations, and the error
// taxonomy shared by storage, pipeline, and the outer surfaces.
package backlog

import (
	"strings"
	"time"
)

// Priority is the reading priority of an article.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string. Empty input maps to the
// default medium priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
}

// Status is the read state of an article.
type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUnread:
		return StatusUnread, nil
	case StatusRead:
		return StatusRead, nil
	}
	return "", &ValidationError{Field: "status", Reason: "must be one of unread, read"}
}

// Article is the persisted entity. The id and added_at fields are assigned
// by the store at creation and never change afterwards. Status and read_at
// move together: read implies a non-nil read_at, unread implies nil.
type Article struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Summary      string     `json:"summary"`
	SourceDomain string     `json:"source_domain"`
	PublishedAt  string     `json:"published_at,omitempty"`
	Tags         []string   `json:"tags"`
	Priority     Priority   `json:"priority"`
	Status       Status     `json:"status"`
	AddedAt      time.Time  `json:"added_at"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
}

// Draft is the transient output of the extraction pipeline before
// persistence assigns an identity. It is owned by the pipeline call stack
// and never stored as-is.
type Draft struct {
	URL          string
	Title        string
	Summary      string
	SourceDomain string
	PublishedAt  string
	Tags         []string
	Priority     Priority
}

// Patch is a partial update to an article. Nil fields are left unchanged.
// Status transitions go through Store.SetStatus so the read_at invariant
// stays in one place.
type Patch struct {
	Title    *string   `json:"title,omitempty"`
	Summary  *string   `json:"summary,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Priority *string   `json:"priority,omitempty"`
}

// NormalizeTags trims, drops empties, and removes duplicates
// case-insensitively while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		s := strings.TrimSpace(t)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// MergeTags appends suggested tags after the user-supplied ones,
// deduplicating across both lists. Suggested tags are lowercased since
// model output casing is not stable.
func MergeTags(user, suggested []string) []string {
	merged := make([]string, 0, len(user)+len(suggested))
	merged = append(merged, user...)
	for _, t := range suggested {
		merged = append(merged, strings.ToLower(strings.TrimSpace(t)))
	}
	return NormalizeTags(merged)
}
