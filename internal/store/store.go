// Package store persists the article collection as a single JSON document
// shared between the CLI and a running server. Every operation re-reads the
// document and every mutation rewrites it atomically, so independent
// processes can operate on the same file without coordination.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperifyio/gobacklog/internal/backlog"
)

// Store owns the backlog document. The mutex serializes load-modify-persist
// sequences; it is never held across network or model I/O, which all
// happens before Add is called.
type Store struct {
	Path string

	// NewID and Now are swappable for tests. Nil means uuid / wall clock.
	NewID func() string
	Now   func() time.Time

	mu sync.Mutex
}

// Filter narrows List results. Zero values mean no filtering on that field.
type Filter struct {
	Status   backlog.Status
	Priority backlog.Priority
	Tag      string
	// Source matches SourceDomain by case-insensitive substring.
	Source string
}

// Add assigns identity to a draft, appends it, and persists.
func (s *Store) Add(draft backlog.Draft) (backlog.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return backlog.Article{}, err
	}
	priority := draft.Priority
	if priority == "" {
		priority = backlog.PriorityMedium
	}
	a := backlog.Article{
		ID:           s.newID(),
		URL:          draft.URL,
		Title:        draft.Title,
		Summary:      draft.Summary,
		SourceDomain: draft.SourceDomain,
		PublishedAt:  draft.PublishedAt,
		Tags:         backlog.NormalizeTags(draft.Tags),
		Priority:     priority,
		Status:       backlog.StatusUnread,
		AddedAt:      s.now(),
	}
	articles = append(articles, a)
	if err := s.persist(articles); err != nil {
		return backlog.Article{}, err
	}
	return a, nil
}

// List returns articles in insertion order, narrowed by the filter. Tag
// matching is case-insensitive set containment.
func (s *Store) List(f Filter) ([]backlog.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]backlog.Article, 0, len(articles))
	for _, a := range articles {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Priority != "" && a.Priority != f.Priority {
			continue
		}
		if f.Tag != "" && !hasTag(a.Tags, f.Tag) {
			continue
		}
		if f.Source != "" && !strings.Contains(strings.ToLower(a.SourceDomain), strings.ToLower(f.Source)) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Get resolves a full id or a unique prefix.
func (s *Store) Get(idOrPrefix string) (backlog.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return backlog.Article{}, err
	}
	i, err := resolve(articles, idOrPrefix)
	if err != nil {
		return backlog.Article{}, err
	}
	return articles[i], nil
}

// Update applies a partial patch and persists. Enum values are validated
// before anything is written.
func (s *Store) Update(idOrPrefix string, patch backlog.Patch) (backlog.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return backlog.Article{}, err
	}
	i, err := resolve(articles, idOrPrefix)
	if err != nil {
		return backlog.Article{}, err
	}
	a := articles[i]
	if patch.Priority != nil {
		if strings.TrimSpace(*patch.Priority) == "" {
			return backlog.Article{}, &backlog.ValidationError{Field: "priority", Reason: "must not be empty"}
		}
		p, err := backlog.ParsePriority(*patch.Priority)
		if err != nil {
			return backlog.Article{}, err
		}
		a.Priority = p
	}
	if patch.Title != nil {
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Summary != nil {
		a.Summary = strings.TrimSpace(*patch.Summary)
	}
	if patch.Tags != nil {
		a.Tags = backlog.NormalizeTags(*patch.Tags)
	}
	articles[i] = a
	if err := s.persist(articles); err != nil {
		return backlog.Article{}, err
	}
	return a, nil
}

// SetStatus toggles read state while maintaining the read_at invariant.
// Re-marking a read article as read is a no-op and keeps the original
// timestamp; both directions are idempotent.
func (s *Store) SetStatus(idOrPrefix string, status backlog.Status) (backlog.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return backlog.Article{}, err
	}
	i, err := resolve(articles, idOrPrefix)
	if err != nil {
		return backlog.Article{}, err
	}
	a := articles[i]
	switch status {
	case backlog.StatusRead:
		if a.Status != backlog.StatusRead {
			now := s.now()
			a.Status = backlog.StatusRead
			a.ReadAt = &now
		}
	case backlog.StatusUnread:
		a.Status = backlog.StatusUnread
		a.ReadAt = nil
	default:
		return backlog.Article{}, &backlog.ValidationError{Field: "status", Reason: "must be one of unread, read"}
	}
	articles[i] = a
	if err := s.persist(articles); err != nil {
		return backlog.Article{}, err
	}
	return a, nil
}

// Delete removes an article permanently.
func (s *Store) Delete(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	articles, err := s.load()
	if err != nil {
		return err
	}
	i, err := resolve(articles, idOrPrefix)
	if err != nil {
		return err
	}
	articles = append(articles[:i], articles[i+1:]...)
	return s.persist(articles)
}

// resolve finds the index of a full id or unique prefix. Exact matches win
// outright; otherwise a prefix scan over the sorted id set decides between
// not-found, unique, and ambiguous.
func resolve(articles []backlog.Article, idOrPrefix string) (int, error) {
	if strings.TrimSpace(idOrPrefix) == "" {
		return 0, &backlog.NotFoundError{ID: idOrPrefix}
	}
	byID := make(map[string]int, len(articles))
	ids := make([]string, 0, len(articles))
	for i, a := range articles {
		byID[a.ID] = i
		ids = append(ids, a.ID)
	}
	if i, ok := byID[idOrPrefix]; ok {
		return i, nil
	}
	sort.Strings(ids)
	start := sort.SearchStrings(ids, idOrPrefix)
	var matches []string
	for _, id := range ids[start:] {
		if !strings.HasPrefix(id, idOrPrefix) {
			break
		}
		matches = append(matches, id)
	}
	switch len(matches) {
	case 0:
		return 0, &backlog.NotFoundError{ID: idOrPrefix}
	case 1:
		return byID[matches[0]], nil
	}
	return 0, &backlog.AmbiguousIDError{Prefix: idOrPrefix, Matches: matches}
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// load reads the document. A missing or empty file is an empty collection;
// corrupt JSON is surfaced rather than silently treated as empty, because
// overwriting it later would destroy data.
func (s *Store) load() ([]backlog.Article, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, nil
	}
	var articles []backlog.Article
	if err := json.Unmarshal(b, &articles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return articles, nil
}

// persist writes the document atomically: marshal to a temp file in the
// same directory, then rename over the target.
func (s *Store) persist(articles []backlog.Article) error {
	if articles == nil {
		articles = []backlog.Article{}
	}
	b, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path)
}

func (s *Store) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
