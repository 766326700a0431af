package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hyperifyio/gobacklog/internal/backlog"
)

var priorityRank = map[backlog.Priority]int{
	backlog.PriorityHigh:   0,
	backlog.PriorityMedium: 1,
	backlog.PriorityLow:    2,
}

// Export renders the collection as a markdown document grouped by status,
// high priority first within each group. It is read-only.
func (s *Store) Export() (string, error) {
	articles, err := s.List(Filter{})
	if err != nil {
		return "", err
	}

	var unread, read []backlog.Article
	for _, a := range articles {
		if a.Status == backlog.StatusRead {
			read = append(read, a)
		} else {
			unread = append(unread, a)
		}
	}
	sort.SliceStable(unread, func(i, j int) bool {
		return priorityRank[unread[i].Priority] < priorityRank[unread[j].Priority]
	})

	var b strings.Builder
	b.WriteString("# Reading Backlog\n\n")
	fmt.Fprintf(&b, "*Exported: %s*\n\n", s.now().Format("2006-01-02 15:04"))

	if len(unread) > 0 {
		b.WriteString("## Unread\n\n")
		for _, a := range unread {
			fmt.Fprintf(&b, "- [%s](%s) [%s]", a.Title, a.URL, a.Priority)
			for _, t := range a.Tags {
				fmt.Fprintf(&b, " `%s`", t)
			}
			b.WriteString("\n")
			if a.Summary != "" {
				fmt.Fprintf(&b, "  > %s\n", clip(a.Summary, 100))
			}
		}
		b.WriteString("\n")
	}
	if len(read) > 0 {
		b.WriteString("## Read\n\n")
		for _, a := range read {
			fmt.Fprintf(&b, "- [%s](%s)\n", a.Title, a.URL)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
