package store

import (
	"fmt"
	"strings"

	"github.com/atikulmunna/logview/internal/model"
)

// LevelFilter selects a group of severities.
type LevelFilter string

const (
	FilterAll     LevelFilter = "all"
	FilterError   LevelFilter = "error"
	FilterWarning LevelFilter = "warning"
	FilterInfo    LevelFilter = "info"
)

// ParseLevelFilter accepts a filter name; empty means all.
func ParseLevelFilter(s string) (LevelFilter, error) {
	switch f := LevelFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterError, FilterWarning, FilterInfo:
		return f, nil
	default:
		return "", fmt.Errorf("invalid level filter %q (must be all, error, warning, or info)", s)
	}
}

// Allows reports whether a severity belongs to the filter's group.
func (f LevelFilter) Allows(l model.Level) bool {
	switch f {
	case FilterError:
		return l == model.LevelError
	case FilterWarning:
		return l == model.LevelWarning || l == model.LevelDeprecated
	case FilterInfo:
		return l == model.LevelInfo || l == model.LevelNotice || l == model.LevelDebug
	default:
		return true
	}
}

// normalizeQuery lowercases and trims a search query.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// matches applies both predicates; query must already be normalized.
func matches(e model.LogEntry, f LevelFilter, query string) bool {
	if !f.Allows(e.Level) {
		return false
	}
	if query == "" {
		return true
	}
	searchable := strings.ToLower(e.Message + e.Timestamp + string(e.Level) + e.Label)
	return strings.Contains(searchable, query)
}

// Match reports whether one entry passes the level filter and search query.
func Match(e model.LogEntry, f LevelFilter, query string) bool {
	return matches(e, f, normalizeQuery(query))
}

// Filter returns the entries passing both the level filter and the
// case-insensitive search query, in their original order.
func Filter(entries []model.LogEntry, f LevelFilter, query string) []model.LogEntry {
	q := normalizeQuery(query)
	out := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if matches(e, f, q) {
			out = append(out, e)
		}
	}
	return out
}

// Window returns the first n entries of view, or all of them when n exceeds its length.
func Window(view []model.LogEntry, n int) []model.LogEntry {
	if n < 0 {
		n = 0
	}
	if n > len(view) {
		n = len(view)
	}
	return view[:n]
}
