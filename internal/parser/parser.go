// Package parser turns raw log text into structured entries.
package parser

import (
	"strings"

	"github.com/atikulmunna/logview/internal/model"
)

// Parse converts a block of log text into entries, newest first.
//
// Lines matching a header pattern start a new entry. Other lines are
// continuations of the open entry (stack traces, wrapped messages); when no
// entry is open yet they start a synthetic one with no timestamp. Blank lines
// are dropped. Parse never fails.
func Parse(content string) []model.LogEntry {
	var (
		entries []model.LogEntry
		current *model.LogEntry
	)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if f, ok := Match(trimmed); ok {
			if current != nil {
				entries = append(entries, *current)
			}
			current = &model.LogEntry{
				Timestamp: f.Timestamp,
				Level:     f.Level,
				Label:     f.Label,
				Message:   f.Message,
				Raw:       trimmed,
			}
			continue
		}

		if current != nil {
			current.Message += "\n" + trimmed
			current.Raw += "\n" + trimmed
			continue
		}

		current = &model.LogEntry{
			Level:   Classify(trimmed),
			Message: trimmed,
			Raw:     trimmed,
		}
	}

	if current != nil {
		entries = append(entries, *current)
	}

	reverse(entries)
	return entries
}

// Reconstruct joins the raw text of newest-first entries back into file
// order. Parsing the result yields the same entries.
func Reconstruct(entries []model.LogEntry) string {
	var b strings.Builder
	for i := len(entries) - 1; i >= 0; i-- {
		b.WriteString(entries[i].Raw)
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func reverse(entries []model.LogEntry) {
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
}
