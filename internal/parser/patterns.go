package parser

import (
	"regexp"
	"strings"

	"github.com/atikulmunna/logview/internal/model"
)

// Fields are the values a header pattern extracts from one line.
type Fields struct {
	Timestamp string
	Level     model.Level
	Label     string // verbatim level token, empty when classified
	Message   string
}

// levelSource says where a pattern's level comes from.
type levelSource int

const (
	// levelKeyword: PHP error keyword, lowercased with its space removed.
	levelKeyword levelSource = iota
	// levelToken: explicit token group, classified from the message when absent.
	levelToken
	// levelClassified: always classified from the message.
	levelClassified
)

// pattern is one log dialect. Groups are indexes into the submatch slice;
// level is 0 when the dialect has no level group.
type pattern struct {
	name    string
	re      *regexp.Regexp
	source  levelSource
	ts      int
	level   int
	message int
}

// patterns is ordered most specific first.
var patterns = []pattern{
	{
		// [08-Jan-2024 10:23:11 UTC] PHP Fatal error: Uncaught Error ...
		name:    "php-error",
		re:      regexp.MustCompile(`(?i)^\[(\d{2}-\w{3}-\d{4}\s+\d{2}:\d{2}:\d{2}(?:\s+\w+)?)\]\s*(PHP\s+)?(Fatal error|Parse error|Warning|Notice|Deprecated|Error|Exception):\s*(.+)`),
		source:  levelKeyword,
		ts:      1,
		level:   3,
		message: 4,
	},
	{
		// [08-Jan-2024 10:23:11 UTC] message
		name:    "php-bracketed",
		re:      regexp.MustCompile(`(?i)^\[(\d{2}-\w{3}-\d{4}\s+\d{2}:\d{2}:\d{2}\s+\w+)\]\s*(.+)`),
		source:  levelClassified,
		ts:      1,
		message: 2,
	},
	{
		// 2024-01-08 10:23:11.123 [ERROR] message
		name:    "iso-datetime",
		re:      regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}(?:\.\d+)?)\s*(?:\[([^\]]+)\])?\s*(.+)`),
		source:  levelToken,
		ts:      1,
		level:   2,
		message: 3,
	},
	{
		// [2024-01-08 10:23:11] production.ERROR: message
		name:    "monolog",
		re:      regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2})\]\s*\w+\.(\w+):\s*(.+)`),
		source:  levelToken,
		ts:      1,
		level:   2,
		message: 3,
	},
	{
		// [Mon Jan 08 10:23:11.123456 2024] [error] message
		name:    "apache-error",
		re:      regexp.MustCompile(`^\[(\w+\s+\w+\s+\d+\s+\d{2}:\d{2}:\d{2}(?:\.\d+)?\s+\d{4})\]\s*\[(\w+)\]\s*(.+)`),
		source:  levelToken,
		ts:      1,
		level:   2,
		message: 3,
	},
	{
		// Jan  8 10:23:11 host sshd[42]: message
		name:    "syslog",
		re:      regexp.MustCompile(`^(\w{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(.+)`),
		source:  levelClassified,
		ts:      1,
		message: 2,
	},
}

// Patterns returns the names of the recognized dialects in match order.
func Patterns() []string {
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = p.name
	}
	return names
}

// Match tries every pattern in order against a trimmed line. It returns false
// when the line is not a recognized entry header.
func Match(line string) (Fields, bool) {
	for i := range patterns {
		if f, ok := patterns[i].extract(line); ok {
			return f, true
		}
	}
	return Fields{}, false
}

func (p *pattern) extract(line string) (Fields, bool) {
	m := p.re.FindStringSubmatch(line)
	if m == nil {
		return Fields{}, false
	}

	f := Fields{Timestamp: m[p.ts], Message: m[p.message]}

	switch p.source {
	case levelKeyword:
		f.Label = strings.Replace(strings.ToLower(m[p.level]), " ", "", 1)
		f.Level = NormalizeLevel(f.Label)
	case levelToken:
		if tok := m[p.level]; tok != "" {
			f.Label = strings.ToLower(tok)
			lvl, ok := lookupLevel(tok)
			if !ok {
				lvl = Classify(f.Message)
			}
			f.Level = lvl
		} else {
			f.Level = Classify(f.Message)
		}
	default:
		f.Level = Classify(f.Message)
	}

	return f, true
}
