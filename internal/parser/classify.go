package parser

import (
	"strings"

	"github.com/atikulmunna/logview/internal/model"
)

// keywordClasses is checked in order; the first class with a keyword
// contained in the text wins.
var keywordClasses = []struct {
	keywords []string
	level    model.Level
}{
	{[]string{"fatal", "critical"}, model.LevelError},
	{[]string{"error", "exception"}, model.LevelError},
	{[]string{"warning", "warn"}, model.LevelWarning},
	{[]string{"notice"}, model.LevelNotice},
	{[]string{"deprecated"}, model.LevelDeprecated},
	{[]string{"info"}, model.LevelInfo},
	{[]string{"debug"}, model.LevelDebug},
}

// Classify detects severity from keywords in free text. Text without any
// known keyword is info.
func Classify(text string) model.Level {
	lower := strings.ToLower(text)
	for _, class := range keywordClasses {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				return class.level
			}
		}
	}
	return model.LevelInfo
}

// levelAliases maps explicit level tokens that are not enum names.
var levelAliases = map[string]model.Level{
	"fatalerror": model.LevelError,
	"parseerror": model.LevelError,
	"exception":  model.LevelError,
	"fatal":      model.LevelError,
	"crit":       model.LevelError,
	"critical":   model.LevelError,
	"alert":      model.LevelError,
	"emergency":  model.LevelError,
	"emerg":      model.LevelError,
	"err":        model.LevelError,
	"severe":     model.LevelError,
	"warn":       model.LevelWarning,
	"trace":      model.LevelDebug,
}

// NormalizeLevel maps an explicit level token (as written in the log line)
// onto one of the six severities. Unknown tokens are classified by keyword.
func NormalizeLevel(token string) model.Level {
	if lvl, ok := lookupLevel(token); ok {
		return lvl
	}
	return Classify(token)
}

// lookupLevel resolves a token that names a severity or a known alias.
func lookupLevel(token string) (model.Level, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if lvl := model.Level(t); lvl.Valid() {
		return lvl, true
	}
	lvl, ok := levelAliases[t]
	return lvl, ok
}
