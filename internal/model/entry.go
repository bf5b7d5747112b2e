package model

// Level is the normalized severity of a log entry.
type Level string

const (
	LevelError      Level = "error"
	LevelWarning    Level = "warning"
	LevelNotice     Level = "notice"
	LevelDeprecated Level = "deprecated"
	LevelInfo       Level = "info"
	LevelDebug      Level = "debug"
)

// Levels lists every valid severity, most severe first.
var Levels = []Level{LevelError, LevelWarning, LevelNotice, LevelDeprecated, LevelInfo, LevelDebug}

// Valid reports whether l is one of the six known severities.
func (l Level) Valid() bool {
	switch l {
	case LevelError, LevelWarning, LevelNotice, LevelDeprecated, LevelInfo, LevelDebug:
		return true
	}
	return false
}

// LogEntry is one logical log record, possibly spanning several physical lines.
type LogEntry struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"` // raw matched text, empty if none
	Level     Level  `json:"level" yaml:"level"`
	Label     string `json:"label,omitempty" yaml:"label,omitempty"` // verbatim level token, lowercased
	Message   string `json:"message" yaml:"message"`
	Raw       string `json:"raw" yaml:"raw"` // original lines, newline-joined
	IsNew     bool   `json:"isNew,omitempty" yaml:"-"`
}

// DisplayLevel returns the verbatim label when present, otherwise the level.
func (e LogEntry) DisplayLevel() string {
	if e.Label != "" {
		return e.Label
	}
	return string(e.Level)
}
