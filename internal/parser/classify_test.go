package parser

import (
	"testing"

	"github.com/atikulmunna/logview/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want model.Level
	}{
		{"FATAL: out of memory", model.LevelError},
		{"Critical section entered", model.LevelError},
		{"unhandled Exception in worker", model.LevelError},
		{"connection error", model.LevelError},
		{"WARN disk usage", model.LevelWarning},
		{"Warning: low battery", model.LevelWarning},
		{"NOTICE: config reloaded", model.LevelNotice},
		{"method is Deprecated", model.LevelDeprecated},
		{"INFO server started", model.LevelInfo},
		{"debug: cache miss", model.LevelDebug},
		{"nothing to see here", model.LevelInfo},
		{"", model.LevelInfo},
		// Earlier classes win.
		{"deprecated warning", model.LevelWarning},
		{"info: error while saving", model.LevelError},
		{"notice for debug builds", model.LevelNotice},
	}

	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q): expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct {
		token string
		want  model.Level
	}{
		{"ERROR", model.LevelError},
		{" warning ", model.LevelWarning},
		{"WARN", model.LevelWarning},
		{"fatalerror", model.LevelError},
		{"parseerror", model.LevelError},
		{"exception", model.LevelError},
		{"crit", model.LevelError},
		{"EMERGENCY", model.LevelError},
		{"alert", model.LevelError},
		{"notice", model.LevelNotice},
		{"deprecated", model.LevelDeprecated},
		{"trace", model.LevelDebug},
		{"DEBUG", model.LevelDebug},
		{"main", model.LevelInfo},
	}

	for _, tt := range tests {
		if got := NormalizeLevel(tt.token); got != tt.want {
			t.Errorf("NormalizeLevel(%q): expected %s, got %s", tt.token, tt.want, got)
		}
	}
}
