package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(newViper())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Store.InitialLoad != 100 || cfg.Store.ChunkSize != 200 || cfg.Store.ScrollThreshold != 5 {
		t.Errorf("unexpected window defaults %+v", cfg.Store)
	}
	if cfg.SearchDebounce != 150*time.Millisecond {
		t.Errorf("expected 150ms debounce, got %s", cfg.SearchDebounce)
	}
	if cfg.Watch.Poll || cfg.Watch.Interval != 500*time.Millisecond {
		t.Errorf("unexpected watch defaults %+v", cfg.Watch)
	}
	if cfg.Listen != ":7878" {
		t.Errorf("expected :7878, got %q", cfg.Listen)
	}
	if cfg.LogLevel != log.InfoLevel {
		t.Errorf("expected info level, got %s", cfg.LogLevel)
	}
	if want := filepath.Join(home, ".config", "logview", "recent.toml"); cfg.RecentFile != want {
		t.Errorf("expected recent file %q, got %q", want, cfg.RecentFile)
	}
	if cfg.LogFile != "" {
		t.Errorf("expected no log file, got %q", cfg.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "logview.yaml")
	if err := os.WriteFile(path, []byte(`
initial_load: 50
chunk_size: 25
search_debounce: 300ms
poll: true
poll_interval: 1s
log_level: debug
log_file: ~/logview.log
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.InitialLoad != 50 || cfg.Store.ChunkSize != 25 {
		t.Errorf("unexpected window sizes %+v", cfg.Store)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("expected 300ms debounce, got %s", cfg.SearchDebounce)
	}
	if !cfg.Watch.Poll || cfg.Watch.Interval != time.Second {
		t.Errorf("unexpected watch options %+v", cfg.Watch)
	}
	if cfg.LogLevel != log.DebugLevel {
		t.Errorf("expected debug level, got %s", cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Errorf("expected log file under HOME %q, got %q", home, cfg.LogFile)
	}

	opts := cfg.SessionOptions()
	if opts.Store != cfg.Store || opts.SearchDebounce != cfg.SearchDebounce {
		t.Errorf("session options do not match config: %+v", opts)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{KeyInitialLoad, 0},
		{KeyChunkSize, -1},
		{KeyScrollThreshold, -2},
		{KeyScrollThreshold, 0},
		{KeySearchDebounce, "-1s"},
		{KeyPollInterval, "0s"},
		{KeyLogLevel, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			if _, err := Load(v); err == nil {
				t.Errorf("expected %s=%v to be rejected", tt.key, tt.value)
			}
		})
	}
}
