// Package config decodes the viewer settings from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/atikulmunna/logview/internal/session"
	"github.com/atikulmunna/logview/internal/store"
	"github.com/atikulmunna/logview/internal/watcher"
)

// Keys read from the config file, environment (LOGVIEW_*) and flags.
const (
	KeyInitialLoad     = "initial_load"
	KeyChunkSize       = "chunk_size"
	KeyScrollThreshold = "scroll_threshold"
	KeySearchDebounce  = "search_debounce"
	KeyPoll            = "poll"
	KeyPollInterval    = "poll_interval"
	KeyRecentFile      = "recent_file"
	KeyListen          = "listen"
	KeyLogLevel        = "log_level"
	KeyLogFile         = "log_file"
)

const (
	defaultRecentFile = "~/.config/logview/recent.toml"
	defaultListen     = ":7878"
)

// Config holds the resolved settings.
type Config struct {
	Store          store.Options
	SearchDebounce time.Duration
	Watch          watcher.Options
	RecentFile     string
	Listen         string
	LogLevel       log.Level
	LogFile        string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyInitialLoad, store.DefaultInitialLoad)
	v.SetDefault(KeyChunkSize, store.DefaultChunkSize)
	v.SetDefault(KeyScrollThreshold, store.DefaultScrollThreshold)
	v.SetDefault(KeySearchDebounce, session.DefaultSearchDebounce)
	v.SetDefault(KeyPoll, false)
	v.SetDefault(KeyPollInterval, watcher.DefaultInterval)
	v.SetDefault(KeyRecentFile, defaultRecentFile)
	v.SetDefault(KeyListen, defaultListen)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Store: store.Options{
			InitialLoad:     v.GetInt(KeyInitialLoad),
			ChunkSize:       v.GetInt(KeyChunkSize),
			ScrollThreshold: v.GetInt(KeyScrollThreshold),
		},
		SearchDebounce: v.GetDuration(KeySearchDebounce),
		Watch: watcher.Options{
			Poll:     v.GetBool(KeyPoll),
			Interval: v.GetDuration(KeyPollInterval),
		},
		Listen: strings.TrimSpace(v.GetString(KeyListen)),
	}

	if cfg.Store.InitialLoad <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyInitialLoad, cfg.Store.InitialLoad)
	}
	if cfg.Store.ChunkSize <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyChunkSize, cfg.Store.ChunkSize)
	}
	if cfg.Store.ScrollThreshold <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", KeyScrollThreshold, cfg.Store.ScrollThreshold)
	}
	if cfg.SearchDebounce < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %s", KeySearchDebounce, cfg.SearchDebounce)
	}
	if cfg.Watch.Interval <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeyPollInterval, cfg.Watch.Interval)
	}
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}

	level, err := log.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	cfg.LogLevel = level

	if cfg.RecentFile, err = expandPath(v.GetString(KeyRecentFile)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyRecentFile, err)
	}
	if cfg.LogFile, err = expandPath(v.GetString(KeyLogFile)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyLogFile, err)
	}
	return cfg, nil
}

// SessionOptions returns the session settings. The caller attaches the
// recent-files list.
func (c Config) SessionOptions() session.Options {
	return session.Options{
		Store:          c.Store,
		Watch:          c.Watch,
		SearchDebounce: c.SearchDebounce,
	}
}

// expandPath resolves a leading ~ and makes path absolute. An empty path
// stays empty.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
