package cmd

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/logview/internal/config"
	"github.com/atikulmunna/logview/internal/hub"
	"github.com/atikulmunna/logview/internal/recent"
	"github.com/atikulmunna/logview/internal/session"
	"github.com/atikulmunna/logview/internal/store"
)

var (
	cfgFile     string
	outputFmt   string
	levelFilter string
	searchQuery string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logview",
	Short: "logview: a live viewer for PHP and server logs",
	Long: `logview parses PHP, Monolog, Apache and syslog style log files into
structured entries, newest first, and follows them as they grow.
Entries can be filtered by severity and searched, in the terminal,
in an interactive TUI, or through an HTTP and WebSocket API.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logview.yaml)")
	flags.StringVarP(&outputFmt, "output", "o", "text", "output format: text, json, yaml")
	flags.StringVarP(&levelFilter, "level", "l", "", "filter by severity group: all, error, warning, info")
	flags.StringVarP(&searchQuery, "search", "s", "", "only show entries whose message, timestamp or level contains this text")
	flags.String("log-level", "info", "diagnostic log level: trace, debug, info, warn, error")
	flags.String("log-file", "", "write diagnostic logs to this file")
	flags.Bool("poll", false, "poll the file instead of using filesystem notifications")

	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFile, flags.Lookup("log-file"))
	_ = viper.BindPFlag(config.KeyPoll, flags.Lookup("poll"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".logview")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LOGVIEW")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.WithError(err).Warn("reading config file")
		}
	}
}

// loadConfig decodes the settings and configures logging. A TUI owns the
// terminal, so its logs go nowhere unless a log file is set.
func loadConfig(tui bool) (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return config.Config{}, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
	case tui:
		log.SetOutput(io.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return cfg, nil
}

// newSession wires a session to a fresh hub and the recent-files list,
// applying the --level and --search flags.
func newSession(cfg config.Config) (*session.Session, *hub.Hub, *recent.List, error) {
	filter, err := store.ParseLevelFilter(levelFilter)
	if err != nil {
		return nil, nil, nil, err
	}

	list, err := recent.Load(cfg.RecentFile)
	if err != nil {
		log.WithError(err).Warn("recent files unavailable, starting with an empty list")
	}

	opts := cfg.SessionOptions()
	opts.Recent = list
	opts.Filter = filter
	opts.Query = searchQuery
	h := hub.New()
	s := session.New(h, opts)
	return s, h, list, nil
}
