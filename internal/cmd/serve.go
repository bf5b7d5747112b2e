package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/logview/internal/aggregator"
	"github.com/atikulmunna/logview/internal/config"
	"github.com/atikulmunna/logview/internal/server"
	"github.com/atikulmunna/logview/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve a viewer session over HTTP and WebSocket",
	Long: `Run a viewer session behind a JSON API and stream every view change
over a WebSocket at /ws. A path given on the command line is opened at
start; otherwise open one with POST /api/open.

Examples:
  logview serve /var/log/php/error.log
  logview serve --listen 127.0.0.1:9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", ":7878", "address to listen on")
	_ = viper.BindPFlag(config.KeyListen, serveCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	// --- Set up context with graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sess, h, list, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer h.Close()

	agg := aggregator.New(h.Subscribe(), h.Dropped, h.Subscribers)
	go agg.Start(ctx)

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	if len(args) == 1 {
		path, err := watcher.Resolve(args[0])
		if err != nil {
			return err
		}
		if err := sess.Open(ctx, path); err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
	}

	fmt.Fprintf(os.Stderr, "logview listening on %s\n", cfg.Listen)
	srv := server.New(sess, h, agg, list, cfg.Listen)
	if err := srv.Start(ctx); err != nil {
		stop()
		<-done
		return fmt.Errorf("server: %w", err)
	}
	log.Info("server stopped")
	return <-done
}
