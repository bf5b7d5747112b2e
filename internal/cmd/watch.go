package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/atikulmunna/logview/internal/model"
	"github.com/atikulmunna/logview/internal/output"
	"github.com/atikulmunna/logview/internal/store"
	"github.com/atikulmunna/logview/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Watch a log file and print new entries",
	Long: `Print the newest entries of a log file, then follow it and stream new
entries to the terminal as they are written. A truncated or rotated file
is reloaded. The path may be a glob pattern.

Examples:
  logview watch /var/log/php/error.log
  logview watch "/var/log/**/*.log" --level error
  logview watch app.log --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	// --- Set up context with graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path, err := watcher.Resolve(args[0])
	if err != nil {
		return err
	}

	sess, h, _, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer h.Close()
	views := h.Subscribe()

	renderer, err := output.New(outputFmt, cmd.OutOrStdout(), searchQuery)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	if err := sess.Open(ctx, path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "watching %s (ctrl+c to stop)\n", path)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nshutting down...")
			return <-done
		case v, ok := <-views:
			if !ok {
				return nil
			}
			printView(renderer, v)
		}
	}
}

// printView writes what changed in v. Entries are printed oldest first so
// the terminal reads top to bottom.
func printView(r output.Renderer, v model.View) {
	var entries []model.LogEntry
	switch v.Kind {
	case model.ViewLoaded:
		entries = v.Entries
	case model.ViewAppended:
		entries = v.New
	case model.ViewReloaded:
		fmt.Fprintf(os.Stderr, "--- %s was truncated, reloaded %d entries ---\n", v.Name, v.Stats.Total)
		entries = v.Entries
	case model.ViewError:
		fmt.Fprintf(os.Stderr, "error: %s\n", v.Err)
		return
	default:
		return
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if v.Kind == model.ViewAppended && !store.Match(e, store.LevelFilter(v.Filter), v.Query) {
			continue
		}
		if err := r.Render(e); err != nil {
			log.WithError(err).Warn("render error")
		}
	}
}
