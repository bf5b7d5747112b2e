package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logview/internal/ui"
	"github.com/atikulmunna/logview/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Browse a log file in an interactive terminal UI",
	Long: `Open a log file in a full-screen viewer that follows the file, filters
by severity, searches as you type and loads older entries while scrolling.
Without a path, pick a file from the recent files list (r).

Diagnostic logs are discarded while the UI runs unless log_file is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		if path, err = watcher.Resolve(args[0]); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess, h, list, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer h.Close()
	views := h.Subscribe()

	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	err = ui.Run(ui.Options{
		Context: ctx,
		Session: sess,
		Views:   views,
		Recent:  list,
		Path:    path,
	})
	cancel()
	<-done
	return err
}
