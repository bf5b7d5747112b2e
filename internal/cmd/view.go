package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logview/internal/output"
	"github.com/atikulmunna/logview/internal/parser"
	"github.com/atikulmunna/logview/internal/store"
	"github.com/atikulmunna/logview/internal/tailer"
	"github.com/atikulmunna/logview/internal/watcher"
)

var (
	viewLimit int
	viewAll   bool
)

var viewCmd = &cobra.Command{
	Use:   "view <path>",
	Short: "Print the entries of a log file, newest first",
	Long: `Parse a log file once and print its entries newest first. The path may
be a glob pattern; the most recently modified match is used.

Examples:
  logview view /var/log/php/error.log
  logview view "/var/log/**/*.log" --level error
  logview view app.log --search "uncaught" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().IntVarP(&viewLimit, "limit", "n", 0, "number of entries to print (default: initial_load)")
	viewCmd.Flags().BoolVarP(&viewAll, "all", "a", false, "print every matching entry")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	filter, err := store.ParseLevelFilter(levelFilter)
	if err != nil {
		return err
	}

	path, err := watcher.Resolve(args[0])
	if err != nil {
		return err
	}
	data, err := tailer.ReadFile(path)
	if err != nil {
		return err
	}

	opts := cfg.Store
	if viewLimit > 0 {
		opts.InitialLoad = viewLimit
	}
	st := store.New(opts)
	st.SetEntries(parser.Parse(string(data)))
	st.SetFilter(filter)
	st.SetSearch(searchQuery)

	entries := st.Window()
	if viewAll {
		entries = st.Filtered()
	}

	renderer, err := output.New(outputFmt, cmd.OutOrStdout(), searchQuery)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := renderer.Render(e); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	if c, ok := renderer.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			return err
		}
	}

	stats := st.Stats()
	fmt.Fprintf(os.Stderr, "%s: %d entries, %d shown (%d errors, %d warnings, %d info)",
		path, stats.Total, len(entries), stats.Errors, stats.Warnings, stats.Info)
	if remaining := len(st.Filtered()) - len(entries); remaining > 0 {
		fmt.Fprintf(os.Stderr, ", %d more with --all", remaining)
	}
	fmt.Fprintln(os.Stderr)
	return nil
}
