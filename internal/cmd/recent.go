package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atikulmunna/logview/internal/recent"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Manage the recently opened files",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently opened files, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadRecent()
		if err != nil {
			return err
		}
		files := list.Files()

		out := cmd.OutOrStdout()
		switch strings.ToLower(outputFmt) {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(files)
		case "yaml":
			return yaml.NewEncoder(out).Encode(files)
		}

		if len(files) == 0 {
			fmt.Fprintln(out, "no recent files")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tOPENED\tPATH")
		for _, f := range files {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Name, f.OpenedAt.Local().Format("2006-01-02 15:04"), f.Path)
		}
		return tw.Flush()
	},
}

var recentRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a file from the recent files list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadRecent()
		if err != nil {
			return err
		}
		if !list.Remove(args[0]) {
			return fmt.Errorf("%s is not in the recent files list", args[0])
		}
		return list.Save()
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the recent files list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := loadRecent()
		if err != nil {
			return err
		}
		list.Clear()
		return list.Save()
	},
}

func init() {
	recentCmd.AddCommand(recentListCmd, recentRemoveCmd, recentClearCmd)
	rootCmd.AddCommand(recentCmd)
}

func loadRecent() (*recent.List, error) {
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, err
	}
	return recent.Load(cfg.RecentFile)
}
