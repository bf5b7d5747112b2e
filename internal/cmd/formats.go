package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/logview/internal/parser"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the recognized log line formats in match order",
	Long: `List the log line formats logview recognizes. Each line is tried
against them in order and the first match wins. Lines matching none are
appended to the previous entry as continuation lines.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for i, name := range parser.Patterns() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, name)
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
