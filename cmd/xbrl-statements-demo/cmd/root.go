package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xbrl-statements-demo",
	Short: "Parse and stitch SEC XBRL filings into standardized financial statements",
	Long: `xbrl-statements-demo loads a filing's schema, linkbases, and instance
document, resolves its presentation roles into statements, and optionally
stitches several filings of the same entity together into one multi-period
view.`,
}

// Execute runs the root command. On error it prints the error to stderr and
// exits the process with status 1, so main has nothing left to do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(stitchCmd)
}
