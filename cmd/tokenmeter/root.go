package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "tokenmeter",
	Short: "Token usage analytics and billing forecasts",
	Long: `tokenmeter analyzes metered token usage and forecasts billing.

It reports the weekly trend, the 30-day consumption projection, the
projected balance and a per-category breakdown, and derives auto-recharge
and upgrade recommendations from the pricing catalog.

Examples:
  tokenmeter report --user=user_123 --balance=25000
  tokenmeter report --user=user_123 --balance=25000 --format=pdf --out=report.pdf
  tokenmeter catalog
  tokenmeter economics --revenue=19900 --churn=0.04 --acquisition=45000`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tokenmeter %s (commit: %s)\n", version, commit)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
