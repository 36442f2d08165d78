package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	policyFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fairvalue",
	Short: "Peer-relative intrinsic value estimates for stock baskets",
	Long: `fairvalue CLI

Fetches financial ratios for a basket of tickers, compares each ticker
with its peers and its own 5-year history, and classifies it as
Underpriced, Overpriced or Fairly Priced.

Usage:
  go run ./cmd/fairvalue [command]

Examples:
  go run ./cmd/fairvalue serve
  go run ./cmd/fairvalue analyze GOOGL,AAPL,MSFT --csv data
  go run ./cmd/fairvalue explain pbv
  go run ./cmd/fairvalue policy check config/policy/default.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "valuation policy YAML (overrides VALUATION_POLICY_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
