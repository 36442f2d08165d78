package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/internal/report"
)

// explainCmd represents the explain command
var explainCmd = &cobra.Command{
	Use:       "explain RATIO",
	Short:     "Explain a financial ratio",
	ValidArgs: report.ExplainKeys,
	Args:      cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, ok := report.Explain(args[0])
		if !ok {
			return fmt.Errorf("no information on %q (known: %s)", args[0], strings.Join(report.ExplainKeys, ", "))
		}
		fmt.Fprintln(cmd.OutOrStdout(), stripMarkdown(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
