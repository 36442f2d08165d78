package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/internal/policy"
)

// policyCmd groups valuation policy commands
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Valuation policy tools",
}

// policyCheckCmd validates a policy file
var policyCheckCmd = &cobra.Command{
	Use:   "check [FILE]",
	Short: "Validate a policy file and print its hash",
	Long: `Parses and validates a valuation policy YAML.
Without FILE the built-in defaults are checked.

Example:
  go run ./cmd/fairvalue policy check config/policy/default.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPolicyCheck,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyCheckCmd)
}

func runPolicyCheck(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	out := cmd.OutOrStdout()
	p, err := policy.Load(path)
	if err != nil {
		PrintError(out, err.Error())
		return err
	}

	if path == "" {
		path = "(built-in defaults)"
	}
	PrintSuccess(out, "Policy is valid: "+path)
	PrintKeyValue(out, "hash", p.Hash(), 22)
	PrintKeyValue(out, "underpriced_threshold", strconv.FormatFloat(p.Recommendation.UnderpricedThreshold, 'f', -1, 64), 22)
	PrintKeyValue(out, "overpriced_threshold", strconv.FormatFloat(p.Recommendation.OverpricedThreshold, 'f', -1, 64), 22)
	PrintKeyValue(out, "historical.mode", string(p.Historical.Mode), 22)
	PrintKeyValue(out, "peers.include", string(p.Peers.Include), 22)
	PrintKeyValue(out, "rounding.places", strconv.Itoa(p.Rounding.Places), 22)
	return nil
}
