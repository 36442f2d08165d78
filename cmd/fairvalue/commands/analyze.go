package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fairvalue/internal/export"
	"github.com/wonny/fairvalue/internal/ratios"
	"github.com/wonny/fairvalue/internal/report"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKERS...",
	Short: "Value a basket once and print the result",
	Long: `Fetches ratios for the tickers, runs the valuation and prints it.

Tickers may be separated by commas or spaces.

Example:
  go run ./cmd/fairvalue analyze GOOGL,AAPL,MSFT
  go run ./cmd/fairvalue analyze GOOGL AAPL --csv data
  go run ./cmd/fairvalue analyze GOOGL,AAPL --json > valuation.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeCSVDir string
	analyzeJSON   bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeCSVDir, "csv", "", "also write the CSV export into this directory")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the report as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg, os.Stderr)

	rt, err := newRuntime(cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stderr := cmd.ErrOrStderr()
	stdout := cmd.OutOrStdout()

	rep, err := rt.analyzer.Analyze(ctx, strings.Join(args, ","), func(p ratios.Progress) {
		status := "fetched"
		if !p.OK {
			status = "failed: " + p.Error
		}
		PrintProgress(stderr, "Ratios", p.Ticker+" "+status, p.Done, p.Total)
	})
	if err != nil {
		PrintError(stderr, err.Error())
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
	} else {
		PrintRunHeader(stdout, RunMetadata{
			Title:      "Valuation",
			RunID:      rep.RunID,
			PolicyHash: rep.PolicyHash,
			Tickers:    rep.Tickers(),
			Timestamp:  time.Now().Format(time.RFC3339),
		})
		fmt.Fprintln(stdout, stripMarkdown(report.FormatText(rep.Valuation)))
		if note := report.FormatFailures(rep.Failures); note != "" {
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, note)
		}
		PrintCompletion(stdout, len(rep.Rows), rep.Duration.Seconds())
	}

	if analyzeCSVDir != "" {
		path, err := export.SaveCSV(analyzeCSVDir, rep.Valuation, time.Now())
		if err != nil {
			return err
		}
		PrintSuccess(stderr, "Data successfully saved to "+path)
	}

	return nil
}
