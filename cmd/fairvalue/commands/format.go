package commands

import (
	"fmt"
	"io"
	"strings"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

const (
	singleLine = "───────────────────────────────────────────────────────────"
	doubleLine = "═══════════════════════════════════════════════════════════"
)

// RunMetadata holds the header fields of one command run
type RunMetadata struct {
	Title      string
	RunID      string
	PolicyHash string
	Tickers    []string
	Timestamp  string
}

// PrintRunHeader prints a formatted run header
func PrintRunHeader(w io.Writer, meta RunMetadata) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, doubleLine)
	fmt.Fprintf(w, "  %s\n", meta.Title)
	fmt.Fprintln(w, singleLine)
	if meta.RunID != "" {
		fmt.Fprintf(w, "  Run ID    : %s\n", meta.RunID)
	}
	if meta.PolicyHash != "" {
		fmt.Fprintf(w, "  Policy    : %s\n", shortHash(meta.PolicyHash))
	}
	if len(meta.Tickers) > 0 {
		fmt.Fprintf(w, "  Tickers   : %s\n", strings.Join(meta.Tickers, ", "))
	}
	if meta.Timestamp != "" {
		fmt.Fprintf(w, "  Time      : %s\n", meta.Timestamp)
	}
	fmt.Fprintln(w, singleLine)
}

// PrintProgress prints a progress step with counter
// Example: [Ratios] AAPL fetched [1/3]
func PrintProgress(w io.Writer, tag string, message string, current int, total int) {
	fmt.Fprintf(w, "[%s] %s [%d/%d]\n", tag, message, current, total)
}

// PrintCompletion prints a completion message
func PrintCompletion(w io.Writer, rows int, seconds float64) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "✅ Valued %d ticker(s) in %.2fs\n", rows, seconds)
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, message string) {
	fmt.Fprintf(w, "⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "❌ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(w io.Writer, key string, value string, keyWidth int) {
	fmt.Fprintf(w, "   %-*s : %s\n", keyWidth, key, value)
}

// PrintList prints a bulleted list
func PrintList(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "   • %s\n", item)
	}
}

// stripMarkdown drops the chat emphasis markers for terminal output
func stripMarkdown(s string) string {
	return strings.ReplaceAll(s, "*", "")
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
