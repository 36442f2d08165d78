package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintRunHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintRunHeader(&buf, RunMetadata{
		Title:      "Valuation",
		RunID:      "run-1",
		PolicyHash: "0123456789abcdef0123",
		Tickers:    []string{"AAPL", "MSFT"},
	})

	out := buf.String()
	assert.Contains(t, out, "  Valuation\n")
	assert.Contains(t, out, "Run ID    : run-1")
	assert.Contains(t, out, "Policy    : 0123456789ab\n")
	assert.Contains(t, out, "Tickers   : AAPL, MSFT")
	assert.NotContains(t, out, "Time")
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	PrintProgress(&buf, "Ratios", "AAPL fetched", 1, 3)
	assert.Equal(t, "[Ratios] AAPL fetched [1/3]\n", buf.String())
}

func TestStripMarkdown(t *testing.T) {
	assert.Equal(t, "📊 AAPL", stripMarkdown("📊 *AAPL*"))
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
}
