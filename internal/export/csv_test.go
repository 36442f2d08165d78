package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/internal/contracts"
)

func sampleValuation() *contracts.Valuation {
	f := contracts.Float
	a := contracts.Row{TickerMetrics: contracts.TickerMetrics{Ticker: "AAA", Price: f(100), PER: f(10)}}
	a.Recommendation = contracts.Underpriced
	b := contracts.Row{TickerMetrics: contracts.TickerMetrics{Ticker: "BBB", Price: f(50), PER: f(20), PS: f(0)}}
	return &contracts.Valuation{Rows: []contracts.Row{a, b}}
}

func readAll(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func findRow(records [][]string, label string) []string {
	for _, r := range records {
		if r[0] == label {
			return r
		}
	}
	return nil
}

func TestWriteCSV(t *testing.T) {
	data, err := Bytes(sampleValuation())
	require.NoError(t, err)
	records := readAll(t, data)

	assert.Equal(t, []string{"RATIOS", "AAA", "BBB", "AVERAGE"}, records[0])
	assert.Len(t, records, len(contracts.Fields)+2)

	assert.Equal(t, []string{"PRICE", "100", "50", "75"}, findRow(records, "PRICE"))
	assert.Equal(t, []string{"PER (Current)", "10", "20", "15"}, findRow(records, "PER (Current)"))
	assert.Equal(t, []string{"PS (Current)", "", "0", "0"}, findRow(records, "PS (Current)"), "zero is a value")
	assert.Equal(t, []string{"Cash Ratio", "", "", ""}, findRow(records, "Cash Ratio"))

	last := records[len(records)-1]
	assert.Equal(t, []string{"RECOMMENDATION", "Underpriced", "", ""}, last)
}

func TestWriteCSV_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteCSV(&buf, nil))
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "financial_data_2025-03-07_14-05-09.csv", FileName(now))
}

func TestSaveCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	now := time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC)

	path, err := SaveCSV(dir, sampleValuation(), now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "financial_data_2025-03-07_14-05-09.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records := readAll(t, data)
	assert.Equal(t, "RATIOS", records[0][0])
}
