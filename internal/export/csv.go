package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/fairvalue/internal/contracts"
)

const (
	headerCell    = "RATIOS"
	averageColumn = "AVERAGE"
	timestampFmt  = "2006-01-02_15-04-05"
)

// FileName returns the timestamped export file name
func FileName(now time.Time) string {
	return fmt.Sprintf("financial_data_%s.csv", now.Format(timestampFmt))
}

// WriteCSV writes v transposed: one row per catalog field, one column per
// ticker, then AVERAGE over the defined cells of that row.
// ⭐ SSOT: CSV 레이아웃은 여기서만
func WriteCSV(w io.Writer, v *contracts.Valuation) error {
	if v == nil {
		return fmt.Errorf("export: nil valuation")
	}

	cw := csv.NewWriter(w)

	header := append([]string{headerCell}, v.Tickers()...)
	header = append(header, averageColumn)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, f := range contracts.Fields {
		record := make([]string, 0, len(v.Rows)+2)
		record = append(record, f.Label)

		var sum float64
		var n int
		for i := range v.Rows {
			val := f.Value(&v.Rows[i])
			if !contracts.IsDefined(val) {
				record = append(record, "")
				continue
			}
			record = append(record, formatCell(*val))
			sum += *val
			n++
		}

		if n > 0 {
			record = append(record, formatCell(sum/float64(n)))
		} else {
			record = append(record, "")
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write %s: %w", f.Key, err)
		}
	}

	rec := make([]string, 0, len(v.Rows)+2)
	rec = append(rec, contracts.RecommendationLabel)
	for i := range v.Rows {
		rec = append(rec, string(v.Rows[i].Recommendation))
	}
	rec = append(rec, "")
	if err := cw.Write(rec); err != nil {
		return fmt.Errorf("export: write recommendation: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// Bytes renders the CSV in memory, for chat uploads and HTTP responses
func Bytes(v *contracts.Valuation) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveCSV writes v to dir/financial_data_<timestamp>.csv and returns the path
func SaveCSV(dir string, v *contracts.Valuation, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", dir, err)
	}

	data, err := Bytes(v)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

func formatCell(v float64) string {
	return decimal.NewFromFloat(v).String()
}
