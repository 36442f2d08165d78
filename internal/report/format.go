package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wonny/fairvalue/internal/contracts"
)

// MaxMessageLength keeps chunks under Telegram's 4096 character cap
const MaxMessageLength = 4000

// sections rendered per ticker, in order, with their headings
var sections = []struct {
	section contracts.Section
	heading string
}{
	{contracts.SectionValuation, "📈 *Valuation Ratios*"},
	{contracts.SectionLiquidity, "💰 *Liquidity & Efficiency*"},
	{contracts.SectionIntrinsic, "🎯 *Intrinsic Value Estimates*"},
}

// FormatNumber renders v in its shortest exact decimal form
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// FormatText renders a valuation as the chat summary.
// Undefined fields are left out; section headings are always shown.
func FormatText(v *contracts.Valuation) string {
	if v == nil || len(v.Rows) == 0 {
		return ""
	}

	var lines []string
	for i := range v.Rows {
		row := &v.Rows[i]

		lines = append(lines, "", "📊 *"+row.Ticker+"*")
		if contracts.IsDefined(row.Price) {
			lines = append(lines, "💵 Price: "+FormatNumber(*row.Price))
		}

		for _, s := range sections {
			lines = append(lines, "", s.heading)
			for _, f := range contracts.FieldsIn(s.section) {
				if val := f.Value(row); contracts.IsDefined(val) {
					lines = append(lines, "- "+f.Label+": "+FormatNumber(*val))
				}
			}
		}

		if row.Recommendation != "" {
			lines = append(lines, "", "🧠 *Recommendation*: "+string(row.Recommendation))
		}
	}

	return strings.TrimLeft(strings.Join(lines, "\n"), "\n")
}

// FormatFailures lists tickers that were skipped, or "" when none were
func FormatFailures(failures []contracts.FetchFailure) string {
	if len(failures) == 0 {
		return ""
	}
	tickers := make([]string, len(failures))
	for i, f := range failures {
		tickers[i] = f.Ticker
	}
	return "⚠️ Skipped due to missing data: " + strings.Join(tickers, ", ")
}

// Chunk splits text into pieces of at most limit characters, breaking on
// line boundaries where possible. A single over-long line is hard split.
func Chunk(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		return []string{text}
	}

	var chunks []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, string(cur))
			cur = cur[:0]
		}
	}

	for i, line := range strings.Split(text, "\n") {
		piece := []rune(line)
		if i > 0 && len(cur) > 0 {
			if len(cur)+1+len(piece) <= limit {
				cur = append(cur, '\n')
				cur = append(cur, piece...)
				continue
			}
			flush()
		}

		for len(piece) > limit {
			flush()
			chunks = append(chunks, string(piece[:limit]))
			piece = piece[limit:]
		}
		cur = append(cur, piece...)
	}
	flush()

	return chunks
}
