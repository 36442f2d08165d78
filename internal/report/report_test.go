package report

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/internal/contracts"
)

func sampleValuation() *contracts.Valuation {
	f := contracts.Float
	row := contracts.Row{
		TickerMetrics: contracts.TickerMetrics{
			Ticker: "AAPL",
			Price:  f(189.5),
			PER:    f(29.8),
			PS:     f(7.6),
			ROE:    f(1.56),
		},
		HistoricalFairPrice: f(150.25),
	}
	row.IntrinsicPerPeer = f(201.123)
	row.IntrinsicFinal = f(175.5)
	row.Recommendation = contracts.FairlyPriced

	bare := contracts.Row{TickerMetrics: contracts.TickerMetrics{Ticker: "ZZZ"}}

	return &contracts.Valuation{RunID: "r1", Rows: []contracts.Row{row, bare}}
}

func TestFormatText(t *testing.T) {
	text := FormatText(sampleValuation())

	want := strings.Join([]string{
		"📊 *AAPL*",
		"💵 Price: 189.5",
		"",
		"📈 *Valuation Ratios*",
		"- PER (Current): 29.8",
		"- PS (Current): 7.6",
		"",
		"💰 *Liquidity & Efficiency*",
		"",
		"🎯 *Intrinsic Value Estimates*",
		"- Intrinsic Value based on Peer PER: 201.123",
		"- Estimated Fair Price based on historical PS+PBV (5Y): 150.25",
		"- Final Intrinsic Value (Avg Industry + Historical): 175.5",
		"",
		"🧠 *Recommendation*: Fairly Priced",
		"",
		"📊 *ZZZ*",
		"",
		"📈 *Valuation Ratios*",
		"",
		"💰 *Liquidity & Efficiency*",
		"",
		"🎯 *Intrinsic Value Estimates*",
	}, "\n")

	assert.Equal(t, want, text)
	assert.NotContains(t, text, "ROE", "profitability is not part of the chat summary")
}

func TestFormatText_Empty(t *testing.T) {
	assert.Empty(t, FormatText(nil))
	assert.Empty(t, FormatText(&contracts.Valuation{}))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "13.333", FormatNumber(13.333))
	assert.Equal(t, "-0.5", FormatNumber(-0.5))
	assert.Equal(t, "1200", FormatNumber(1200))
}

func TestFormatFailures(t *testing.T) {
	assert.Empty(t, FormatFailures(nil))
	got := FormatFailures([]contracts.FetchFailure{{Ticker: "ZZZ"}, {Ticker: "YYY"}})
	assert.Equal(t, "⚠️ Skipped due to missing data: ZZZ, YYY", got)
}

func TestChunk(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"a\nb"}, Chunk("a\nb", 10))
	})

	t.Run("breaks on lines", func(t *testing.T) {
		text := "aaaa\nbbbb\ncccc"
		assert.Equal(t, []string{"aaaa\nbbbb", "cccc"}, Chunk(text, 9))
	})

	t.Run("hard splits long lines", func(t *testing.T) {
		assert.Equal(t, []string{"abcd", "efgh", "ij"}, Chunk("abcdefghij", 4))
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		chunks := Chunk(strings.Repeat("📊", 5), 2)
		require.Len(t, chunks, 3)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), 2)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, Chunk("", 10))
	})

	t.Run("rejoins losslessly on line breaks", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 500; i++ {
			b.WriteString("- Intrinsic Value based on Peer PER: 201.123\n")
		}
		text := strings.TrimSuffix(b.String(), "\n")

		chunks := Chunk(text, MaxMessageLength)
		assert.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c), MaxMessageLength)
		}
		assert.Equal(t, text, strings.Join(chunks, "\n"))
	})
}

func TestExplain(t *testing.T) {
	for _, key := range ExplainKeys {
		text, ok := Explain(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, text)
		assert.Contains(t, HelpText(), "/"+key+" - ")
	}

	text, ok := Explain("/PER")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(text, "📈 *PER"))

	_, ok = Explain("ebitda")
	assert.False(t, ok)

	assert.Len(t, explanations, len(ExplainKeys))
}

func TestWelcomeText(t *testing.T) {
	assert.Contains(t, WelcomeText(), "/analize GOOGL,AAPL,MSFT")
}
