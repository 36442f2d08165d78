package contracts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TickerMetrics is the flat set of base metrics a ratio source reports for one ticker.
// nil means undefined; a literal 0 is a real value.
// ⭐ SSOT: Ratio Provider → Valuation Engine 입력
type TickerMetrics struct {
	Ticker string   `json:"ticker"`
	Price  *float64 `json:"price"`

	// Current multiples
	PER *float64 `json:"per"`
	PS  *float64 `json:"ps"`
	PBV *float64 `json:"pbv"`
	PCF *float64 `json:"pcf"` // may be negative

	// Five fiscal periods earlier
	PER5Y *float64 `json:"per5y"`
	PS5Y  *float64 `json:"ps5y"`
	PBV5Y *float64 `json:"pbv5y"`

	// Liquidity & efficiency (carried through)
	CurrentRatio      *float64 `json:"currentRatio"`
	QuickRatio        *float64 `json:"quickRatio"`
	CashRatio         *float64 `json:"cashRatio"`
	InventoryTurnover *float64 `json:"inventoryTurnover"`
	DaysInventory     *float64 `json:"daysInventory"`
	AssetTurnover     *float64 `json:"assetTurnover"`

	// Profitability & leverage (carried through)
	ROE          *float64 `json:"roe"`
	NetMargin    *float64 `json:"netMargin"`
	DebtToEquity *float64 `json:"debtToEquity"`
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}

// IsDefined reports whether v is present and finite
func IsDefined(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// metricSlots maps the wire key of every base metric to its slot.
// Keys follow the JSON tags above.
func (m *TickerMetrics) metricSlots() map[string]**float64 {
	return map[string]**float64{
		"price":             &m.Price,
		"per":               &m.PER,
		"ps":                &m.PS,
		"pbv":               &m.PBV,
		"pcf":               &m.PCF,
		"per5y":             &m.PER5Y,
		"ps5y":              &m.PS5Y,
		"pbv5y":             &m.PBV5Y,
		"currentRatio":      &m.CurrentRatio,
		"quickRatio":        &m.QuickRatio,
		"cashRatio":         &m.CashRatio,
		"inventoryTurnover": &m.InventoryTurnover,
		"daysInventory":     &m.DaysInventory,
		"assetTurnover":     &m.AssetTurnover,
		"roe":               &m.ROE,
		"netMargin":         &m.NetMargin,
		"debtToEquity":      &m.DebtToEquity,
	}
}

// MetricKeys lists the wire keys of every base metric in display order
var MetricKeys = []string{
	"price",
	"per", "ps", "pbv", "pcf",
	"per5y", "ps5y", "pbv5y",
	"currentRatio", "quickRatio", "cashRatio",
	"inventoryTurnover", "daysInventory", "assetTurnover",
	"roe", "netMargin", "debtToEquity",
}

// Metric returns the base metric stored under key
func (m *TickerMetrics) Metric(key string) (*float64, bool) {
	slot, ok := m.metricSlots()[key]
	if !ok {
		return nil, false
	}
	return *slot, true
}

// SetMetric stores v under key. Unknown keys are reported as false.
func (m *TickerMetrics) SetMetric(key string, v *float64) bool {
	slot, ok := m.metricSlots()[key]
	if !ok {
		return false
	}
	*slot = v
	return true
}

// MetricsFromMap decodes one untyped basket entry.
// Unknown keys (including derived ones such as historicalFairPrice) are ignored.
// Values that are not numbers decode as undefined.
func MetricsFromMap(ticker string, raw map[string]any) TickerMetrics {
	m := TickerMetrics{Ticker: ticker}
	for key, slot := range m.metricSlots() {
		*slot = toFloat(raw[key])
	}
	return m
}

func toFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseNumber parses a scraped or user-supplied numeric string.
// "", "-", "N/A" and anything unparsable are undefined.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSuffix(s, "%")
	switch s {
	case "", "-", "--", "N/A", "NA":
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// NormalizeTicker upper-cases and trims a ticker
func NormalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// String renders a metric for logs
func (m TickerMetrics) String() string {
	price := "nil"
	if m.Price != nil {
		price = strconv.FormatFloat(*m.Price, 'g', -1, 64)
	}
	return fmt.Sprintf("%s(price=%s)", m.Ticker, price)
}
