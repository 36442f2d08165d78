package ratios

import (
	"fmt"
	"regexp"

	"github.com/wonny/fairvalue/internal/contracts"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9^][A-Z0-9.=\-]{0,19}$`)

// ValidateTicker checks a normalized ticker against exchange symbol syntax
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("%w: empty", contracts.ErrInvalidTicker)
	}
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("%w: %q", contracts.ErrInvalidTicker, ticker)
	}
	return nil
}

// Sanitize returns a cleaned copy of m: the ticker is normalized and
// non-finite values become undefined. Dropped keys are reported.
func Sanitize(m *contracts.TickerMetrics) (*contracts.TickerMetrics, []string, error) {
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: nil metrics")
	}

	clean := *m
	clean.Ticker = contracts.NormalizeTicker(m.Ticker)
	if err := ValidateTicker(clean.Ticker); err != nil {
		return nil, nil, fmt.Errorf("sanitize: %w", err)
	}

	var dropped []string
	for _, key := range contracts.MetricKeys {
		v, _ := clean.Metric(key)
		if v == nil {
			continue
		}
		if !contracts.IsDefined(v) {
			clean.SetMetric(key, nil)
			dropped = append(dropped, key)
			continue
		}
		clean.SetMetric(key, contracts.Float(*v))
	}

	return &clean, dropped, nil
}

// Coverage returns, per metric key, the share of tickers reporting a defined value
func Coverage(basket []contracts.TickerMetrics) map[string]float64 {
	coverage := make(map[string]float64, len(contracts.MetricKeys))
	if len(basket) == 0 {
		return coverage
	}

	for _, key := range contracts.MetricKeys {
		count := 0
		for i := range basket {
			if v, _ := basket[i].Metric(key); contracts.IsDefined(v) {
				count++
			}
		}
		coverage[key] = float64(count) / float64(len(basket))
	}
	return coverage
}
