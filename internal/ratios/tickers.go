package ratios

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/wonny/fairvalue/internal/contracts"
)

// ParseTickers splits user input such as "googl, AAPL msft" into normalized tickers.
// Duplicates keep their first occurrence. max <= 0 means no limit.
func ParseTickers(raw string, max int) ([]string, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tickers := make([]string, 0, len(fields))
	for _, f := range fields {
		t := contracts.NormalizeTicker(f)
		if t == "" {
			continue
		}
		if err := ValidateTicker(t); err != nil {
			return nil, err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}

	if len(tickers) == 0 {
		return nil, contracts.ErrNoTickers
	}
	if max > 0 && len(tickers) > max {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", contracts.ErrTooManyTickers, len(tickers), max)
	}
	return tickers, nil
}
