package ratios

import (
	"fmt"

	"github.com/wonny/fairvalue/internal/contracts"
)

// MergePolicy decides what happens when two sources define the same metric
type MergePolicy string

const (
	// LastWriterWins lets a later source overwrite an earlier one.
	// An undefined value never clobbers a defined one.
	LastWriterWins MergePolicy = "last_writer_wins"
	// ErrorOnConflict fails when two sources define different values
	ErrorOnConflict MergePolicy = "error_on_conflict"
)

// ParseMergePolicy validates a configured policy name
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch p := MergePolicy(s); p {
	case LastWriterWins, ErrorOnConflict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown merge policy %q", s)
	}
}

// Merge combines per-source metrics in source order.
// The result never aliases the inputs.
func Merge(policy MergePolicy, parts ...*contracts.TickerMetrics) (*contracts.TickerMetrics, error) {
	out := &contracts.TickerMetrics{}

	for _, part := range parts {
		if part == nil {
			continue
		}
		if out.Ticker == "" {
			out.Ticker = part.Ticker
		}

		for _, key := range contracts.MetricKeys {
			v, _ := part.Metric(key)
			if !contracts.IsDefined(v) {
				continue
			}

			existing, _ := out.Metric(key)
			if policy == ErrorOnConflict && contracts.IsDefined(existing) && *existing != *v {
				return nil, fmt.Errorf("%w: %s %s: %g vs %g",
					contracts.ErrMergeConflict, out.Ticker, key, *existing, *v)
			}
			out.SetMetric(key, contracts.Float(*v))
		}
	}

	return out, nil
}
