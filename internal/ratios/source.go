package ratios

import (
	"context"

	"github.com/wonny/fairvalue/internal/contracts"
)

// Source produces base metrics for one ticker from one upstream
type Source interface {
	Name() string
	Fetch(ctx context.Context, ticker string) (*contracts.TickerMetrics, error)
}
