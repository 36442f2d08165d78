package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/internal/ratios"
	"github.com/wonny/fairvalue/internal/valuation"
	"github.com/wonny/fairvalue/pkg/logger"
)

// Fetcher gathers metrics for a list of tickers.
// *ratios.Provider satisfies it.
type Fetcher interface {
	FetchBasket(ctx context.Context, tickers []string, progress func(ratios.Progress)) ([]contracts.TickerMetrics, []contracts.FetchFailure)
}

// Report is the outcome of one analysis request
type Report struct {
	*contracts.Valuation
	Failures []contracts.FetchFailure `json:"failures,omitempty"`
	Coverage map[string]float64       `json:"coverage"`
	Duration time.Duration            `json:"-"`
}

// Analyzer runs fetch -> valuation for user supplied tickers
// ⭐ SSOT: 티커 입력 → 평가 결과 파이프라인은 여기서만
type Analyzer struct {
	fetcher    Fetcher
	engine     *valuation.Engine
	maxTickers int
	logger     *logger.Logger
}

// New creates an analyzer. maxTickers <= 0 means no limit.
func New(fetcher Fetcher, engine *valuation.Engine, maxTickers int, log *logger.Logger) *Analyzer {
	return &Analyzer{
		fetcher:    fetcher,
		engine:     engine,
		maxTickers: maxTickers,
		logger:     log.WithField("module", "analysis"),
	}
}

// Engine returns the valuation engine used for every run
func (a *Analyzer) Engine() *valuation.Engine {
	return a.engine
}

// Analyze parses raw ("GOOGL,AAPL MSFT"), fetches and values the basket.
// progress may be nil and is called once per ticker.
func (a *Analyzer) Analyze(ctx context.Context, raw string, progress func(ratios.Progress)) (*Report, error) {
	tickers, err := ratios.ParseTickers(raw, a.maxTickers)
	if err != nil {
		return nil, err
	}
	return a.AnalyzeTickers(ctx, tickers, progress)
}

// AnalyzeTickers values already parsed tickers
func (a *Analyzer) AnalyzeTickers(ctx context.Context, tickers []string, progress func(ratios.Progress)) (*Report, error) {
	if len(tickers) == 0 {
		return nil, contracts.ErrNoTickers
	}
	if a.maxTickers > 0 && len(tickers) > a.maxTickers {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", contracts.ErrTooManyTickers, len(tickers), a.maxTickers)
	}

	start := time.Now()
	basket, failures := a.fetcher.FetchBasket(ctx, tickers, progress)

	if len(failures) > 0 {
		a.logger.WithFields(map[string]interface{}{
			"requested": len(tickers),
			"failed":    len(failures),
		}).Warn("Some tickers could not be fetched")
	}
	if len(basket) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, contracts.ErrNoValidData
	}

	v, err := a.engine.Run(basket)
	if err != nil {
		return nil, fmt.Errorf("valuation run: %w", err)
	}

	report := &Report{
		Valuation: v,
		Failures:  failures,
		Coverage:  ratios.Coverage(basket),
		Duration:  time.Since(start),
	}

	a.logger.WithRun(v.RunID).WithFields(map[string]interface{}{
		"tickers":     len(v.Rows),
		"failed":      len(failures),
		"policy_hash": v.PolicyHash,
		"duration":    report.Duration,
	}).Info("Valuation completed")

	return report, nil
}
