package ratios

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/logger"
)

// Options configures a Provider
type Options struct {
	Workers     int
	RequireAll  bool // a ticker fails if any source fails
	MergePolicy MergePolicy
}

// Progress reports one finished ticker during FetchBasket
type Progress struct {
	Ticker string `json:"ticker"`
	Done   int    `json:"done"`
	Total  int    `json:"total"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Provider composes sources into one metric set per ticker
// ⭐ SSOT: 비율 수집/병합은 이 구조체에서만
type Provider struct {
	sources []Source
	opts    Options
	logger  *logger.Logger
}

// NewProvider creates a provider over sources, queried in order
func NewProvider(sources []Source, opts Options, log *logger.Logger) (*Provider, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("ratios: at least one source is required")
	}
	if opts.Workers < 1 {
		return nil, fmt.Errorf("ratios: workers must be positive, got %d", opts.Workers)
	}
	if opts.MergePolicy == "" {
		opts.MergePolicy = LastWriterWins
	}
	if _, err := ParseMergePolicy(string(opts.MergePolicy)); err != nil {
		return nil, fmt.Errorf("ratios: %w", err)
	}

	return &Provider{
		sources: sources,
		opts:    opts,
		logger:  log.WithField("module", "ratios"),
	}, nil
}

// Sources returns the source names in query order
func (p *Provider) Sources() []string {
	names := make([]string, len(p.sources))
	for i, s := range p.sources {
		names[i] = s.Name()
	}
	return names
}

// Fetch gathers and merges the metrics of one ticker
func (p *Provider) Fetch(ctx context.Context, ticker string) (*contracts.TickerMetrics, error) {
	ticker = contracts.NormalizeTicker(ticker)
	if err := ValidateTicker(ticker); err != nil {
		return nil, err
	}

	parts := make([]*contracts.TickerMetrics, 0, len(p.sources))
	var errs []error

	for _, src := range p.sources {
		m, err := src.Fetch(ctx, ticker)
		if err == nil {
			m.Ticker = ticker
			var dropped []string
			m, dropped, err = Sanitize(m)
			if len(dropped) > 0 {
				p.logger.WithFields(map[string]interface{}{
					"ticker":  ticker,
					"source":  src.Name(),
					"dropped": dropped,
				}).Warn("Dropped non-finite metrics")
			}
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", src.Name(), err)
			if p.opts.RequireAll {
				return nil, err
			}
			errs = append(errs, err)
			continue
		}
		parts = append(parts, m)
	}

	if len(parts) == 0 {
		return nil, errors.Join(errs...)
	}
	for _, err := range errs {
		p.logger.WithError(err).WithField("ticker", ticker).Warn("Source failed, continuing with the rest")
	}

	merged, err := Merge(p.opts.MergePolicy, parts...)
	if err != nil {
		return nil, err
	}
	merged.Ticker = ticker
	return merged, nil
}

type fetchJob struct {
	index  int
	ticker string
}

type fetchResult struct {
	index   int
	ticker  string
	metrics *contracts.TickerMetrics
	err     error
}

// FetchBasket fetches every ticker with a bounded worker pool.
// Successes keep the input order. progress, if set, runs once per ticker
// on the calling goroutine.
func (p *Provider) FetchBasket(ctx context.Context, tickers []string, progress func(Progress)) ([]contracts.TickerMetrics, []contracts.FetchFailure) {
	total := len(tickers)
	if total == 0 {
		return nil, nil
	}

	workers := p.opts.Workers
	if workers > total {
		workers = total
	}

	p.logger.WithFields(map[string]interface{}{
		"tickers": total,
		"workers": workers,
		"sources": p.Sources(),
	}).Info("Starting ratio collection")

	jobCh := make(chan fetchJob, total)
	resultCh := make(chan fetchResult, total)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.worker(ctx, workerID, jobCh, resultCh)
		}(i)
	}

	for i, t := range tickers {
		jobCh <- fetchJob{index: i, ticker: t}
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ordered := make([]fetchResult, total)
	done := 0
	for r := range resultCh {
		ordered[r.index] = r
		done++
		if progress != nil {
			ev := Progress{Ticker: r.ticker, Done: done, Total: total, OK: r.err == nil}
			if r.err != nil {
				ev.Error = r.err.Error()
			}
			progress(ev)
		}
	}

	var basket []contracts.TickerMetrics
	var failures []contracts.FetchFailure
	for _, r := range ordered {
		if r.err != nil {
			failures = append(failures, contracts.FetchFailure{Ticker: r.ticker, Reason: r.err.Error()})
			continue
		}
		basket = append(basket, *r.metrics)
	}

	p.logger.WithFields(map[string]interface{}{
		"success": len(basket),
		"failed":  len(failures),
		"total":   total,
	}).Info("Ratio collection completed")

	return basket, failures
}

func (p *Provider) worker(ctx context.Context, workerID int, jobCh <-chan fetchJob, resultCh chan<- fetchResult) {
	for job := range jobCh {
		ticker := contracts.NormalizeTicker(job.ticker)

		select {
		case <-ctx.Done():
			resultCh <- fetchResult{index: job.index, ticker: ticker, err: ctx.Err()}
			continue
		default:
		}

		m, err := p.Fetch(ctx, ticker)
		if err != nil {
			p.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"ticker": ticker,
			}).Error("Failed to fetch ratios")
		}
		resultCh <- fetchResult{index: job.index, ticker: ticker, metrics: m, err: err}
	}
}
