package valuation

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/internal/policy"
)

// Engine turns a basket of per-ticker metrics into intrinsic-value estimates.
// It holds no mutable state and is safe for concurrent use.
// ⭐ SSOT: 밸류에이션 계산은 여기서만
type Engine struct {
	policy policy.Policy
	hash   string
}

// NewEngine creates an engine bound to one policy
func NewEngine(p policy.Policy) *Engine {
	return &Engine{
		policy: p,
		hash:   p.Hash(),
	}
}

// Policy returns the engine's policy
func (e *Engine) Policy() policy.Policy {
	return e.policy
}

// PolicyHash returns the hash attached to every Valuation
func (e *Engine) PolicyHash() string {
	return e.hash
}

// Run values one basket. Rows keep the input order.
// The input slice is not modified.
func (e *Engine) Run(basket []contracts.TickerMetrics) (*contracts.Valuation, error) {
	normalized, err := normalizeBasket(basket)
	if err != nil {
		return nil, err
	}

	v := &contracts.Valuation{
		RunID:      uuid.NewString(),
		PolicyHash: e.hash,
		Rows:       make([]contracts.Row, 0, len(normalized)),
	}
	if len(normalized) == 0 {
		return v, nil
	}

	// Averages come from the pre-derivation basket, once per run
	v.Averages = peerAverages(normalized, e.policy.Peers.Include)

	for _, m := range normalized {
		v.Rows = append(v.Rows, e.derive(m, v.Averages))
	}

	roundValuation(v, e.policy.Rounding.Places)
	return v, nil
}

// RunMaps values an untyped basket keyed by ticker.
// Maps carry no order, so rows are sorted by ticker.
func (e *Engine) RunMaps(basket map[string]map[string]any) (*contracts.Valuation, error) {
	tickers := make([]string, 0, len(basket))
	for t := range basket {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	metrics := make([]contracts.TickerMetrics, 0, len(basket))
	for _, t := range tickers {
		raw := basket[t]
		if raw == nil {
			return nil, fmt.Errorf("%w: entry %q is not a mapping", contracts.ErrMalformedBasket, t)
		}
		metrics = append(metrics, contracts.MetricsFromMap(t, raw))
	}
	return e.Run(metrics)
}

// derive computes every derived field of one ticker, unrounded
func (e *Engine) derive(m contracts.TickerMetrics, avg contracts.PeerAverages) contracts.Row {
	row := contracts.Row{TickerMetrics: m}

	// No usable price, no valuation
	if !contracts.IsDefined(m.Price) || *m.Price <= 0 {
		return row
	}

	row.FairPricePer5y = fairPriceBySeries(m.Price, m.PER5Y, m.PER)
	row.FairPricePs5y = fairPriceBySeries(m.Price, m.PS5Y, m.PS)
	row.FairPricePbv5y = fairPriceBySeries(m.Price, m.PBV5Y, m.PBV)
	row.HistoricalFairPrice = historicalFairPrice(row.FairPricePs5y, row.FairPricePbv5y, e.policy.Historical.Mode)

	row.IntrinsicPerPeer = intrinsicByPeer(m.Price, avg.AvgPER, m.PER)
	row.IntrinsicPsPeer = intrinsicByPeer(m.Price, avg.AvgPS, m.PS)
	row.IntrinsicPbvPeer = intrinsicByPeer(m.Price, avg.AvgPBV, m.PBV)
	row.IntrinsicPcfPeer = intrinsicByPeer(m.Price, avg.AvgPCF, m.PCF)
	row.IntrinsicIndustryAvg = industryAverage(
		row.IntrinsicPerPeer,
		row.IntrinsicPsPeer,
		row.IntrinsicPbvPeer,
		row.IntrinsicPcfPeer,
	)

	row.IntrinsicFinal = finalIntrinsic(row.IntrinsicIndustryAvg, row.HistoricalFairPrice)
	row.Recommendation = recommend(row.IntrinsicFinal, m.Price, e.policy.Recommendation)

	return row
}

// normalizeBasket upper-cases tickers and rejects blank or duplicate ones
func normalizeBasket(basket []contracts.TickerMetrics) ([]contracts.TickerMetrics, error) {
	out := make([]contracts.TickerMetrics, len(basket))
	seen := make(map[string]struct{}, len(basket))

	for i, m := range basket {
		m.Ticker = contracts.NormalizeTicker(m.Ticker)
		if m.Ticker == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty ticker", contracts.ErrMalformedBasket, i)
		}
		if _, dup := seen[m.Ticker]; dup {
			return nil, fmt.Errorf("%w: duplicate ticker %s", contracts.ErrMalformedBasket, m.Ticker)
		}
		seen[m.Ticker] = struct{}{}
		out[i] = m
	}
	return out, nil
}
