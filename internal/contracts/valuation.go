package contracts

// Recommendation is the categorical verdict for one ticker
type Recommendation string

const (
	Underpriced  Recommendation = "Underpriced"
	Overpriced   Recommendation = "Overpriced"
	FairlyPriced Recommendation = "Fairly Priced"
)

// String renders the recommendation, N/A when absent
func (r Recommendation) String() string {
	if r == "" {
		return "N/A"
	}
	return string(r)
}

// PeerAverages holds the run-scoped peer multiple means
type PeerAverages struct {
	AvgPER *float64 `json:"avgPER"`
	AvgPS  *float64 `json:"avgPS"`
	AvgPBV *float64 `json:"avgPBV"`
	AvgPCF *float64 `json:"avgPCF"`
}

// PeerEstimate holds the peer-relative intrinsic values of one ticker
type PeerEstimate struct {
	IntrinsicPerPeer     *float64       `json:"intrinsicPerPeer"`
	IntrinsicPsPeer      *float64       `json:"intrinsicPsPeer"`
	IntrinsicPbvPeer     *float64       `json:"intrinsicPbvPeer"`
	IntrinsicPcfPeer     *float64       `json:"intrinsicPcfPeer"`
	IntrinsicIndustryAvg *float64       `json:"intrinsicIndustryAvg"`
	IntrinsicFinal       *float64       `json:"intrinsicFinal"`
	Recommendation       Recommendation `json:"recommendation,omitempty"`
}

// Row is one enriched ticker: base metrics plus every derived field
// ⭐ SSOT: Valuation Engine 출력 (per ticker)
type Row struct {
	TickerMetrics

	HistoricalFairPrice *float64 `json:"historicalFairPrice"`
	FairPricePer5y      *float64 `json:"fairPricePer5y"`
	FairPricePs5y       *float64 `json:"fairPricePs5y"`
	FairPricePbv5y      *float64 `json:"fairPricePbv5y"`

	PeerEstimate
}

// Valuation is the output of one run
// ⭐ SSOT: Valuation Engine → Report / Export
type Valuation struct {
	RunID      string       `json:"runId"`
	PolicyHash string       `json:"policyHash"`
	Averages   PeerAverages `json:"averages"`
	Rows       []Row        `json:"rows"` // input order
}

// Row returns the row for ticker
func (v *Valuation) Row(ticker string) (*Row, bool) {
	ticker = NormalizeTicker(ticker)
	for i := range v.Rows {
		if v.Rows[i].Ticker == ticker {
			return &v.Rows[i], true
		}
	}
	return nil, false
}

// Tickers returns the tickers in row order
func (v *Valuation) Tickers() []string {
	out := make([]string, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.Ticker
	}
	return out
}

// FetchFailure records a ticker the ratio provider could not produce
type FetchFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}
