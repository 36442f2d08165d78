package policy

// Policy holds every tunable rule of the valuation engine
// ⭐ SSOT: 밸류에이션 정책은 여기서만 정의
type Policy struct {
	Recommendation Recommendation `yaml:"recommendation" json:"recommendation"`
	Historical     Historical     `yaml:"historical" json:"historical"`
	Peers          Peers          `yaml:"peers" json:"peers"`
	Rounding       Rounding       `yaml:"rounding" json:"rounding"`
}

// Recommendation thresholds, as fractions of price
type Recommendation struct {
	UnderpricedThreshold float64 `yaml:"underpriced_threshold" json:"underpriced_threshold"`
	OverpricedThreshold  float64 `yaml:"overpriced_threshold" json:"overpriced_threshold"`
}

// HistoricalMode decides what happens when only one of the PS/PBV fair prices is defined
type HistoricalMode string

const (
	HistoricalStrict  HistoricalMode = "strict"  // both required
	HistoricalLenient HistoricalMode = "lenient" // single estimate propagates
)

// Historical fair-price policy
type Historical struct {
	Mode HistoricalMode `yaml:"mode" json:"mode"`
}

// PeerInclude decides which multiples count toward a peer average
type PeerInclude string

const (
	IncludeFinite   PeerInclude = "finite"   // any present, finite value
	IncludePositive PeerInclude = "positive" // only values > 0
)

// Peers averaging policy
type Peers struct {
	Include PeerInclude `yaml:"include" json:"include"`
}

// Rounding of derived fields
type Rounding struct {
	Places int `yaml:"places" json:"places"`
}

// Default returns the built-in policy
func Default() Policy {
	return Policy{
		Recommendation: Recommendation{
			UnderpricedThreshold: 0.10,
			OverpricedThreshold:  0.10,
		},
		Historical: Historical{Mode: HistoricalStrict},
		Peers:      Peers{Include: IncludeFinite},
		Rounding:   Rounding{Places: 3},
	}
}
