package valuation

import (
	"sort"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/internal/policy"
)

// peerAverages computes the basket means of PER, PS, PBV and PCF.
// Every ticker contributes, priced or not; a ticker missing one multiple
// is left out of that average only.
func peerAverages(basket []contracts.TickerMetrics, include policy.PeerInclude) contracts.PeerAverages {
	var per, ps, pbv, pcf []float64
	for i := range basket {
		m := &basket[i]
		per = appendAdmissible(per, m.PER, include)
		ps = appendAdmissible(ps, m.PS, include)
		pbv = appendAdmissible(pbv, m.PBV, include)
		pcf = appendAdmissible(pcf, m.PCF, include)
	}

	return contracts.PeerAverages{
		AvgPER: mean(per),
		AvgPS:  mean(ps),
		AvgPBV: mean(pbv),
		AvgPCF: mean(pcf),
	}
}

func appendAdmissible(values []float64, v *float64, include policy.PeerInclude) []float64 {
	if !contracts.IsDefined(v) {
		return values
	}
	if include == policy.IncludePositive && *v <= 0 {
		return values
	}
	return append(values, *v)
}

// mean sums in ascending order so the result is bit-identical for any input order
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return finite(sum / float64(len(sorted)))
}
