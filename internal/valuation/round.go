package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/fairvalue/internal/contracts"
)

// roundValuation rounds every derived field of the run in place.
// ⭐ SSOT: 반올림은 여기서 한 번만
func roundValuation(v *contracts.Valuation, places int) {
	avg := &v.Averages
	for _, p := range []**float64{&avg.AvgPER, &avg.AvgPS, &avg.AvgPBV, &avg.AvgPCF} {
		*p = roundTo(*p, places)
	}

	for i := range v.Rows {
		r := &v.Rows[i]
		for _, p := range []**float64{
			&r.HistoricalFairPrice,
			&r.FairPricePer5y,
			&r.FairPricePs5y,
			&r.FairPricePbv5y,
			&r.IntrinsicPerPeer,
			&r.IntrinsicPsPeer,
			&r.IntrinsicPbvPeer,
			&r.IntrinsicPcfPeer,
			&r.IntrinsicIndustryAvg,
			&r.IntrinsicFinal,
		} {
			*p = roundTo(*p, places)
		}
	}
}

// roundTo rounds half away from zero on the shortest decimal form of v
func roundTo(v *float64, places int) *float64 {
	if !contracts.IsDefined(v) {
		return nil
	}
	r := decimal.NewFromFloat(*v).Round(int32(places)).InexactFloat64()
	return &r
}
