package valuation

import (
	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/internal/policy"
)

// fairPriceBySeries projects price back to a past multiple: price * m5y / mNow.
// Mean reversion: the multiple is assumed to return to its value five periods ago.
func fairPriceBySeries(price, multiple5y, multipleNow *float64) *float64 {
	if !contracts.IsDefined(price) || !contracts.IsDefined(multiple5y) || !contracts.IsDefined(multipleNow) {
		return nil
	}
	if *multipleNow == 0 {
		return nil
	}
	return finite(*price * *multiple5y / *multipleNow)
}

// historicalFairPrice blends the PS- and PBV-based fair prices
func historicalFairPrice(byPS, byPBV *float64, mode policy.HistoricalMode) *float64 {
	psOK, pbvOK := contracts.IsDefined(byPS), contracts.IsDefined(byPBV)
	switch {
	case psOK && pbvOK:
		return finite((*byPS + *byPBV) / 2)
	case mode == policy.HistoricalLenient && psOK:
		return byPS
	case mode == policy.HistoricalLenient && pbvOK:
		return byPBV
	default:
		return nil
	}
}

// intrinsicByPeer values a ticker at the basket-average multiple: price * avgM / multipleM
func intrinsicByPeer(price, avg, multiple *float64) *float64 {
	if !contracts.IsDefined(price) || !contracts.IsDefined(avg) || !contracts.IsDefined(multiple) {
		return nil
	}
	if *price <= 0 || *multiple == 0 {
		return nil
	}
	return finite(*price * *avg / *multiple)
}

// industryAverage is the mean of whichever peer estimates are defined
func industryAverage(estimates ...*float64) *float64 {
	values := make([]float64, 0, len(estimates))
	for _, e := range estimates {
		if contracts.IsDefined(e) {
			values = append(values, *e)
		}
	}
	return mean(values)
}

// finalIntrinsic blends the industry average with the historical fair price
func finalIntrinsic(industry, historical *float64) *float64 {
	if !contracts.IsDefined(industry) || !contracts.IsDefined(historical) {
		return nil
	}
	return finite((*industry + *historical) / 2)
}

// recommend classifies the gap between intrinsic value and price.
// Exactly ±threshold is Fairly Priced.
func recommend(final, price *float64, th policy.Recommendation) contracts.Recommendation {
	if !contracts.IsDefined(final) || !contracts.IsDefined(price) || *price == 0 {
		return ""
	}
	return classify((*final-*price) / *price, th)
}

func classify(diff float64, th policy.Recommendation) contracts.Recommendation {
	switch {
	case diff > th.UnderpricedThreshold:
		return contracts.Underpriced
	case diff < -th.OverpricedThreshold:
		return contracts.Overpriced
	default:
		return contracts.FairlyPriced
	}
}

func finite(v float64) *float64 {
	if !contracts.IsDefined(&v) {
		return nil
	}
	return &v
}
