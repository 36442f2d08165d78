package contracts

// Section groups fields for presentation
type Section string

const (
	SectionPrice         Section = "Price"
	SectionValuation     Section = "Valuation Ratios"
	SectionHistorical    Section = "Historical (5Y)"
	SectionLiquidity     Section = "Liquidity & Efficiency"
	SectionProfitability Section = "Profitability & Leverage"
	SectionIntrinsic     Section = "Intrinsic Value Estimates"
)

// Field describes one numeric column of a Row
type Field struct {
	Key     string
	Label   string
	Section Section
	Value   func(r *Row) *float64
}

// RecommendationLabel is the label of the recommendation row
const RecommendationLabel = "RECOMMENDATION"

// Fields is the ordered field catalog shared by the text report and the CSV export
// ⭐ SSOT: 표시 라벨/순서는 여기서만 정의
var Fields = []Field{
	{"price", "PRICE", SectionPrice, func(r *Row) *float64 { return r.Price }},

	{"per", "PER (Current)", SectionValuation, func(r *Row) *float64 { return r.PER }},
	{"ps", "PS (Current)", SectionValuation, func(r *Row) *float64 { return r.PS }},
	{"pbv", "PBV (Current)", SectionValuation, func(r *Row) *float64 { return r.PBV }},
	{"pcf", "Price to Cash Flow (PCF)", SectionValuation, func(r *Row) *float64 { return r.PCF }},

	{"per5y", "5Y ago PER (P/E Ratio)", SectionHistorical, func(r *Row) *float64 { return r.PER5Y }},
	{"ps5y", "5Y ago PS (Price to Sales)", SectionHistorical, func(r *Row) *float64 { return r.PS5Y }},
	{"pbv5y", "5Y ago PBV (Price to Book)", SectionHistorical, func(r *Row) *float64 { return r.PBV5Y }},
	{"fairPricePer5y", "Estimated Fair Price based on historical PER (5Y)", SectionHistorical, func(r *Row) *float64 { return r.FairPricePer5y }},
	{"fairPricePs5y", "Estimated Fair Price based on historical PS (5Y)", SectionHistorical, func(r *Row) *float64 { return r.FairPricePs5y }},
	{"fairPricePbv5y", "Estimated Fair Price based on historical PBV (5Y)", SectionHistorical, func(r *Row) *float64 { return r.FairPricePbv5y }},

	{"currentRatio", "Current Ratio", SectionLiquidity, func(r *Row) *float64 { return r.CurrentRatio }},
	{"quickRatio", "Quick Ratio", SectionLiquidity, func(r *Row) *float64 { return r.QuickRatio }},
	{"cashRatio", "Cash Ratio", SectionLiquidity, func(r *Row) *float64 { return r.CashRatio }},
	{"inventoryTurnover", "Inventory Turnover", SectionLiquidity, func(r *Row) *float64 { return r.InventoryTurnover }},
	{"daysInventory", "Days Inventory", SectionLiquidity, func(r *Row) *float64 { return r.DaysInventory }},
	{"assetTurnover", "Asset Turnover", SectionLiquidity, func(r *Row) *float64 { return r.AssetTurnover }},

	{"roe", "ROE (Return on Equity)", SectionProfitability, func(r *Row) *float64 { return r.ROE }},
	{"netMargin", "Net Margin", SectionProfitability, func(r *Row) *float64 { return r.NetMargin }},
	{"debtToEquity", "Debt/Equity", SectionProfitability, func(r *Row) *float64 { return r.DebtToEquity }},

	{"intrinsicPerPeer", "Intrinsic Value based on Peer PER", SectionIntrinsic, func(r *Row) *float64 { return r.IntrinsicPerPeer }},
	{"intrinsicPsPeer", "Intrinsic Value based on Peer PS", SectionIntrinsic, func(r *Row) *float64 { return r.IntrinsicPsPeer }},
	{"intrinsicPbvPeer", "Intrinsic Value based on Peer PBV", SectionIntrinsic, func(r *Row) *float64 { return r.IntrinsicPbvPeer }},
	{"intrinsicPcfPeer", "Intrinsic Value based on Peer PCF", SectionIntrinsic, func(r *Row) *float64 { return r.IntrinsicPcfPeer }},
	{"intrinsicIndustryAvg", "Intrinsic Value based on Industry Average", SectionIntrinsic, func(r *Row) *float64 { return r.IntrinsicIndustryAvg }},
	{"historicalFairPrice", "Estimated Fair Price based on historical PS+PBV (5Y)", SectionIntrinsic, func(r *Row) *float64 { return r.HistoricalFairPrice }},
	{"intrinsicFinal", "Final Intrinsic Value (Avg Industry + Historical)", SectionIntrinsic, func(r *Row) *float64 { return r.IntrinsicFinal }},
}

// FieldsIn returns the catalog entries of one section, in order
func FieldsIn(section Section) []Field {
	var out []Field
	for _, f := range Fields {
		if f.Section == section {
			out = append(out, f)
		}
	}
	return out
}
