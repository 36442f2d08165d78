package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

// SourceName identifies FMP in config and cache keys
const SourceName = "fmp"

// historicalIndex is the annual period used as "five years ago"
const historicalIndex = 4

// Client handles communication with the Financial Modeling Prep API
// ⭐ SSOT: FMP API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new FMP client
func NewClient(httpClient *httputil.Client, baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "fmp"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// RatioPeriod is one annual entry of /ratios, latest first
type RatioPeriod struct {
	Symbol                     string   `json:"symbol"`
	Date                       string   `json:"date"`
	PriceEarningsRatio         *float64 `json:"priceEarningsRatio"`
	PriceSalesRatio            *float64 `json:"priceSalesRatio"`
	PriceToBookRatio           *float64 `json:"priceToBookRatio"`
	PriceCashFlowRatio         *float64 `json:"priceCashFlowRatio"`
	CurrentRatio               *float64 `json:"currentRatio"`
	QuickRatio                 *float64 `json:"quickRatio"`
	CashRatio                  *float64 `json:"cashRatio"`
	InventoryTurnover          *float64 `json:"inventoryTurnover"`
	DaysOfInventoryOutstanding *float64 `json:"daysOfInventoryOutstanding"`
	AssetTurnover              *float64 `json:"assetTurnover"`
	ReturnOnEquity             *float64 `json:"returnOnEquity"`
	NetProfitMargin            *float64 `json:"netProfitMargin"`
	DebtEquityRatio            *float64 `json:"debtEquityRatio"`
}

// RealTimePrice is one entry of /stock/full/real-time-price
type RealTimePrice struct {
	Symbol        string   `json:"symbol"`
	LastSalePrice *float64 `json:"lastSalePrice"`
}

// Name implements ratios.Source
func (c *Client) Name() string {
	return SourceName
}

// Fetch implements ratios.Source: current ratios, the five-years-ago ratios and the last sale price
func (c *Client) Fetch(ctx context.Context, ticker string) (*contracts.TickerMetrics, error) {
	periods, err := c.FetchRatios(ctx, ticker)
	if err != nil {
		return nil, err
	}
	price, err := c.FetchPrice(ctx, ticker)
	if err != nil {
		return nil, err
	}

	m := toMetrics(ticker, periods, price)

	c.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"periods": len(periods),
	}).Debug("Fetched FMP ratios")

	return m, nil
}

// FetchRatios returns the annual ratio history, latest first
func (c *Client) FetchRatios(ctx context.Context, ticker string) ([]RatioPeriod, error) {
	var periods []RatioPeriod
	if err := c.httpClient.GetJSON(ctx, c.endpoint("/ratios/", ticker), &periods); err != nil {
		return nil, fmt.Errorf("fmp ratios %s: %w", ticker, err)
	}
	if len(periods) == 0 {
		return nil, fmt.Errorf("fmp ratios %s: no data available", ticker)
	}
	return periods, nil
}

// FetchPrice returns the last sale price
func (c *Client) FetchPrice(ctx context.Context, ticker string) (*float64, error) {
	var prices []RealTimePrice
	if err := c.httpClient.GetJSON(ctx, c.endpoint("/stock/full/real-time-price/", ticker), &prices); err != nil {
		return nil, fmt.Errorf("fmp price %s: %w", ticker, err)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("fmp price %s: no data available", ticker)
	}
	return prices[0].LastSalePrice, nil
}

func (c *Client) endpoint(path, ticker string) string {
	return fmt.Sprintf("%s%s%s?apikey=%s", c.baseURL, path, url.PathEscape(ticker), url.QueryEscape(c.apiKey))
}

func toMetrics(ticker string, periods []RatioPeriod, price *float64) *contracts.TickerMetrics {
	latest := periods[0]
	m := &contracts.TickerMetrics{
		Ticker: ticker,
		Price:  price,

		PER: latest.PriceEarningsRatio,
		PS:  latest.PriceSalesRatio,
		PBV: latest.PriceToBookRatio,
		PCF: latest.PriceCashFlowRatio,

		CurrentRatio:      latest.CurrentRatio,
		QuickRatio:        latest.QuickRatio,
		CashRatio:         latest.CashRatio,
		InventoryTurnover: latest.InventoryTurnover,
		DaysInventory:     latest.DaysOfInventoryOutstanding,
		AssetTurnover:     latest.AssetTurnover,

		ROE:          latest.ReturnOnEquity,
		NetMargin:    latest.NetProfitMargin,
		DebtToEquity: latest.DebtEquityRatio,
	}

	if len(periods) > historicalIndex {
		past := periods[historicalIndex]
		m.PER5Y = past.PriceEarningsRatio
		m.PS5Y = past.PriceSalesRatio
		m.PBV5Y = past.PriceToBookRatio
	}
	return m
}
