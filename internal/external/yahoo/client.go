package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

// SourceName identifies Yahoo in config and cache keys
const SourceName = "yahoo"

const summaryModules = "summaryDetail,defaultKeyStatistics,financialData"

// Client handles communication with Yahoo Finance quoteSummary
// ⭐ SSOT: Yahoo Finance 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "yahoo"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// rawValue is Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v *rawValue) value() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []Summary `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Summary is one quoteSummary result with the modules we request
type Summary struct {
	SummaryDetail struct {
		TrailingPE                   *rawValue `json:"trailingPE"`
		PriceToSalesTrailing12Months *rawValue `json:"priceToSalesTrailing12Months"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		PriceToBook *rawValue `json:"priceToBook"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		CurrentPrice   *rawValue `json:"currentPrice"`
		ReturnOnEquity *rawValue `json:"returnOnEquity"`
		ProfitMargins  *rawValue `json:"profitMargins"`
		DebtToEquity   *rawValue `json:"debtToEquity"`
		CurrentRatio   *rawValue `json:"currentRatio"`
		QuickRatio     *rawValue `json:"quickRatio"`
	} `json:"financialData"`
}

// Name implements ratios.Source
func (c *Client) Name() string {
	return SourceName
}

// Fetch implements ratios.Source
func (c *Client) Fetch(ctx context.Context, ticker string) (*contracts.TickerMetrics, error) {
	s, err := c.FetchSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return &contracts.TickerMetrics{
		Ticker:       ticker,
		Price:        s.FinancialData.CurrentPrice.value(),
		PER:          s.SummaryDetail.TrailingPE.value(),
		PS:           s.SummaryDetail.PriceToSalesTrailing12Months.value(),
		PBV:          s.DefaultKeyStatistics.PriceToBook.value(),
		CurrentRatio: s.FinancialData.CurrentRatio.value(),
		QuickRatio:   s.FinancialData.QuickRatio.value(),
		ROE:          s.FinancialData.ReturnOnEquity.value(),
		NetMargin:    s.FinancialData.ProfitMargins.value(),
		DebtToEquity: s.FinancialData.DebtToEquity.value(),
	}, nil
}

// FetchSummary returns the raw quoteSummary result
func (c *Client) FetchSummary(ctx context.Context, ticker string) (*Summary, error) {
	params := url.Values{}
	params.Set("modules", summaryModules)
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	var resp summaryResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &resp); err != nil {
		return nil, fmt.Errorf("yahoo summary %s: %w", ticker, err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		return nil, fmt.Errorf("yahoo summary %s: %s: %s", ticker, e.Code, e.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo summary %s: no data available", ticker)
	}

	c.logger.WithField("ticker", ticker).Debug("Fetched Yahoo summary")
	return &resp.QuoteSummary.Result[0], nil
}
