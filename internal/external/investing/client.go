package investing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

// SourceName identifies Investing.com in config and cache keys
const SourceName = "investing"

// ErrNoSlug means the ticker has no configured Investing.com page
var ErrNoSlug = errors.New("no investing.com slug configured")

// ratioNames maps the ratios-table row names to metric keys
var ratioNames = map[string]string{
	"P/E Ratio TTM":          "per",
	"Price to Sales TTM":     "ps",
	"Price to Book MRQ":      "pbv",
	"Price to Cash Flow MRQ": "pcf",
	"Current Ratio MRQ":      "currentRatio",
	"Quick Ratio MRQ":        "quickRatio",
	"Inventory Turnover TTM": "inventoryTurnover",
	"Asset Turnover TTM":     "assetTurnover",
}

// Client scrapes the Investing.com ratios page
// ⭐ SSOT: Investing.com 스크래핑은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	slugs      map[string]string
}

// NewClient creates a new Investing.com client.
// slugs maps tickers to URL slugs, e.g. GOOGL -> google-inc.
func NewClient(httpClient *httputil.Client, baseURL string, slugs map[string]string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("module", "investing"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		slugs:      slugs,
	}
}

// Name implements ratios.Source
func (c *Client) Name() string {
	return SourceName
}

// Fetch implements ratios.Source
func (c *Client) Fetch(ctx context.Context, ticker string) (*contracts.TickerMetrics, error) {
	slug, ok := c.slugs[contracts.NormalizeTicker(ticker)]
	if !ok {
		return nil, fmt.Errorf("investing %s: %w", ticker, ErrNoSlug)
	}

	ratios, err := c.FetchRatios(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("investing %s: %w", ticker, err)
	}

	m := ToMetrics(ticker, ratios)

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"slug":   slug,
		"rows":   len(ratios),
	}).Debug("Scraped Investing.com ratios")

	return &m, nil
}

// FetchRatios downloads and parses the ratios table of one equity page
func (c *Client) FetchRatios(ctx context.Context, slug string) (map[string]string, error) {
	fullURL := fmt.Sprintf("%s/equities/%s-ratios", c.baseURL, url.PathEscape(slug))

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ParseRatios(resp.Body)
}

// ParseRatios reads name -> value pairs from the page's table.datatable rows
func ParseRatios(r io.Reader) (map[string]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table.datatable").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("ratios table not found")
	}

	ratios := make(map[string]string)
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 2 {
			return
		}
		name := strings.TrimSpace(cols.Eq(0).Text())
		value := strings.TrimSpace(cols.Eq(1).Text())
		if name != "" {
			ratios[name] = value
		}
	})

	return ratios, nil
}

// ToMetrics maps the known ratio rows; "-" and unparsable values are undefined
func ToMetrics(ticker string, ratios map[string]string) contracts.TickerMetrics {
	m := contracts.TickerMetrics{Ticker: ticker}
	for name, key := range ratioNames {
		if raw, ok := ratios[name]; ok {
			m.SetMetric(key, contracts.ParseNumber(raw))
		}
	}
	return m
}
