package investing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

const ratiosPage = `<html><body>
<table class="genTbl">
	<tr><td>Decoy</td><td>1</td></tr>
</table>
<table class="genTbl reportTbl datatable">
	<thead><tr><th>Name</th><th>Company</th><th>Industry</th></tr></thead>
	<tbody>
		<tr><td>P/E Ratio TTM</td><td>24.52</td><td>30.1</td></tr>
		<tr><td>Price to Sales TTM</td><td>5.91</td><td>4.2</td></tr>
		<tr><td> Price to Book MRQ </td><td>6.60</td><td>3.1</td></tr>
		<tr><td>Price to Cash Flow MRQ</td><td>-</td><td>15</td></tr>
		<tr><td>Current Ratio MRQ</td><td>2.10</td><td>1.9</td></tr>
		<tr><td>Quick Ratio MRQ</td><td>1,234.5</td><td>1.7</td></tr>
		<tr><td>Inventory Turnover TTM</td><td>N/A</td><td>9</td></tr>
		<tr><td>Asset Turnover TTM</td><td>0.76</td><td>0.7</td></tr>
		<tr><td>Gross margin TTM</td><td>56.94%</td><td>50%</td></tr>
	</tbody>
</table>
</body></html>`

func TestParseRatios(t *testing.T) {
	ratios, err := ParseRatios(strings.NewReader(ratiosPage))
	require.NoError(t, err)

	assert.Equal(t, "24.52", ratios["P/E Ratio TTM"])
	assert.Equal(t, "6.60", ratios["Price to Book MRQ"], "names are trimmed")
	assert.NotContains(t, ratios, "Decoy")
	assert.Len(t, ratios, 9)

	_, err = ParseRatios(strings.NewReader("<html><body>blocked</body></html>"))
	assert.Error(t, err)
}

func TestToMetrics(t *testing.T) {
	ratios, err := ParseRatios(strings.NewReader(ratiosPage))
	require.NoError(t, err)

	m := ToMetrics("GOOGL", ratios)
	assert.Equal(t, contracts.Float(24.52), m.PER)
	assert.Equal(t, contracts.Float(5.91), m.PS)
	assert.Equal(t, contracts.Float(6.6), m.PBV)
	assert.Nil(t, m.PCF, `"-" is undefined`)
	assert.Equal(t, contracts.Float(2.1), m.CurrentRatio)
	assert.Equal(t, contracts.Float(1234.5), m.QuickRatio)
	assert.Nil(t, m.InventoryTurnover)
	assert.Equal(t, contracts.Float(0.76), m.AssetTurnover)
	assert.Nil(t, m.Price)
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/equities/google-inc-ratios", r.URL.Path)
		_, _ = w.Write([]byte(ratiosPage))
	}))
	defer srv.Close()

	client := NewClient(httputil.New(logger.Nop()).DisableRetry(), srv.URL,
		map[string]string{"GOOGL": "google-inc"}, logger.Nop())

	m, err := client.Fetch(context.Background(), "googl")
	require.NoError(t, err)
	assert.Equal(t, contracts.Float(24.52), m.PER)

	_, err = client.Fetch(context.Background(), "MSFT")
	assert.True(t, errors.Is(err, ErrNoSlug))
}

func TestClient_Fetch_Blocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(httputil.New(logger.Nop()).DisableRetry(), srv.URL,
		map[string]string{"GOOGL": "google-inc"}, logger.Nop())

	_, err := client.Fetch(context.Background(), "GOOGL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
