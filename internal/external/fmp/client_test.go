package fmp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

func ratiosJSON(n int) string {
	periods := make([]string, n)
	for i := 0; i < n; i++ {
		periods[i] = fmt.Sprintf(`{"symbol":"AAPL","date":"%d-09-30","priceEarningsRatio":%d,"priceSalesRatio":%d.5,"priceToBookRatio":%d,"priceCashFlowRatio":-%d,"currentRatio":0.98,"quickRatio":0.82,"cashRatio":0.2,"inventoryTurnover":37.9,"daysOfInventoryOutstanding":9.6,"assetTurnover":1.09,"returnOnEquity":1.6,"netProfitMargin":0.24,"debtEquityRatio":1.87}`,
			2024-i, 30-i, 7-i, 40-i, 25-i)
	}
	return "[" + strings.Join(periods, ",") + "]"
}

func newServer(t *testing.T, ratios, price string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch r.URL.Path {
		case "/ratios/AAPL":
			_, _ = w.Write([]byte(ratios))
		case "/stock/full/real-time-price/AAPL":
			_, _ = w.Write([]byte(price))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(baseURL string) *Client {
	hc := httputil.New(logger.Nop()).WithRetry(1, time.Millisecond)
	return NewClient(hc, baseURL, "test-key", logger.Nop())
}

func TestClient_Fetch(t *testing.T) {
	srv := newServer(t, ratiosJSON(5), `[{"symbol":"AAPL","lastSalePrice":189.5}]`, http.StatusOK)

	m, err := newClient(srv.URL).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", m.Ticker)
	assert.Equal(t, contracts.Float(189.5), m.Price)
	assert.Equal(t, contracts.Float(30), m.PER)
	assert.Equal(t, contracts.Float(7.5), m.PS)
	assert.Equal(t, contracts.Float(40), m.PBV)
	assert.Equal(t, contracts.Float(-25), m.PCF)
	assert.Equal(t, contracts.Float(9.6), m.DaysInventory)
	assert.Equal(t, contracts.Float(1.6), m.ROE)
	assert.Equal(t, contracts.Float(0.24), m.NetMargin)
	assert.Equal(t, contracts.Float(1.87), m.DebtToEquity)

	// element 4 is five years ago
	assert.Equal(t, contracts.Float(26), m.PER5Y)
	assert.Equal(t, contracts.Float(3.5), m.PS5Y)
	assert.Equal(t, contracts.Float(36), m.PBV5Y)
}

func TestClient_Fetch_ShortHistory(t *testing.T) {
	srv := newServer(t, ratiosJSON(3), `[{"lastSalePrice":189.5}]`, http.StatusOK)

	m, err := newClient(srv.URL).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, m.PER5Y)
	assert.Nil(t, m.PS5Y)
	assert.Nil(t, m.PBV5Y)
	assert.Equal(t, contracts.Float(30), m.PER)
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		ratios string
		price  string
		status int
	}{
		{"unauthorized", "", "", http.StatusUnauthorized},
		{"empty ratios", "[]", `[{"lastSalePrice":1}]`, http.StatusOK},
		{"empty price", ratiosJSON(1), "[]", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.ratios, tt.price, tt.status)
			_, err := newClient(srv.URL).Fetch(context.Background(), "AAPL")
			assert.Error(t, err)
		})
	}
}

func TestClient_Fetch_StatusErrorIsTyped(t *testing.T) {
	srv := newServer(t, "", "", http.StatusForbidden)

	_, err := newClient(srv.URL).Fetch(context.Background(), "AAPL")
	var statusErr *httputil.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.NotContains(t, err.Error(), "test-key")
}

func TestClient_Name(t *testing.T) {
	assert.Equal(t, "fmp", newClient("http://localhost").Name())
}
