package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/pkg/httputil"
	"github.com/wonny/fairvalue/pkg/logger"
)

const summaryBody = `{"quoteSummary":{"result":[{
	"summaryDetail":{"trailingPE":{"raw":29.8,"fmt":"29.80"},"priceToSalesTrailing12Months":{"raw":7.6,"fmt":"7.60"}},
	"defaultKeyStatistics":{"priceToBook":{"raw":47.1,"fmt":"47.10"}},
	"financialData":{"currentPrice":{"raw":189.5,"fmt":"189.50"},"returnOnEquity":{"raw":1.56,"fmt":"156.08%"},
		"profitMargins":{"raw":0.26,"fmt":"26.31%"},"debtToEquity":{"raw":151.86,"fmt":"151.86%"},
		"currentRatio":{"raw":0.99},"quickRatio":{}}
}],"error":null}}`

func newClient(baseURL string) *Client {
	return NewClient(httputil.New(logger.Nop()).DisableRetry(), baseURL, logger.Nop())
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Equal(t, summaryModules, r.URL.Query().Get("modules"))
		_, _ = w.Write([]byte(summaryBody))
	}))
	defer srv.Close()

	m, err := newClient(srv.URL).Fetch(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", m.Ticker)
	assert.Equal(t, contracts.Float(189.5), m.Price)
	assert.Equal(t, contracts.Float(29.8), m.PER)
	assert.Equal(t, contracts.Float(7.6), m.PS)
	assert.Equal(t, contracts.Float(47.1), m.PBV)
	assert.Equal(t, contracts.Float(1.56), m.ROE)
	assert.Equal(t, contracts.Float(0.26), m.NetMargin)
	assert.Equal(t, contracts.Float(151.86), m.DebtToEquity)
	assert.Equal(t, contracts.Float(0.99), m.CurrentRatio)
	assert.Nil(t, m.QuickRatio, "empty wrapper")
	assert.Nil(t, m.PCF, "not provided by yahoo")
}

func TestClient_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`},
		{"error payload", http.StatusOK, `{"quoteSummary":{"result":null,"error":{"code":"Bad","description":"nope"}}}`},
		{"empty result", http.StatusOK, `{"quoteSummary":{"result":[],"error":null}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newClient(srv.URL).Fetch(context.Background(), "ZZZZ")
			assert.Error(t, err)
		})
	}
}
