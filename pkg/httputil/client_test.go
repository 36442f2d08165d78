package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/wonny/fairvalue/pkg/logger"
)

func newTestClient() *Client {
	return New(logger.Nop()).WithRetry(2, time.Millisecond)
}

func TestClient_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fairvalue-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"symbol":"AAPL","price":189.5}`)
	}))
	defer srv.Close()

	var out struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"price"`
	}
	client := newTestClient().WithHeader("User-Agent", "fairvalue-test")
	require.NoError(t, client.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "AAPL", out.Symbol)
	assert.Equal(t, 189.5, out.Price)
}

func TestClient_GetJSON_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := newTestClient().GetJSON(context.Background(), srv.URL+"/ratios/AAPL?apikey=secret", &out)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.NotContains(t, statusErr.URL, "secret")
	assert.Contains(t, statusErr.Body, "invalid key")
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	resp, err := newTestClient().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_RetryReplaysBody(t *testing.T) {
	var calls int32
	var lastBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody = string(body)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := newTestClient().Post(context.Background(), srv.URL, "text/plain", strings.NewReader("payload"))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "payload", lastBody)
}

func TestClient_DisableRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resp, err := newTestClient().DisableRetry().Get(context.Background(), srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"chat_id":42,"text":"hi"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := newTestClient().PostJSON(context.Background(), srv.URL, map[string]interface{}{
		"chat_id": 42,
		"text":    "hi",
	})
	require.NoError(t, err)
	resp.Body.Close()
}

func TestClient_LimiterCancelled(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, limiter.Allow()) // drain the only token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().WithLimiter(limiter).Get(ctx, "http://127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait failed")
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRetryableError(tt.code), "status %d", tt.code)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fmp api key",
			in:   "https://financialmodelingprep.com/api/v3/ratios/AAPL?apikey=abc123",
			want: "https://financialmodelingprep.com/api/v3/ratios/AAPL?apikey=%2A%2A%2A",
		},
		{
			name: "telegram token",
			in:   "https://api.telegram.org/bot123:ABC/sendMessage",
			want: "https://api.telegram.org/bot***/sendMessage",
		},
		{
			name: "nothing secret",
			in:   "https://query2.finance.yahoo.com/v10/finance/quoteSummary/AAPL?modules=summaryDetail",
			want: "https://query2.finance.yahoo.com/v10/finance/quoteSummary/AAPL?modules=summaryDetail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, redact(tt.in))
		})
	}
}
