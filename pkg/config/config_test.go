package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("FMP_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, []string{"fmp"}, cfg.Ratios.Sources)
	assert.Equal(t, 4, cfg.Ratios.Workers)
	assert.True(t, cfg.Ratios.RequireAll)
	assert.Equal(t, "last_writer_wins", cfg.Ratios.MergePolicy)
	assert.Equal(t, time.Hour, cfg.Ratios.CacheTTL)
	assert.Equal(t, 10, cfg.Ratios.MaxTickers)
	assert.Equal(t, "https://financialmodelingprep.com/api/v3", cfg.FMP.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Telegram.PollTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Digest.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FMP_API_KEY", "test-key")
	t.Setenv("RATIO_SOURCES", "Yahoo, fmp")
	t.Setenv("INVESTING_SLUGS", "googl:google-inc, AAPL:apple-computer-inc,broken")
	t.Setenv("DIGEST_ENABLED", "true")
	t.Setenv("DIGEST_TICKERS", "GOOGL,AAPL")
	t.Setenv("DIGEST_CHAT_IDS", "100, -200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"yahoo", "fmp"}, cfg.Ratios.Sources)
	assert.True(t, cfg.HasSource("yahoo"))
	assert.False(t, cfg.HasSource("investing"))
	assert.Equal(t, map[string]string{
		"GOOGL": "google-inc",
		"AAPL":  "apple-computer-inc",
	}, cfg.Investing.Slugs)
	assert.Equal(t, []int64{100, -200}, cfg.Digest.ChatIDs)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "invalid env",
			env:  map[string]string{"FMP_API_KEY": "k", "ENV": "invalid"},
		},
		{
			name: "missing fmp key",
			env:  map[string]string{"RATIO_SOURCES": "fmp"},
		},
		{
			name: "unknown source",
			env:  map[string]string{"RATIO_SOURCES": "bloomberg"},
		},
		{
			name: "unknown merge policy",
			env:  map[string]string{"FMP_API_KEY": "k", "RATIO_MERGE_POLICY": "first_wins"},
		},
		{
			name: "zero workers",
			env:  map[string]string{"FMP_API_KEY": "k", "RATIO_WORKERS": "0"},
		},
		{
			name: "digest without chats",
			env:  map[string]string{"FMP_API_KEY": "k", "DIGEST_ENABLED": "true", "DIGEST_TICKERS": "AAPL"},
		},
		{
			name: "bad chat id",
			env:  map[string]string{"FMP_API_KEY": "k", "DIGEST_CHAT_IDS": "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FMP_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_YahooOnlyNeedsNoKey(t *testing.T) {
	t.Setenv("FMP_API_KEY", "")
	t.Setenv("RATIO_SOURCES", "yahoo")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"yahoo"}, cfg.Ratios.Sources)
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")
	assert.Equal(t, 2*time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))

	t.Setenv("TEST_DURATION", "garbage")
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")
	assert.Equal(t, 100, getEnvAsInt("TEST_INT", 50))

	t.Setenv("TEST_INT", "x")
	assert.Equal(t, 50, getEnvAsInt("TEST_INT", 50))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))
}
