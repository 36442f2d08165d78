package valuation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/fairvalue/internal/contracts"
	"github.com/wonny/fairvalue/internal/policy"
)

func TestDecodeBasket_KeepsDocumentOrder(t *testing.T) {
	basket, err := DecodeBasket(strings.NewReader(`{
		"BBB": {"price": 50, "per": 20, "pcf": null},
		"AAA": {"price": 100, "per": 10, "note": "ignored"}
	}`))
	require.NoError(t, err)
	require.Len(t, basket, 2)

	assert.Equal(t, "BBB", basket[0].Ticker)
	assert.Equal(t, f(50), basket[0].Price)
	assert.Nil(t, basket[0].PCF)
	assert.Equal(t, "AAA", basket[1].Ticker)

	v, err := NewEngine(policy.Default()).Run(basket)
	require.NoError(t, err)
	assert.Equal(t, []string{"BBB", "AAA"}, v.Tickers())
}

func TestDecodeBasket_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not an object", `[{"price": 1}]`},
		{"entry is a number", `{"AAA": 5}`},
		{"entry is null", `{"AAA": null}`},
		{"entry is a list", `{"AAA": [1, 2]}`},
		{"broken json", `{"AAA": {"price": 1}`},
		{"empty body", ``},
		{"second document", `{"AAA": {"price": 1}} {"junk": 1}`},
		{"trailing garbage", `{"AAA": {"price": 1}} trailing`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBasket(strings.NewReader(tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, contracts.ErrMalformedBasket), "got %v", err)
		})
	}
}

func TestDecodeBasket_Empty(t *testing.T) {
	basket, err := DecodeBasket(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, basket)
}

func TestDecodeBasket_TrailingWhitespace(t *testing.T) {
	basket, err := DecodeBasket(strings.NewReader("{\"AAA\": {\"price\": 1}}\n\t "))
	require.NoError(t, err)
	require.Len(t, basket, 1)
	assert.Equal(t, "AAA", basket[0].Ticker)
}
