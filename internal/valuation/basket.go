package valuation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/wonny/fairvalue/internal/contracts"
)

// DecodeBasket reads a JSON object of ticker -> metrics object,
// keeping the document order of the tickers.
// Entries that are not objects are ErrMalformedBasket.
func DecodeBasket(r io.Reader) ([]contracts.TickerMetrics, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrMalformedBasket, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: basket must be a JSON object", contracts.ErrMalformedBasket)
	}

	var basket []contracts.TickerMetrics
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contracts.ErrMalformedBasket, err)
		}
		ticker, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %v", contracts.ErrMalformedBasket, err)
		}

		var entry map[string]any
		if err := decodeObject(raw, &entry); err != nil || entry == nil {
			return nil, fmt.Errorf("%w: entry %q is not a mapping", contracts.ErrMalformedBasket, ticker)
		}
		basket = append(basket, contracts.MetricsFromMap(ticker, entry))
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, fmt.Errorf("%w: unterminated basket object", contracts.ErrMalformedBasket)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after basket object", contracts.ErrMalformedBasket)
	}
	return basket, nil
}

func decodeObject(raw json.RawMessage, dest *map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dest)
}
