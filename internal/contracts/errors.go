package contracts

import "errors"

// Sentinel errors shared across packages; callers match with errors.Is
var (
	// ErrMalformedBasket is a contract violation in the engine input
	ErrMalformedBasket = errors.New("malformed basket")

	// ErrNoValidData means every ticker in the request failed to fetch
	ErrNoValidData = errors.New("could not retrieve valid data for the tickers provided")

	// ErrTooManyTickers means the request exceeds the configured ticker limit
	ErrTooManyTickers = errors.New("too many tickers")

	// ErrNoTickers means the request named no tickers at all
	ErrNoTickers = errors.New("no tickers provided")

	// ErrInvalidTicker means a ticker contains characters no exchange symbol uses
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrMergeConflict is returned by error_on_conflict merges
	ErrMergeConflict = errors.New("conflicting metric values")
)
