package policy

import (
	"fmt"
	"math"
)

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all policy constraints
func Validate(p Policy) error {
	if err := validateThreshold("recommendation.underpriced_threshold", p.Recommendation.UnderpricedThreshold); err != nil {
		return err
	}
	if err := validateThreshold("recommendation.overpriced_threshold", p.Recommendation.OverpricedThreshold); err != nil {
		return err
	}

	switch p.Historical.Mode {
	case HistoricalStrict, HistoricalLenient:
	default:
		return ValidationError{"historical.mode", fmt.Sprintf("must be strict or lenient, got %q", p.Historical.Mode)}
	}

	switch p.Peers.Include {
	case IncludeFinite, IncludePositive:
	default:
		return ValidationError{"peers.include", fmt.Sprintf("must be finite or positive, got %q", p.Peers.Include)}
	}

	if p.Rounding.Places < 0 || p.Rounding.Places > 10 {
		return ValidationError{"rounding.places", "must be in [0, 10]"}
	}

	return nil
}

func validateThreshold(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ValidationError{field, "must be a finite value >= 0"}
	}
	return nil
}
