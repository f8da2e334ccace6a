package model

import "errors"

var (
	// ErrInsufficientHistory means the series is too short for the indicators a
	// stage needs. It is terminal for that symbol; callers skip, not retry.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInvalidStopLoss means the base-leg stop sits at or above the current
	// price, which points at a broken base detection upstream.
	ErrInvalidStopLoss = errors.New("invalid stop loss")

	// ErrMalformedSeries means the input violates the series contract.
	ErrMalformedSeries = errors.New("malformed series")
)

// FailureKind maps an analysis error to a stable label for storage and metrics.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, ErrInvalidStopLoss):
		return "invalid_stop_loss"
	case errors.Is(err, ErrMalformedSeries):
		return "malformed_series"
	default:
		return "other"
	}
}
