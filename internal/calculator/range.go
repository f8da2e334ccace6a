package calculator

import (
	"errors"
	"math"

	"MinerviniScan/internal/model"

	"github.com/markcheno/go-talib"
)

// TradingYear is the number of daily bars in the 52-week window.
const TradingYear = 252

// RollingHigh returns the highest high over the trailing window ending at
// each bar. Until window bars exist the window is every bar so far, so the
// line is defined from the first bar.
func RollingHigh(bars []model.Bar, window int) (model.Line, error) {
	return rolling(model.Highs(bars), window, talib.Max, math.Max)
}

// RollingLow returns the lowest low over the trailing window ending at each bar.
func RollingLow(bars []model.Bar, window int) (model.Line, error) {
	return rolling(model.Lows(bars), window, talib.Min, math.Min)
}

func rolling(values []float64, window int, full func([]float64, int) []float64, pick func(a, b float64) float64) (model.Line, error) {
	if len(values) == 0 {
		return model.Line{}, errors.New("no daily bars provided")
	}
	if window <= 0 {
		return model.Line{}, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	if window == 1 {
		copy(out, values)
		return model.Line{Values: out}, nil
	}
	head := len(values)
	if len(values) >= window {
		copy(out, full(values, window))
		head = window - 1
	}
	running := values[0]
	for i := 0; i < head; i++ {
		running = pick(running, values[i])
		out[i] = running
	}
	return model.Line{Values: out}, nil
}
