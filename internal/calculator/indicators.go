package calculator

import (
	"fmt"

	"MinerviniScan/internal/model"
)

// MinBars is the shortest series any scoring stage can use.
const MinBars = 50

// Compute derives the full indicator set from a date-ascending series.
// volumePeriod is the window of the rolling average volume.
func Compute(bars []model.Bar, volumePeriod int) (*model.IndicatorSet, error) {
	if len(bars) < MinBars {
		return nil, fmt.Errorf("%w: %d bars, need at least %d", model.ErrInsufficientHistory, len(bars), MinBars)
	}
	closes := model.Closes(bars)
	ind := &model.IndicatorSet{}

	var err error
	if ind.SMA50, err = SMA(closes, 50); err != nil {
		return nil, fmt.Errorf("sma50: %w", err)
	}
	// Longer averages stay empty until enough bars exist; scorers report that.
	ind.SMA150 = optional(closes, 150, SMA)
	ind.SMA200 = optional(closes, 200, SMA)
	if ind.EMA10, err = EMA(closes, 10); err != nil {
		return nil, fmt.Errorf("ema10: %w", err)
	}
	if ind.EMA21, err = EMA(closes, 21); err != nil {
		return nil, fmt.Errorf("ema21: %w", err)
	}
	if ind.High252, err = RollingHigh(bars, TradingYear); err != nil {
		return nil, fmt.Errorf("52-week high: %w", err)
	}
	if ind.Low252, err = RollingLow(bars, TradingYear); err != nil {
		return nil, fmt.Errorf("52-week low: %w", err)
	}
	if volumePeriod > len(bars) {
		volumePeriod = len(bars)
	}
	if ind.AvgVolume, err = SMA(model.Volumes(bars), volumePeriod); err != nil {
		return nil, fmt.Errorf("average volume: %w", err)
	}
	return ind, nil
}

// optional returns an undefined line when the series is shorter than period.
func optional(values []float64, period int, fn func([]float64, int) (model.Line, error)) model.Line {
	line, err := fn(values, period)
	if err != nil {
		return model.Line{Values: make([]float64, len(values)), Start: len(values)}
	}
	return line
}
