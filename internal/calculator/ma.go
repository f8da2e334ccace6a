package calculator

import (
	"errors"

	"MinerviniScan/internal/model"

	"github.com/markcheno/go-talib"
)

// SMA computes the simple moving average of values over period, aligned to
// the input. The first period-1 slots are warm-up.
func SMA(values []float64, period int) (model.Line, error) {
	if err := checkWindow(values, period); err != nil {
		return model.Line{}, err
	}
	if period == 1 {
		return model.Line{Values: append([]float64(nil), values...)}, nil
	}
	return model.Line{Values: talib.Sma(values, period), Start: period - 1}, nil
}

// EMA computes the exponential moving average with smoothing 2/(period+1),
// seeded with the SMA of the first period values.
func EMA(values []float64, period int) (model.Line, error) {
	if err := checkWindow(values, period); err != nil {
		return model.Line{}, err
	}
	return model.Line{Values: talib.Ema(values, period), Start: period - 1}, nil
}

func checkWindow(values []float64, period int) error {
	if period <= 0 {
		return errors.New("period must be positive")
	}
	if len(values) < period {
		return errors.New("not enough data for moving average")
	}
	return nil
}
