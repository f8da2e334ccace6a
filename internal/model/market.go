package model

import (
	"fmt"
	"time"
)

// Bar represents a single daily candlestick.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series holds the date-ascending daily bars of one symbol.
type Series struct {
	Symbol string
	Bars   []Bar
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The series must not be empty.
func (s Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Validate rejects series the engine cannot reason about: unordered or
// duplicated dates, non-positive prices or volumes and inverted ranges.
// Gaps between dates are allowed.
func (s Series) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrMalformedSeries)
	}
	for i, b := range s.Bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: %s bar %d has non-positive price", ErrMalformedSeries, s.Symbol, i)
		}
		if b.Volume <= 0 {
			return fmt.Errorf("%w: %s bar %d has non-positive volume", ErrMalformedSeries, s.Symbol, i)
		}
		if b.High < b.Low {
			return fmt.Errorf("%w: %s bar %d high %.2f below low %.2f", ErrMalformedSeries, s.Symbol, i, b.High, b.Low)
		}
		if i > 0 && !b.Time.After(s.Bars[i-1].Time) {
			return fmt.Errorf("%w: %s bar %d dated %s not after %s", ErrMalformedSeries, s.Symbol, i,
				b.Time.Format("2006-01-02"), s.Bars[i-1].Time.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts close prices.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts high prices.
func Highs(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts low prices.
func Lows(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts volumes.
func Volumes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
