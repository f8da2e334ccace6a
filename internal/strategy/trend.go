package strategy

import (
	"fmt"

	"MinerviniScan/internal/model"
)

// Trend template criteria, in checklist order.
const (
	CriterionAboveLongMAs   = "price_above_sma150_sma200"
	CriterionSMA200Rising   = "sma150_above_rising_sma200"
	CriterionMAStacked      = "ma_stacked"
	CriterionAbove52wLow    = "above_52w_low"
	CriterionNear52wHigh    = "near_52w_high"
	CriterionAboveShortEMAs = "above_short_emas"
)

// MaxTrendScore is the number of trend template criteria.
const MaxTrendScore = 6

// TrendScore is the Phase 1 outcome.
type TrendScore struct {
	Score    int
	Failures []string
}

// trendInputs are the latest indicator readings the checklist compares.
type trendInputs struct {
	close, sma50, sma150, sma200, sma200Prior float64
	ema10, ema21, high252, low252             float64
}

// ScoreTrendTemplate evaluates the trend template at the latest bar. Every
// indicator must be defined; a partial score would be misleading, so short
// histories fail with ErrInsufficientHistory.
func ScoreTrendTemplate(bars []model.Bar, ind *model.IndicatorSet, p Params) (TrendScore, error) {
	in, err := readTrendInputs(bars, ind, p.TrendLookback)
	if err != nil {
		return TrendScore{}, err
	}

	checks := []struct {
		name string
		ok   bool
	}{
		{CriterionAboveLongMAs, in.close > in.sma150 && in.close > in.sma200},
		{CriterionSMA200Rising, in.sma150 > in.sma200 && in.sma200 > in.sma200Prior},
		{CriterionMAStacked, in.sma50 > in.sma150 && in.sma150 > in.sma200},
		{CriterionAbove52wLow, in.close >= (1+p.AboveLowBand)*in.low252},
		{CriterionNear52wHigh, in.close >= (1-p.NearHighBand)*in.high252},
		{CriterionAboveShortEMAs, in.close > in.ema10 && in.close > in.ema21},
	}

	ts := TrendScore{Failures: []string{}}
	for _, c := range checks {
		if c.ok {
			ts.Score++
		} else {
			ts.Failures = append(ts.Failures, c.name)
		}
	}
	return ts, nil
}

func readTrendInputs(bars []model.Bar, ind *model.IndicatorSet, lookback int) (trendInputs, error) {
	if len(bars) == 0 || ind == nil {
		return trendInputs{}, fmt.Errorf("%w: no bars", model.ErrInsufficientHistory)
	}
	last := len(bars) - 1
	in := trendInputs{close: bars[last].Close}

	reads := []struct {
		name string
		line model.Line
		idx  int
		dst  *float64
	}{
		{"sma50", ind.SMA50, last, &in.sma50},
		{"sma150", ind.SMA150, last, &in.sma150},
		{"sma200", ind.SMA200, last, &in.sma200},
		{"sma200 trend", ind.SMA200, last - lookback, &in.sma200Prior},
		{"ema10", ind.EMA10, last, &in.ema10},
		{"ema21", ind.EMA21, last, &in.ema21},
		{"52-week high", ind.High252, last, &in.high252},
		{"52-week low", ind.Low252, last, &in.low252},
	}
	for _, r := range reads {
		v, ok := r.line.At(r.idx)
		if !ok {
			return trendInputs{}, fmt.Errorf("%w: %s undefined with %d bars", model.ErrInsufficientHistory, r.name, len(bars))
		}
		*r.dst = v
	}
	return in, nil
}
