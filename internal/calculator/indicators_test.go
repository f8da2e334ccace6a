package calculator

import (
	"testing"
	"time"

	"MinerviniScan/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes []float64) []model.Bar {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(1000 + i),
		}
	}
	return bars
}

func linear(n int, from, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

func TestSMA_Values(t *testing.T) {
	line, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	_, ok := line.At(1)
	assert.False(t, ok, "warm-up slot must be undefined")
	for i, want := range map[int]float64{2: 2, 3: 3, 4: 4} {
		got, ok := line.At(i)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestSMA_Errors(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 0)
	assert.Error(t, err)
	_, err = SMA([]float64{1, 2}, 3)
	assert.Error(t, err)
}

func TestEMA_SeededWithSMA(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10, 12}
	line, err := EMA(values, 3)
	require.NoError(t, err)

	seed, ok := line.At(2)
	require.True(t, ok)
	assert.InDelta(t, 4.0, seed, 1e-9)

	k := 2.0 / 4.0
	want := seed
	for i := 3; i < len(values); i++ {
		want = values[i]*k + want*(1-k)
		got, ok := line.At(i)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestRollingHigh_ExpandsThenSlides(t *testing.T) {
	bars := barsFromCloses([]float64{5, 9, 7, 3, 4, 2})
	line, err := RollingHigh(bars, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 10, 10, 10, 8, 5}, line.Values)

	low, err := RollingLow(bars, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4, 2, 2, 1}, low.Values)
}

func TestRollingHigh_ShortSeriesUsesAllBars(t *testing.T) {
	bars := barsFromCloses([]float64{5, 9, 7})
	line, err := RollingHigh(bars, TradingYear)
	require.NoError(t, err)
	v, ok := line.Last()
	require.True(t, ok)
	assert.Equal(t, 10.0, v)

	_, err = RollingHigh(nil, TradingYear)
	assert.Error(t, err)
}

func TestCompute_InsufficientHistory(t *testing.T) {
	_, err := Compute(barsFromCloses(linear(49, 10, 1)), 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInsufficientHistory)
}

func TestCompute_ShortSeriesLeavesLongAveragesUndefined(t *testing.T) {
	ind, err := Compute(barsFromCloses(linear(120, 10, 1)), 50)
	require.NoError(t, err)

	_, ok := ind.SMA50.Last()
	assert.True(t, ok)
	_, ok = ind.SMA150.Last()
	assert.False(t, ok)
	_, ok = ind.SMA200.Last()
	assert.False(t, ok)
}

func TestCompute_FullSeries(t *testing.T) {
	closes := linear(300, 100, 1)
	ind, err := Compute(barsFromCloses(closes), 50)
	require.NoError(t, err)

	sma200, ok := ind.SMA200.Last()
	require.True(t, ok)
	// mean of 200 consecutive integers ending at 399
	assert.InDelta(t, 299.5, sma200, 1e-6)

	hi, _ := ind.High252.Last()
	lo, _ := ind.Low252.Last()
	assert.Equal(t, 400.0, hi)
	assert.Equal(t, 147.0, lo)

	vol, ok := ind.AvgVolume.Last()
	require.True(t, ok)
	assert.InDelta(t, 1274.5, vol, 1e-6)

	ema10, _ := ind.EMA10.Last()
	ema21, _ := ind.EMA21.Last()
	assert.Greater(t, ema10, ema21, "faster EMA leads in an uptrend")
}
