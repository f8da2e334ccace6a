package strategy

import (
	"testing"

	"MinerviniScan/internal/calculator"
	"MinerviniScan/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCriteria = []string{
	CriterionAboveLongMAs,
	CriterionSMA200Rising,
	CriterionMAStacked,
	CriterionAbove52wLow,
	CriterionNear52wHigh,
	CriterionAboveShortEMAs,
}

func scoreSeries(t *testing.T, s model.Series, p Params) (TrendScore, error) {
	t.Helper()
	ind, err := calculator.Compute(s.Bars, p.VolumeAvgPeriod)
	require.NoError(t, err)
	return ScoreTrendTemplate(s.Bars, ind, p)
}

func TestTrendTemplate_RisingSeriesScoresMax(t *testing.T) {
	ts, err := scoreSeries(t, risingSeries(), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, MaxTrendScore, ts.Score)
	assert.Empty(t, ts.Failures)
}

func TestTrendTemplate_DecliningSeriesFailsEverything(t *testing.T) {
	ts, err := scoreSeries(t, decliningSeries(), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 0, ts.Score)
	assert.Equal(t, allCriteria, ts.Failures)
}

func TestTrendTemplate_FlatSeriesOnlyNearHigh(t *testing.T) {
	s := model.Series{Symbol: "FLAT", Bars: rangedBars(constant(260, 50), 1000)}
	ts, err := scoreSeries(t, s, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, ts.Score)
	assert.NotContains(t, ts.Failures, CriterionNear52wHigh)
}

func TestTrendTemplate_BandsAreConfigurable(t *testing.T) {
	// rising 100 -> 200: the 52-week low is about 116, so 200 is ~72% above it
	p := DefaultParams()
	p.AboveLowBand = 0.80
	ts, err := scoreSeries(t, risingSeries(), p)
	require.NoError(t, err)
	assert.Equal(t, MaxTrendScore-1, ts.Score)
	assert.Equal(t, []string{CriterionAbove52wLow}, ts.Failures)
}

func TestTrendTemplate_InsufficientHistory(t *testing.T) {
	tests := []struct {
		name string
		bars int
	}{
		{"no sma200", 150},
		{"sma200 without trend lookback", 210},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.Series{Symbol: "SHORT", Bars: flatBars(ramp(tt.bars, 10, 20), constant(tt.bars, 1000))}
			_, err := scoreSeries(t, s, DefaultParams())
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInsufficientHistory)
		})
	}
}
