package strategy

import (
	"testing"

	"MinerviniScan/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_BaseBreakoutIsBuy(t *testing.T) {
	res, err := Analyze(vcpScenario(), vcpParams())
	require.NoError(t, err)

	assert.Equal(t, "VCP", res.Symbol)
	assert.Equal(t, 95.0, res.CurrentPrice)
	assert.Equal(t, MaxTrendScore, res.Phase1Score)
	assert.Empty(t, res.Phase1Failures)
	assert.Equal(t, 4, res.Phase2Score)
	assert.True(t, res.Entry.Triggered)
	assert.InDelta(t, 3.6, res.Entry.VolumeRatio, 1e-9)
	assert.Equal(t, model.RecommendBuy, res.Recommendation)
	assert.InDelta(t, 87.42, res.StopLoss, 1e-9)
	assert.InDelta(t, 7.98, res.RiskPercent, 0.01)
	assert.Equal(t, day0.AddDate(0, 0, 279), res.AsOf)
}

func TestAnalyze_SteadyRiseWithoutBaseIsAvoid(t *testing.T) {
	res, err := Analyze(risingSeries(), DefaultParams())
	require.NoError(t, err)

	assert.Equal(t, MaxTrendScore, res.Phase1Score)
	assert.Equal(t, 0, res.Phase2Score)
	assert.False(t, res.Entry.Triggered)
	assert.Equal(t, model.RecommendAvoid, res.Recommendation)
	assert.Less(t, res.StopLoss, res.CurrentPrice)
}

func TestAnalyze_DecliningIsAvoid(t *testing.T) {
	res, err := Analyze(decliningSeries(), DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Phase1Score)
	assert.Len(t, res.Phase1Failures, MaxTrendScore)
	assert.Equal(t, model.RecommendAvoid, res.Recommendation)
}

func TestAnalyze_CloseAtRecentLowIsAvoid(t *testing.T) {
	gapDown := decliningSeries()
	last := &gapDown.Bars[len(gapDown.Bars)-1]
	last.Open, last.High, last.Low, last.Close = 99, 99.5, 98, 98

	tests := []struct {
		name   string
		series model.Series
		price  float64
	}{
		{"flat decline", model.Series{Symbol: "FALL", Bars: flatBars(ramp(300, 200, 100), constant(300, 1000))}, 100},
		{"gap down to session low", gapDown, 98},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(tt.series, DefaultParams())
			require.NoError(t, err)
			assert.Equal(t, 0, res.Phase1Score)
			assert.Len(t, res.Phase1Failures, MaxTrendScore)
			assert.Equal(t, 0, res.Phase2Score)
			assert.Equal(t, model.RecommendAvoid, res.Recommendation)
			assert.Equal(t, tt.price, res.StopLoss)
			assert.Zero(t, res.RiskPercent)
		})
	}
}

func TestAnalyze_WeakTrendBlocksBuy(t *testing.T) {
	p := vcpParams()
	p.NearHighBand = 0.01 // 95 is 5% under the 100 high
	res, err := Analyze(vcpScenario(), p)
	require.NoError(t, err)
	assert.True(t, res.Entry.Triggered)
	assert.Equal(t, MaxTrendScore-1, res.Phase1Score)
	assert.Equal(t, model.RecommendBuy, res.Recommendation, "all-but-one still qualifies")

	p.MinPhase1Score = MaxTrendScore
	res, err = Analyze(vcpScenario(), p)
	require.NoError(t, err)
	assert.Equal(t, model.RecommendAvoid, res.Recommendation)
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	for _, n := range []int{0, 1, 49, 120} {
		s := model.Series{Symbol: "SHORT", Bars: flatBars(ramp(n+1, 10, 20)[:n], constant(n, 1000))}
		_, err := Analyze(s, DefaultParams())
		require.Error(t, err, "%d bars", n)
		assert.ErrorIs(t, err, model.ErrInsufficientHistory, "%d bars", n)
	}
}

func TestAnalyze_MalformedSeries(t *testing.T) {
	s := risingSeries()
	s.Bars[10].Time = s.Bars[9].Time
	_, err := Analyze(s, DefaultParams())
	assert.ErrorIs(t, err, model.ErrMalformedSeries)

	s = risingSeries()
	s.Bars[20].Volume = 0
	_, err = Analyze(s, DefaultParams())
	assert.ErrorIs(t, err, model.ErrMalformedSeries)
}

func TestAnalyze_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.VolumeSurge = 0
	_, err := Analyze(risingSeries(), p)
	assert.Error(t, err)
}

func TestAnalyze_Idempotent(t *testing.T) {
	for _, s := range []model.Series{vcpScenario(), risingSeries(), decliningSeries(), randomWalk(7, 300)} {
		p := vcpParams()
		p.AccountSize = 25000
		first, err1 := Analyze(s, p)
		second, err2 := Analyze(s, p)
		assert.Equal(t, err1, err2, s.Symbol)
		assert.Equal(t, first, second, s.Symbol)
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	s := vcpScenario()
	before := append([]model.Bar(nil), s.Bars...)
	_, err := Analyze(s, vcpParams())
	require.NoError(t, err)
	assert.Equal(t, before, s.Bars)
}

func TestRun_ExposesChartData(t *testing.T) {
	rep, err := Run(vcpScenario(), vcpParams())
	require.NoError(t, err)
	require.NotNil(t, rep.Indicators)
	assert.Len(t, rep.Indicators.SMA200.Values, len(vcpScenario().Bars))
	assert.Len(t, rep.VCP.Base, 3)
}

func TestRecommend_Table(t *testing.T) {
	p := DefaultParams()
	fired := model.EntrySignal{Triggered: true}
	tests := []struct {
		phase1, phase2 int
		entry          model.EntrySignal
		want           model.Recommendation
	}{
		{6, 3, fired, model.RecommendBuy},
		{5, 1, fired, model.RecommendBuy},
		{4, 3, fired, model.RecommendAvoid},
		{6, 0, fired, model.RecommendAvoid},
		{6, 3, model.EntrySignal{}, model.RecommendAvoid},
		{0, 0, model.EntrySignal{}, model.RecommendAvoid},
	}
	for _, tt := range tests {
		got := Recommend(tt.phase1, tt.phase2, tt.entry, p)
		assert.Equal(t, tt.want, got, "phase1=%d phase2=%d triggered=%v", tt.phase1, tt.phase2, tt.entry.Triggered)
	}
}
