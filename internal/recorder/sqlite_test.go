package recorder

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MinerviniScan/internal/model"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "nested", "scan.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func sampleResult(symbol string, verdict model.Recommendation, price float64) *model.AnalysisResult {
	return &model.AnalysisResult{
		Symbol:         symbol,
		AsOf:           time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		CurrentPrice:   price,
		Phase1Score:    5,
		Phase1Failures: []string{"near_52w_high"},
		Phase2Score:    3,
		Entry:          model.EntrySignal{Triggered: verdict == model.RecommendBuy, Pivot: 93, VolumeRatio: 2.1},
		Recommendation: verdict,
		StopLoss:       price * 0.92,
		RiskPercent:    8,
		Position:       &model.Position{Shares: 120, Capital: price * 120, DollarRisk: 960},
	}
}

func TestSQLiteRecorder_ResultsRoundTrip(t *testing.T) {
	r := openTestDB(t)

	require.NoError(t, r.RecordResult("run-1", sampleResult("AAPL", model.RecommendAvoid, 180)))
	require.NoError(t, r.RecordResult("run-2", sampleResult("AAPL", model.RecommendBuy, 190)))
	require.NoError(t, r.RecordResult("run-2", sampleResult("MSFT", model.RecommendAvoid, 400)))

	got, err := r.RecentResults("AAPL", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	newest := got[0]
	assert.Equal(t, "run-2", newest.RunID)
	assert.Equal(t, model.RecommendBuy, newest.Recommendation)
	assert.True(t, newest.Triggered)
	assert.Equal(t, 190.0, newest.CurrentPrice)
	assert.Equal(t, []string{"near_52w_high"}, newest.Phase1Failures)
	assert.Equal(t, int64(120), newest.Shares)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), newest.AsOf)
	assert.Equal(t, "run-1", got[1].RunID)
}

func TestSQLiteRecorder_RecentResultsLimit(t *testing.T) {
	r := openTestDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, r.RecordResult(fmt.Sprintf("run-%d", i), sampleResult("NVDA", model.RecommendAvoid, 100+float64(i))))
	}
	got, err := r.RecentResults("NVDA", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "run-4", got[0].RunID)

	none, err := r.RecentResults("NONE", 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecorder_RunsAndFailures(t *testing.T) {
	r := openTestDB(t)
	start := time.Now().Add(-time.Minute)
	run := &ScanRun{ID: "run-9", Trigger: "cli", StartedAt: start, FinishedAt: time.Now(), Symbols: 3, Buys: 1, Avoids: 1, Failures: 1}
	require.NoError(t, r.RecordRun(run))
	run.Failures = 2
	require.NoError(t, r.RecordRun(run), "re-recording a run replaces it")

	require.NoError(t, r.RecordFailure("run-9", "TINY", fmt.Errorf("TINY: %w", model.ErrInsufficientHistory)))
	n, err := r.CountFailures("run-9")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var kind string
	require.NoError(t, r.db.QueryRow(`SELECT kind FROM analysis_failures WHERE symbol = 'TINY'`).Scan(&kind))
	assert.Equal(t, "insufficient_history", kind)

	var failures int
	require.NoError(t, r.db.QueryRow(`SELECT failures FROM scan_runs WHERE id = 'run-9'`).Scan(&failures))
	assert.Equal(t, 2, failures)
}

func TestSQLiteRecorder_ReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordResult("run-1", sampleResult("AMD", model.RecommendAvoid, 150)))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.RecentResults("AMD", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordResult("x", sampleResult("A", model.RecommendBuy, 1)))
	got, err := r.RecentResults("A", 5)
	assert.NoError(t, err)
	assert.Empty(t, got)
}
