package watchlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MinerviniScan/internal/model"
)

func result(symbol string, verdict model.Recommendation, day int) *model.AnalysisResult {
	return &model.AnalysisResult{
		Symbol:         symbol,
		AsOf:           time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC),
		CurrentPrice:   100,
		Phase1Score:    6,
		Phase2Score:    2,
		Recommendation: verdict,
		StopLoss:       93,
	}
}

func TestObserve_AlertsOnlyOnNewBuy(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	assert.False(t, m.Observe(result("AAPL", model.RecommendAvoid, 3)))
	assert.True(t, m.Observe(result("AAPL", model.RecommendBuy, 4)))
	assert.False(t, m.Observe(result("AAPL", model.RecommendBuy, 5)), "still BUY")
	assert.False(t, m.Observe(result("AAPL", model.RecommendAvoid, 6)))
	assert.True(t, m.Observe(result("AAPL", model.RecommendBuy, 7)), "BUY again after AVOID")
	assert.True(t, m.Observe(result("MSFT", model.RecommendBuy, 7)), "first sighting as BUY")

	entries := m.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "AAPL", entries[0].Symbol)
	assert.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), entries[0].BuySince)
}

func TestObserveFailure_KeepsVerdict(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)

	m.Observe(result("NVDA", model.RecommendBuy, 3))
	m.ObserveFailure("NVDA", errors.New("yahoo: status 500"))

	e := m.Entries()[0]
	assert.Equal(t, model.RecommendBuy, e.Recommendation)
	assert.Equal(t, "yahoo: status 500", e.LastError)
	assert.False(t, m.Observe(result("NVDA", model.RecommendBuy, 4)), "a failed scan does not re-arm the alert")
	assert.Empty(t, m.Entries()[0].LastError)
}

func TestManager_PersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "state.json")
	m, err := NewManager(path)
	require.NoError(t, err)
	m.Observe(result("AMD", model.RecommendBuy, 3))
	at := time.Date(2024, 6, 3, 22, 30, 0, 0, time.UTC)
	m.FinishScan("run-1", at)

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	runID, scanAt := reloaded.LastScan()
	assert.Equal(t, "run-1", runID)
	assert.True(t, at.Equal(scanAt))
	assert.False(t, reloaded.Observe(result("AMD", model.RecommendBuy, 4)))
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := NewManager(path)
	assert.Error(t, err)
}
