package watchlist

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"MinerviniScan/internal/model"
)

// Manager tracks each symbol's last verdict with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe stores a fresh result and reports whether the symbol just turned
// BUY. A symbol that stays BUY across scans alerts once.
func (m *Manager) Observe(res *model.AnalysisResult) (newBuy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(res.Symbol)
	wasBuy := e.Recommendation == model.RecommendBuy
	isBuy := res.Recommendation == model.RecommendBuy

	e.Recommendation = res.Recommendation
	e.Phase1Score = res.Phase1Score
	e.Phase2Score = res.Phase2Score
	e.Price = res.CurrentPrice
	e.StopLoss = res.StopLoss
	e.AsOf = res.AsOf
	e.LastError = ""
	e.UpdatedAt = time.Now()
	switch {
	case isBuy && !wasBuy:
		e.BuySince = res.AsOf
	case !isBuy:
		e.BuySince = time.Time{}
	}

	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save watchlist state")
	}
	return isBuy && !wasBuy
}

// ObserveFailure records why a symbol could not be analyzed. The previous
// verdict is kept.
func (m *Manager) ObserveFailure(symbol string, failure error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.entry(symbol)
	e.LastError = failure.Error()
	e.UpdatedAt = time.Now()

	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save watchlist state")
	}
}

// FinishScan stamps the run that last touched the watchlist.
func (m *Manager) FinishScan(runID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastRunID = runID
	m.state.LastScanAt = at

	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save watchlist state after scan")
	}
}

// Entries returns a copy of every entry sorted by symbol.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, 0, len(m.state.Entries))
	for _, e := range m.state.Entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// LastScan returns the last run id and its finish time.
func (m *Manager) LastScan() (string, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastRunID, m.state.LastScanAt
}

func (m *Manager) entry(symbol string) *Entry {
	e, ok := m.state.Entries[symbol]
	if !ok {
		e = &Entry{Symbol: symbol}
		m.state.Entries[symbol] = e
	}
	return e
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
