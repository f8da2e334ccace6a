package watchlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"MinerviniScan/internal/model"
)

// Entry is the last known verdict for one symbol.
type Entry struct {
	Symbol         string               `json:"symbol"`
	Recommendation model.Recommendation `json:"recommendation,omitempty"`
	Phase1Score    int                  `json:"phase1_score"`
	Phase2Score    int                  `json:"phase2_score"`
	Price          float64              `json:"price"`
	StopLoss       float64              `json:"stop_loss"`
	AsOf           time.Time            `json:"as_of"`
	BuySince       time.Time            `json:"buy_since,omitempty"`
	LastError      string               `json:"last_error,omitempty"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// State is the persisted watchlist.
type State struct {
	Entries    map[string]*Entry `json:"entries"`
	LastRunID  string            `json:"last_run_id,omitempty"`
	LastScanAt time.Time         `json:"last_scan_at,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// LoadState reads the watchlist state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Entries: map[string]*Entry{}}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Entries == nil {
		state.Entries = map[string]*Entry{}
	}
	return &state, nil
}

// SaveState writes the watchlist state to a JSON file.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
