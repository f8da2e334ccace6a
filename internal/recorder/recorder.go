package recorder

import (
	"time"

	"MinerviniScan/internal/model"
)

// ScanRun summarizes one pass over a list of symbols.
type ScanRun struct {
	ID         string
	Trigger    string // "cron", "cli", "command"
	StartedAt  time.Time
	FinishedAt time.Time
	Symbols    int
	Buys       int
	Avoids     int
	Failures   int
}

// StoredResult is an analysis result as read back from storage.
type StoredResult struct {
	RunID          string
	RecordedAt     time.Time
	Symbol         string
	AsOf           time.Time
	CurrentPrice   float64
	Phase1Score    int
	Phase1Failures []string
	Phase2Score    int
	Triggered      bool
	VolumeRatio    float64
	Recommendation model.Recommendation
	StopLoss       float64
	RiskPercent    float64
	Shares         int64
}

// Recorder persists analysis history.
type Recorder interface {
	RecordRun(run *ScanRun) error
	RecordResult(runID string, res *model.AnalysisResult) error
	RecordFailure(runID, symbol string, err error) error
	// RecentResults returns the newest results for symbol, newest first.
	RecentResults(symbol string, limit int) ([]StoredResult, error)
	// CountFailures returns how many symbols failed during a run.
	CountFailures(runID string) (int, error)
	Close() error
}
