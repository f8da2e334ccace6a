package model

import "time"

// Recommendation is the final verdict for a symbol.
type Recommendation string

const (
	RecommendBuy   Recommendation = "BUY"
	RecommendAvoid Recommendation = "AVOID"
)

// Contraction is one pullback leg of a base, from a local high to the next
// local low. Indices point into the analysed series.
type Contraction struct {
	StartIndex   int
	EndIndex     int
	High         float64
	Low          float64
	RangePercent float64 // (High-Low)/High*100
	AvgVolume    float64
}

// VCPResult is the outcome of the volatility contraction scan.
type VCPResult struct {
	Score int
	Legs  []Contraction // every leg found in the window, oldest first
	Base  []Contraction // trailing tightening run; empty when no base
	Tight bool
}

// HasBase reports whether a recognizable base was found.
func (v VCPResult) HasBase() bool { return len(v.Base) >= 2 }

// LastLeg returns the most recent leg of the base.
func (v VCPResult) LastLeg() (Contraction, bool) {
	if !v.HasBase() {
		return Contraction{}, false
	}
	return v.Base[len(v.Base)-1], true
}

// EntrySignal describes the breakout check on the latest bar.
type EntrySignal struct {
	Triggered   bool    `json:"triggered"`
	Pivot       float64 `json:"pivot"`
	VolumeRatio float64 `json:"volume_ratio"`
}

// Position is the suggested size for a trade risking a fixed share of the account.
type Position struct {
	Shares     int64   `json:"shares"`
	Capital    float64 `json:"capital"`
	DollarRisk float64 `json:"dollar_risk"`
}

// Risk holds the stop and the distance to it.
type Risk struct {
	StopLoss    float64
	RiskPercent float64
	Position    *Position
}

// AnalysisResult is the engine's output for one symbol and one series snapshot.
type AnalysisResult struct {
	Symbol         string         `json:"symbol"`
	AsOf           time.Time      `json:"as_of"`
	CurrentPrice   float64        `json:"current_price"`
	Phase1Score    int            `json:"phase1_score"`
	Phase1Failures []string       `json:"phase1_failures"`
	Phase2Score    int            `json:"phase2_score"`
	Entry          EntrySignal    `json:"entry_signal"`
	Recommendation Recommendation `json:"recommendation"`
	StopLoss       float64        `json:"stop_loss"`
	RiskPercent    float64        `json:"risk_percent"`
	Position       *Position      `json:"position,omitempty"`
}

// Report bundles the result with the intermediate series a chart needs.
type Report struct {
	Result     AnalysisResult
	Indicators *IndicatorSet
	VCP        VCPResult
}
