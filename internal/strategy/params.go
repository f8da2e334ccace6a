package strategy

import "fmt"

// Params holds every tunable threshold of the analysis. Heuristic knobs are
// explicit so a run can be reproduced exactly.
type Params struct {
	// Trend template
	TrendLookback  int     // bars over which SMA200 must be rising
	NearHighBand   float64 // max fractional distance below the 52-week high
	AboveLowBand   float64 // min fractional distance above the 52-week low
	MinPhase1Score int     // trend criteria required for a BUY

	// Volatility contraction
	VCPLookback        int     // bars scanned before the latest bar
	MinLegBars         int     // neighbourhood that confirms a local extreme
	RangeTolerance     float64 // percentage points a leg may exceed the previous one
	MaxContractions    int     // cap on legs counted toward the score
	TightnessThreshold float64 // last-leg range (percent) that earns the bonus point

	// Entry and risk
	VolumeSurge     float64 // breakout volume vs trailing average
	VolumeAvgPeriod int
	StopLookback    int     // fallback stop window when no base exists
	AccountSize     float64 // 0 disables position sizing
	RiskPerTrade    float64 // percent of the account risked per trade
}

// DefaultParams returns the standard thresholds.
func DefaultParams() Params {
	return Params{
		TrendLookback:      20,
		NearHighBand:       0.25,
		AboveLowBand:       0.30,
		MinPhase1Score:     MaxTrendScore - 1,
		VCPLookback:        80,
		MinLegBars:         5,
		RangeTolerance:     0.5,
		MaxContractions:    4,
		TightnessThreshold: 10,
		VolumeSurge:        1.5,
		VolumeAvgPeriod:    50,
		StopLookback:       20,
		RiskPerTrade:       1,
	}
}

// Validate checks that the parameters describe a usable analysis.
func (p Params) Validate() error {
	switch {
	case p.TrendLookback <= 0:
		return fmt.Errorf("trend_lookback must be positive")
	case p.NearHighBand < 0 || p.NearHighBand >= 1:
		return fmt.Errorf("near_high_band must be in [0,1)")
	case p.AboveLowBand < 0:
		return fmt.Errorf("above_low_band must not be negative")
	case p.MinPhase1Score < 0 || p.MinPhase1Score > MaxTrendScore:
		return fmt.Errorf("min_phase1_score must be in [0,%d]", MaxTrendScore)
	case p.VCPLookback <= 0:
		return fmt.Errorf("vcp_lookback must be positive")
	case p.MinLegBars <= 0:
		return fmt.Errorf("min_leg_bars must be positive")
	case p.RangeTolerance < 0:
		return fmt.Errorf("range_tolerance must not be negative")
	case p.MaxContractions < 2:
		return fmt.Errorf("max_contractions must be at least 2")
	case p.VolumeSurge <= 0:
		return fmt.Errorf("volume_surge must be positive")
	case p.VolumeAvgPeriod <= 0:
		return fmt.Errorf("volume_avg_period must be positive")
	case p.StopLookback <= 0:
		return fmt.Errorf("stop_lookback must be positive")
	case p.AccountSize < 0:
		return fmt.Errorf("account_size must not be negative")
	case p.RiskPerTrade <= 0 || p.RiskPerTrade > 100:
		return fmt.Errorf("risk_per_trade must be in (0,100]")
	}
	return nil
}
