package strategy

import (
	"fmt"

	"MinerviniScan/internal/calculator"
	"MinerviniScan/internal/model"
)

// Recommend is the single decision table for the verdict: BUY needs a
// confirmed trend, a recognizable base and a fired entry trigger.
func Recommend(phase1, phase2 int, entry model.EntrySignal, p Params) model.Recommendation {
	if phase1 >= p.MinPhase1Score && phase2 >= 1 && entry.Triggered {
		return model.RecommendBuy
	}
	return model.RecommendAvoid
}

// Analyze runs the full pipeline and returns only the result.
func Analyze(series model.Series, p Params) (*model.AnalysisResult, error) {
	rep, err := Run(series, p)
	if err != nil {
		return nil, err
	}
	res := rep.Result
	return &res, nil
}

// Run validates the series and chains indicators, the trend template, VCP
// detection, the entry trigger, risk and the recommendation. It holds no
// state, so the same series always yields the same report.
func Run(series model.Series, p Params) (*model.Report, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	bars := series.Bars

	ind, err := calculator.Compute(bars, p.VolumeAvgPeriod)
	if err != nil {
		return nil, fmt.Errorf("%s: indicators: %w", series.Symbol, err)
	}
	trend, err := ScoreTrendTemplate(bars, ind, p)
	if err != nil {
		return nil, fmt.Errorf("%s: trend template: %w", series.Symbol, err)
	}
	vcp := DetectVCP(bars, p)
	entry := DetectEntry(bars, ind, vcp, p)
	risk, err := AssessRisk(bars, vcp, p)
	if err != nil {
		return nil, fmt.Errorf("%s: risk: %w", series.Symbol, err)
	}

	last := series.Last()
	return &model.Report{
		Result: model.AnalysisResult{
			Symbol:         series.Symbol,
			AsOf:           last.Time,
			CurrentPrice:   last.Close,
			Phase1Score:    trend.Score,
			Phase1Failures: trend.Failures,
			Phase2Score:    vcp.Score,
			Entry:          entry,
			Recommendation: Recommend(trend.Score, vcp.Score, entry, p),
			StopLoss:       risk.StopLoss,
			RiskPercent:    risk.RiskPercent,
			Position:       risk.Position,
		},
		Indicators: ind,
		VCP:        vcp,
	}, nil
}
