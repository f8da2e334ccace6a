package screener

import (
	"fmt"
	"io"
	"strings"
)

// WriteReport writes the plain-text scan summary: BUY candidates with their
// risk, the AVOID list with both phase scores, failures, then per-symbol
// details.
func (s *Summary) WriteReport(w io.Writer) error {
	var b strings.Builder

	b.WriteString("MINERVINI SCAN SUMMARY\n")
	b.WriteString(strings.Repeat("=", 45) + "\n")
	b.WriteString(fmt.Sprintf("Analysis Date: %s\n", s.FinishedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Run: %s\n\n", s.RunID))

	b.WriteString(fmt.Sprintf("BUY CANDIDATES (%d):\n", len(s.Buys)))
	for _, r := range s.Buys {
		b.WriteString(fmt.Sprintf("  %s: $%.2f (Risk: %.1f%%, Stop: $%.2f)\n", r.Symbol, r.CurrentPrice, r.RiskPercent, r.StopLoss))
	}

	b.WriteString(fmt.Sprintf("\nAVOID/HOLD (%d):\n", len(s.Avoids)))
	for _, r := range s.Avoids {
		b.WriteString(fmt.Sprintf("  %s: $%.2f (Phase 1: %d, Phase 2: %d)\n", r.Symbol, r.CurrentPrice, r.Phase1Score, r.Phase2Score))
	}

	if len(s.Failures) > 0 {
		b.WriteString(fmt.Sprintf("\nFAILED (%d):\n", len(s.Failures)))
		for _, o := range s.Failures {
			b.WriteString(fmt.Sprintf("  %s: %v\n", o.Symbol, o.Err))
		}
	}

	b.WriteString("\nDETAILED RESULTS:\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	for _, o := range s.Outcomes {
		r := o.Result
		if r == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n%s:\n", r.Symbol))
		b.WriteString(fmt.Sprintf("  Recommendation: %s\n", r.Recommendation))
		b.WriteString(fmt.Sprintf("  Phase 1 Score: %d\n", r.Phase1Score))
		b.WriteString(fmt.Sprintf("  Phase 2 Score: %d\n", r.Phase2Score))
		b.WriteString(fmt.Sprintf("  Entry Signal: %t\n", r.Entry.Triggered))
		b.WriteString(fmt.Sprintf("  Current Price: $%.2f\n", r.CurrentPrice))
		b.WriteString(fmt.Sprintf("  Stop Loss: $%.2f\n", r.StopLoss))
		b.WriteString(fmt.Sprintf("  Risk %%: %.1f%%\n", r.RiskPercent))
		if r.Position != nil {
			b.WriteString(fmt.Sprintf("  Position: %d shares ($%.2f, $%.2f at risk)\n", r.Position.Shares, r.Position.Capital, r.Position.DollarRisk))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
