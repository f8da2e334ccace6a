package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MinerviniScan/internal/config"
	"MinerviniScan/internal/model"
	"MinerviniScan/internal/notifier"
	"MinerviniScan/internal/strategy"
)

var (
	analyzeJSON    bool
	analyzeAccount float64
)

// analyzeCmd implements 'scanner analyze SYMBOL...'
var analyzeCmd = &cobra.Command{
	Use:   "analyze SYMBOL...",
	Short: "Analyze one or more symbols and print the checklist",
	Example: `  scanner analyze NVDA
  scanner analyze AAPL MSFT --account 50000
  scanner analyze TSLA --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print results as JSON")
	analyzeCmd.Flags().Float64Var(&analyzeAccount, "account", 0, "account size for position sizing (overrides risk.account_size)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeAccount > 0 {
		cfg.Risk.AccountSize = analyzeAccount
	}
	scr := newScreener(cfg, nil, nil, nil)
	out := cmd.OutOrStdout()

	var results []*model.AnalysisResult
	failed := 0
	for _, symbol := range config.NormalizeSymbols(args) {
		rep, err := scr.Analyze(cmd.Context(), symbol)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ Error analyzing %s: %v\n", symbol, err)
			continue
		}
		if analyzeJSON {
			results = append(results, &rep.Result)
			continue
		}
		printReport(out, rep)
	}

	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d symbols failed", failed, len(args))
	}
	return nil
}

var criteriaOrder = []string{
	strategy.CriterionAboveLongMAs,
	strategy.CriterionSMA200Rising,
	strategy.CriterionMAStacked,
	strategy.CriterionAbove52wLow,
	strategy.CriterionNear52wHigh,
	strategy.CriterionAboveShortEMAs,
}

func printReport(w io.Writer, rep *model.Report) {
	r := rep.Result
	failed := make(map[string]bool, len(r.Phase1Failures))
	for _, f := range r.Phase1Failures {
		failed[f] = true
	}

	fmt.Fprintf(w, "\n%s  %s  $%.2f  %s\n", r.Symbol, r.AsOf.Format("2006-01-02"), r.CurrentPrice, r.Recommendation)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Phase 1: Trend Template (%d/%d)\n", r.Phase1Score, strategy.MaxTrendScore)
	for _, c := range criteriaOrder {
		mark := "✓"
		if failed[c] {
			mark = "✗"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, notifier.CriterionLabel(c))
	}
	if ind := rep.Indicators; ind != nil {
		sma50, _ := ind.SMA50.Last()
		sma150, _ := ind.SMA150.Last()
		sma200, _ := ind.SMA200.Last()
		hi, _ := ind.High252.Last()
		lo, _ := ind.Low252.Last()
		fmt.Fprintf(w, "  SMA50 %.2f  SMA150 %.2f  SMA200 %.2f  52w %.2f-%.2f\n", sma50, sma150, sma200, lo, hi)
	}

	fmt.Fprintf(w, "\nPhase 2: VCP (score %d)\n", r.Phase2Score)
	if len(rep.VCP.Base) == 0 {
		fmt.Fprintln(w, "  no tightening base")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  leg\thigh\tlow\trange\tavg volume")
		for i, c := range rep.VCP.Base {
			fmt.Fprintf(tw, "  %d\t%.2f\t%.2f\t%.1f%%\t%.0f\n", i+1, c.High, c.Low, c.RangePercent, c.AvgVolume)
		}
		tw.Flush()
		if rep.VCP.Tight {
			fmt.Fprintln(w, "  last contraction is tight")
		}
	}

	fmt.Fprintln(w, "\nEntry")
	if r.Entry.Triggered {
		fmt.Fprintf(w, "  🚀 breakout above $%.2f on %.1fx average volume\n", r.Entry.Pivot, r.Entry.VolumeRatio)
	} else {
		fmt.Fprintf(w, "  no trigger (volume %.1fx average)\n", r.Entry.VolumeRatio)
	}

	fmt.Fprintln(w, "\nRisk")
	fmt.Fprintf(w, "  stop $%.2f, %.1f%% below price\n", r.StopLoss, r.RiskPercent)
	if p := r.Position; p != nil {
		fmt.Fprintf(w, "  %d shares, $%.2f capital, $%.2f at risk\n", p.Shares, p.Capital, p.DollarRisk)
	}
}
