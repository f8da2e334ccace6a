package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd implements 'scanner history SYMBOL'
var historyCmd = &cobra.Command{
	Use:     "history SYMBOL",
	Short:   "Show stored analyses of a symbol, newest first",
	Example: `  scanner history NVDA --limit 5`,
	Args:    cobra.ExactArgs(1),
	RunE:    runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "number of results to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	rec := newRecorder(cfg)
	defer rec.Close()

	symbol := strings.ToUpper(args[0])
	rows, err := rec.RecentResults(symbol, historyLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "no stored analyses for %s\n", symbol)
		return nil
	}

	// symbols that failed in the same run, looked up once per run
	failed := make(map[string]int)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AS OF\tPRICE\tP1\tP2\tENTRY\tVERDICT\tSTOP\tRISK\tRUN\tRUN FAILED")
	for _, r := range rows {
		entry := "-"
		if r.Triggered {
			entry = fmt.Sprintf("%.1fx", r.VolumeRatio)
		}
		n, ok := failed[r.RunID]
		if !ok {
			if n, err = rec.CountFailures(r.RunID); err != nil {
				return fmt.Errorf("count failures for run %s: %w", r.RunID, err)
			}
			failed[r.RunID] = n
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t%d\t%s\t%s\t%.2f\t%.1f%%\t%.8s\t%d\n",
			r.AsOf.Format("2006-01-02"), r.CurrentPrice, r.Phase1Score, r.Phase2Score,
			entry, r.Recommendation, r.StopLoss, r.RiskPercent, r.RunID, n)
	}
	return tw.Flush()
}
