package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// explainCmd prints the checklist the analyzer applies.
var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain the buying checklist the scanner applies",
	// needs no config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), explanation)
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}

const explanation = `
MINERVINI'S STOCK BUYING CHECKLIST
==================================

The scanner looks for stocks in strong uptrends that have built a proper
base and are breaking out of it.

PHASE 1: TREND TEMPLATE (score 0-6)
  • Price above the 150 and 200-day moving averages
  • 150-day average above a 200-day average that is rising
  • Moving averages stacked 50 > 150 > 200
  • Price at least 30% above the 52-week low
  • Price within 25% of the 52-week high
  • Price above the 10 and 21-day EMAs

PHASE 2: VOLATILITY CONTRACTION PATTERN
  • A series of pullbacks, each shallower than the last
  • Volume drying up from one pullback to the next
  • A bonus point when the final contraction is tight

ENTRY TRIGGER
  • Close above the pivot, the high where the last contraction began
  • Volume at least 50% above its recent average

RISK MANAGEMENT
  • Stop below the low of the last contraction
  • Risk 1-2% of the account per trade
  • Position size follows from the distance to the stop

A BUY needs at least five trend criteria, a base and a fired trigger.
`
