package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"MinerviniScan/internal/model"
	"MinerviniScan/internal/screener"
	"MinerviniScan/internal/strategy"
	"MinerviniScan/internal/watchlist"
)

var criterionLabels = map[string]string{
	strategy.CriterionAboveLongMAs:   "Price above SMA150 and SMA200",
	strategy.CriterionSMA200Rising:   "SMA150 above a rising SMA200",
	strategy.CriterionMAStacked:      "SMA50 > SMA150 > SMA200",
	strategy.CriterionAbove52wLow:    "Well above 52-week low",
	strategy.CriterionNear52wHigh:    "Near 52-week high",
	strategy.CriterionAboveShortEMAs: "Above EMA10 and EMA21",
}

// CriterionLabel returns a readable name for a trend template criterion.
func CriterionLabel(name string) string {
	if l, ok := criterionLabels[name]; ok {
		return l
	}
	return name
}

func verdictIcon(r model.Recommendation) string {
	if r == model.RecommendBuy {
		return "🟢"
	}
	return "🔴"
}

// FormatResult formats one analysis into a Telegram message.
func FormatResult(res *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s <b>%s</b> %s | %s\n\n", verdictIcon(res.Recommendation),
		html.EscapeString(res.Symbol), res.Recommendation, res.AsOf.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Price: $%.2f\n", res.CurrentPrice))

	b.WriteString(fmt.Sprintf("\n📈 <b>Trend template:</b> %d/%d\n", res.Phase1Score, strategy.MaxTrendScore))
	for _, f := range res.Phase1Failures {
		b.WriteString(fmt.Sprintf("  ✗ %s\n", CriterionLabel(f)))
	}

	b.WriteString(fmt.Sprintf("\n📉 <b>VCP score:</b> %d\n", res.Phase2Score))
	if res.Entry.Triggered {
		b.WriteString(fmt.Sprintf("🚀 Breakout above $%.2f on %.1fx volume\n", res.Entry.Pivot, res.Entry.VolumeRatio))
	} else if res.Entry.Pivot > 0 {
		b.WriteString(fmt.Sprintf("Pivot $%.2f, volume %.1fx average\n", res.Entry.Pivot, res.Entry.VolumeRatio))
	}

	b.WriteString(fmt.Sprintf("\n💰 Stop: $%.2f (risk %.1f%%)\n", res.StopLoss, res.RiskPercent))
	if p := res.Position; p != nil && p.Shares > 0 {
		b.WriteString(fmt.Sprintf("   Size: %d shares, $%.0f capital, $%.0f at risk\n", p.Shares, p.Capital, p.DollarRisk))
	}
	return b.String()
}

// FormatBuyAlert formats the message sent when a symbol newly turns BUY.
func FormatBuyAlert(res *model.AnalysisResult) string {
	return "🔔 <b>New BUY signal</b>\n\n" + FormatResult(res)
}

// FormatScanSummary formats a scan summary report.
func FormatScanSummary(sum *screener.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Scan summary</b> | %s\n", sum.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d symbols in %s\n", len(sum.Outcomes), sum.FinishedAt.Sub(sum.StartedAt).Round(time.Second)))

	b.WriteString(fmt.Sprintf("\n🟢 <b>BUY candidates (%d)</b>\n", len(sum.Buys)))
	for _, r := range sum.Buys {
		b.WriteString(fmt.Sprintf("  • %s: $%.2f (Risk: %.1f%%, Stop: $%.2f)\n", html.EscapeString(r.Symbol), r.CurrentPrice, r.RiskPercent, r.StopLoss))
	}

	b.WriteString(fmt.Sprintf("\n🔴 <b>AVOID/HOLD (%d)</b>\n", len(sum.Avoids)))
	for _, r := range sum.Avoids {
		b.WriteString(fmt.Sprintf("  • %s: $%.2f (Phase 1: %d, Phase 2: %d)\n", html.EscapeString(r.Symbol), r.CurrentPrice, r.Phase1Score, r.Phase2Score))
	}

	if len(sum.Failures) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ <b>Failed (%d)</b>\n", len(sum.Failures)))
		for _, o := range sum.Failures {
			b.WriteString(fmt.Sprintf("  • %s: %s\n", html.EscapeString(o.Symbol), failureText(o.Err)))
		}
	}
	return b.String()
}

func failureText(err error) string {
	switch model.FailureKind(err) {
	case "insufficient_history":
		return "not enough history"
	case "malformed_series":
		return "bad price data"
	case "invalid_stop_loss":
		return "no valid stop"
	default:
		return html.EscapeString(err.Error())
	}
}

// FormatWatchlist formats the stored verdict of every watched symbol.
func FormatWatchlist(entries []watchlist.Entry, lastScan time.Time) string {
	var b strings.Builder
	b.WriteString("📋 <b>Watchlist</b>\n")
	if lastScan.IsZero() {
		b.WriteString("No scan yet\n")
	} else {
		b.WriteString(fmt.Sprintf("Last scan: %s\n", lastScan.Format("2006-01-02 15:04")))
	}
	b.WriteString("\n")
	for _, e := range entries {
		switch {
		case e.Recommendation == "":
			b.WriteString(fmt.Sprintf("⚪ %s: %s\n", html.EscapeString(e.Symbol), html.EscapeString(e.LastError)))
		case e.Recommendation == model.RecommendBuy:
			b.WriteString(fmt.Sprintf("🟢 %s: $%.2f, stop $%.2f, BUY since %s\n", html.EscapeString(e.Symbol), e.Price, e.StopLoss, e.BuySince.Format("01-02")))
		default:
			b.WriteString(fmt.Sprintf("🔴 %s: $%.2f (%d/%d)\n", html.EscapeString(e.Symbol), e.Price, e.Phase1Score, e.Phase2Score))
		}
	}
	return b.String()
}
