package strategy

import (
	"fmt"
	"math"

	"MinerviniScan/internal/model"

	"github.com/shopspring/decimal"
)

// AssessRisk places the stop at the low of the last base leg, or at the
// lowest low of the last StopLookback bars when there is no base, and
// measures the distance from the latest close. A base stop at or above the
// price is reported as ErrInvalidStopLoss rather than clamped. The fallback
// window includes the latest bar, so its stop never exceeds the price; a
// close at that low is a 0% risk and carries no position.
func AssessRisk(bars []model.Bar, vcp model.VCPResult, p Params) (model.Risk, error) {
	if len(bars) == 0 {
		return model.Risk{}, fmt.Errorf("%w: no bars", model.ErrInsufficientHistory)
	}
	price := bars[len(bars)-1].Close

	var stop float64
	if leg, ok := vcp.LastLeg(); ok {
		stop = leg.Low
		if stop >= price {
			return model.Risk{}, fmt.Errorf("%w: stop %.2f at or above price %.2f", model.ErrInvalidStopLoss, stop, price)
		}
	} else {
		stop = math.Min(lowestLow(bars, p.StopLookback), price)
	}

	risk := model.Risk{
		StopLoss:    stop,
		RiskPercent: (price - stop) / price * 100,
	}
	if p.AccountSize > 0 && stop < price {
		pos := SizePosition(p.AccountSize, p.RiskPerTrade, price, stop)
		risk.Position = &pos
	}
	return risk, nil
}

// SizePosition returns the whole-share position that loses riskPercent of
// the account if the stop is hit, capped by what the account can buy.
func SizePosition(account, riskPercent, entry, stop float64) model.Position {
	entryD := decimal.NewFromFloat(entry)
	perShare := entryD.Sub(decimal.NewFromFloat(stop))
	if !perShare.IsPositive() || !entryD.IsPositive() {
		return model.Position{}
	}
	acct := decimal.NewFromFloat(account)
	budget := acct.Mul(decimal.NewFromFloat(riskPercent)).Div(decimal.NewFromInt(100))

	shares := budget.Div(perShare).Floor()
	if affordable := acct.Div(entryD).Floor(); shares.GreaterThan(affordable) {
		shares = affordable
	}
	return model.Position{
		Shares:     shares.IntPart(),
		Capital:    shares.Mul(entryD).Round(2).InexactFloat64(),
		DollarRisk: shares.Mul(perShare).Round(2).InexactFloat64(),
	}
}

func lowestLow(bars []model.Bar, n int) float64 {
	start := len(bars) - n
	if start < 0 {
		start = 0
	}
	low := bars[start].Low
	for _, b := range bars[start+1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}
