package strategy

import "MinerviniScan/internal/model"

type pivotKind int

const (
	pivotHigh pivotKind = iota
	pivotLow
)

type pivot struct {
	idx   int
	price float64
	kind  pivotKind
}

// DetectVCP scans the bars before the latest one for a volatility
// contraction pattern: successive pullback legs that tighten in range while
// volume dries up. A missing base is a valid outcome with score 0.
func DetectVCP(bars []model.Bar, p Params) model.VCPResult {
	end := len(bars) - 2 // latest bar is the breakout candidate
	if end < 1 {
		return model.VCPResult{}
	}
	start := end - p.VCPLookback + 1
	if start < 0 {
		start = 0
	}

	legs := buildLegs(bars, zigzag(findPivots(bars, start, end, p.MinLegBars)))
	res := model.VCPResult{Legs: legs}

	run := tighteningRun(legs, p.RangeTolerance)
	if run < 2 {
		return res
	}
	res.Base = append([]model.Contraction(nil), legs[len(legs)-run:]...)
	res.Score = run
	if res.Score > p.MaxContractions {
		res.Score = p.MaxContractions
	}
	if res.Base[len(res.Base)-1].RangePercent < p.TightnessThreshold {
		res.Tight = true
		res.Score++
	}
	return res
}

// findPivots marks fractal highs and lows inside [start, end]. A bar is a
// local high when no bar within w before it is higher and every bar within
// w after it is lower. The right neighbourhood must be complete. The left
// one reaches back before start, so a window opening mid-swing does not turn
// its first bar into a pivot.
func findPivots(bars []model.Bar, start, end, w int) []pivot {
	var out []pivot
	for i := start; i+w <= end; i++ {
		hi, lo := true, true
		for j := max(i-w, 0); j < i; j++ {
			if bars[j].High > bars[i].High {
				hi = false
			}
			if bars[j].Low < bars[i].Low {
				lo = false
			}
		}
		for j := i + 1; j <= i+w; j++ {
			if bars[j].High >= bars[i].High {
				hi = false
			}
			if bars[j].Low <= bars[i].Low {
				lo = false
			}
		}
		switch {
		case hi:
			out = append(out, pivot{idx: i, price: bars[i].High, kind: pivotHigh})
		case lo:
			out = append(out, pivot{idx: i, price: bars[i].Low, kind: pivotLow})
		}
	}
	return out
}

// zigzag collapses runs of same-kind pivots to the most extreme one so highs
// and lows alternate.
func zigzag(pivots []pivot) []pivot {
	var out []pivot
	for _, pv := range pivots {
		if len(out) == 0 || out[len(out)-1].kind != pv.kind {
			out = append(out, pv)
			continue
		}
		prev := &out[len(out)-1]
		if (pv.kind == pivotHigh && pv.price > prev.price) || (pv.kind == pivotLow && pv.price < prev.price) {
			*prev = pv
		}
	}
	return out
}

func buildLegs(bars []model.Bar, pivots []pivot) []model.Contraction {
	var legs []model.Contraction
	for k := 0; k+1 < len(pivots); k++ {
		h, l := pivots[k], pivots[k+1]
		if h.kind != pivotHigh || l.kind != pivotLow {
			continue
		}
		var vol float64
		for i := h.idx; i <= l.idx; i++ {
			vol += bars[i].Volume
		}
		legs = append(legs, model.Contraction{
			StartIndex:   h.idx,
			EndIndex:     l.idx,
			High:         h.price,
			Low:          l.price,
			RangePercent: (h.price - l.price) / h.price * 100,
			AvgVolume:    vol / float64(l.idx-h.idx+1),
		})
	}
	return legs
}

// tighteningRun counts the legs, ending with the most recent, in which each
// leg is no wider (within tolerance) and no heavier than the one before.
func tighteningRun(legs []model.Contraction, tolerance float64) int {
	if len(legs) == 0 {
		return 0
	}
	run := 1
	for k := len(legs) - 1; k > 0; k-- {
		prev, cur := legs[k-1], legs[k]
		if cur.RangePercent > prev.RangePercent+tolerance || cur.AvgVolume > prev.AvgVolume {
			break
		}
		run++
	}
	return run
}
