package strategy

import "MinerviniScan/internal/model"

// DetectEntry checks the latest bar for a breakout above the pivot of the
// detected base on a volume surge. The volume baseline is the average up to
// the previous bar so the breakout does not dilute its own surge. Without a
// base the signal never fires, but the volume ratio is still reported.
func DetectEntry(bars []model.Bar, ind *model.IndicatorSet, vcp model.VCPResult, p Params) model.EntrySignal {
	var sig model.EntrySignal
	if len(bars) < 2 || ind == nil {
		return sig
	}
	last := bars[len(bars)-1]
	if avg, ok := ind.AvgVolume.At(len(bars) - 2); ok && avg > 0 {
		sig.VolumeRatio = last.Volume / avg
	}

	leg, ok := vcp.LastLeg()
	if !ok {
		return sig
	}
	sig.Pivot = leg.High
	sig.Triggered = last.Close > leg.High && sig.VolumeRatio >= p.VolumeSurge
	return sig
}
