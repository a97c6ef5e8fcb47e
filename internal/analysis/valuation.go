package analysis

import "github.com/quantatsu/equiscope/internal/models"

// ScoreValuation computes the 0-100 valuation score from typed metrics.
// Each present metric contributes independently; absent metrics contribute
// nothing and are flagged unavailable in the breakdown. The reported total
// is the clamped sum of contributions; the breakdown keeps the raw sum.
func ScoreValuation(m Metrics) (float64, models.ScoreBreakdown) {
	var b models.ScoreBreakdown

	if m.PERatio.Valid {
		b.PE = models.ScoreComponent{Value: scorePE(m.PERatio.Value), Available: true}
	}
	if m.RevenueGrowth.Valid {
		b.Growth = models.ScoreComponent{Value: scoreGrowth(m.RevenueGrowth.Value), Available: true}
	}
	if m.ProfitMargin.Valid {
		b.Margin = models.ScoreComponent{Value: scoreMargin(m.ProfitMargin.Value), Available: true}
	}

	b.Raw = b.PE.Value + b.Growth.Value + b.Margin.Value
	return clamp(b.Raw, 0, 100), b
}

// Lower PE means cheaper valuation.
func scorePE(pe float64) float64 {
	switch {
	case pe < 12:
		return 25
	case pe < 18:
		return 15
	case pe < 25:
		return 5
	case pe < 35:
		return -10
	default:
		return -25
	}
}

// Growth buckets in percent; the 10-20 band is inclusive on both ends.
func scoreGrowth(g float64) float64 {
	switch {
	case g > 20:
		return 20
	case g >= 10:
		return 10
	case g >= 5:
		return 5
	case g < 0:
		return -20
	default:
		return 0
	}
}

// Margin buckets in percent; the 15-25 band is inclusive on both ends.
func scoreMargin(pm float64) float64 {
	switch {
	case pm > 25:
		return 15
	case pm >= 15:
		return 8
	case pm >= 8:
		return 3
	case pm < 5:
		return -15
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
