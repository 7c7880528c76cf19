package risk

import (
	"math"

	"zoneFlipBot/internal/strategy/analytics"
)

// KellySizing holds the sizing suggestion derived from aggregate statistics.
// It is a post-processing step over a finished run, never part of the
// simulation itself.
type KellySizing struct {
	WinProbability float64 // Win rate as a fraction, 0-1
	WinLossRatio   float64 // Average win over absolute average loss
	Fraction       float64 // Raw Kelly fraction, clamped to [0, 1]
	HalfFraction   float64 // Half-Kelly, the usual practical choice
}

// KellyFraction computes the Kelly criterion fraction f = W - (1-W)/R from a
// win probability W (0-1) and win/loss ratio R. Returns 0 when the ratio is
// undefined or the edge is negative.
func KellyFraction(winProbability, winLossRatio float64) float64 {
	if winLossRatio <= 0 {
		return 0
	}
	f := winProbability - (1-winProbability)/winLossRatio
	if f < 0 {
		return 0
	}
	return math.Min(f, 1)
}

// SuggestedLeverage scales a maximum acceptable leverage by the half-Kelly
// fraction. Returns 0 when the edge is zero; capped at maxLeverage.
func (s KellySizing) SuggestedLeverage(maxLeverage float64) float64 {
	if maxLeverage <= 0 {
		return 0
	}
	return math.Min(s.HalfFraction*maxLeverage, maxLeverage)
}

// SizingFromMetrics derives a Kelly sizing suggestion from aggregated
// performance metrics. Runs with no losers (or no winners) have an undefined
// win/loss ratio and yield a zero fraction.
func SizingFromMetrics(metrics *analytics.PerformanceMetrics) KellySizing {
	sizing := KellySizing{
		WinProbability: metrics.WinRate / 100.0,
	}
	if metrics.AvgLossPct < 0 {
		sizing.WinLossRatio = metrics.AvgWinPct / -metrics.AvgLossPct
	}
	sizing.Fraction = KellyFraction(sizing.WinProbability, sizing.WinLossRatio)
	sizing.HalfFraction = sizing.Fraction / 2
	return sizing
}
