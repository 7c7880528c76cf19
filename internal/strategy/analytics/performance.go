package analytics

import (
	"math"

	"zoneFlipBot/internal/domain"
)

// initialEquity mirrors the backtest loop's normalized starting equity.
const initialEquity = 100.0

// SideStats holds the per-direction breakdown of a trade log.
type SideStats struct {
	Trades           int
	WinningTrades    int
	LosingTrades     int
	WinRate          float64 // 0-100, 0 for an empty subset
	NetPnlPct        float64
	AvgWinPct        float64
	AvgLossPct       float64
	AvgDurationHours float64
}

// ReasonStats groups trade count and summed net PnL by close reason.
type ReasonStats struct {
	Reason    domain.CloseReason
	Count     int
	NetPnlPct float64
}

// PerformanceMetrics holds the aggregate risk/return profile of a trade log.
type PerformanceMetrics struct {
	TotalTrades      int
	WinningTrades    int
	LosingTrades     int
	WinRate          float64 // 0-100
	GrossPnlPct      float64
	NetPnlPct        float64
	FinalEquity      float64
	AvgWinPct        float64
	AvgLossPct       float64
	AvgDurationHours float64
	MaxDrawdownPct   float64
	SharpeRatio      float64

	Long  SideStats
	Short SideStats

	// ByReason preserves first-seen insertion order for stable reporting.
	ByReason []ReasonStats
}

// AnalyzePerformance reduces an ordered trade log into aggregate statistics.
// Every ratio is guarded: an empty log yields zero-valued metrics, never a
// division-by-zero fault.
func AnalyzePerformance(trades []*domain.Trade) *PerformanceMetrics {
	metrics := &PerformanceMetrics{
		FinalEquity: initialEquity,
		ByReason:    make([]ReasonStats, 0),
	}

	equity := initialEquity
	peakEquity := initialEquity
	reasonIndex := make(map[domain.CloseReason]int)

	var sumWin, sumLoss, sumDuration float64
	for _, trade := range trades {
		metrics.TotalTrades++
		metrics.GrossPnlPct += trade.GrossPnlPct
		sumDuration += trade.DurationHours

		if trade.NetPnlPct > 0 {
			metrics.WinningTrades++
			sumWin += trade.NetPnlPct
		} else {
			metrics.LosingTrades++
			sumLoss += trade.NetPnlPct
		}

		equity += trade.NetPnlPct
		if equity > peakEquity {
			peakEquity = equity
		}
		drawdown := (peakEquity - equity) / peakEquity * 100.0
		if drawdown > metrics.MaxDrawdownPct {
			metrics.MaxDrawdownPct = drawdown
		}

		idx, seen := reasonIndex[trade.CloseReason]
		if !seen {
			idx = len(metrics.ByReason)
			reasonIndex[trade.CloseReason] = idx
			metrics.ByReason = append(metrics.ByReason, ReasonStats{Reason: trade.CloseReason})
		}
		metrics.ByReason[idx].Count++
		metrics.ByReason[idx].NetPnlPct += trade.NetPnlPct
	}

	metrics.FinalEquity = equity
	metrics.NetPnlPct = equity - initialEquity

	if metrics.TotalTrades > 0 {
		metrics.WinRate = 100.0 * float64(metrics.WinningTrades) / float64(metrics.TotalTrades)
		metrics.AvgDurationHours = sumDuration / float64(metrics.TotalTrades)
	}
	if metrics.WinningTrades > 0 {
		metrics.AvgWinPct = sumWin / float64(metrics.WinningTrades)
	}
	if metrics.LosingTrades > 0 {
		metrics.AvgLossPct = sumLoss / float64(metrics.LosingTrades)
	}

	metrics.SharpeRatio = sharpeRatio(trades)
	metrics.Long = sideStats(trades, domain.SideLong)
	metrics.Short = sideStats(trades, domain.SideShort)

	return metrics
}

// sideStats mirrors the top-level statistics restricted to one direction.
func sideStats(trades []*domain.Trade, side domain.Side) SideStats {
	var stats SideStats
	var sumWin, sumLoss, sumDuration float64

	for _, trade := range trades {
		if trade.Side != side {
			continue
		}
		stats.Trades++
		stats.NetPnlPct += trade.NetPnlPct
		sumDuration += trade.DurationHours
		if trade.NetPnlPct > 0 {
			stats.WinningTrades++
			sumWin += trade.NetPnlPct
		} else {
			stats.LosingTrades++
			sumLoss += trade.NetPnlPct
		}
	}

	if stats.Trades > 0 {
		stats.WinRate = 100.0 * float64(stats.WinningTrades) / float64(stats.Trades)
		stats.AvgDurationHours = sumDuration / float64(stats.Trades)
	}
	if stats.WinningTrades > 0 {
		stats.AvgWinPct = sumWin / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLossPct = sumLoss / float64(stats.LosingTrades)
	}
	return stats
}

// sharpeRatio treats each trade's net PnL percent as one sample return:
// sample mean over sample standard deviation (N-1 divisor), annualized with
// the sqrt(252) daily-return heuristic. 0 for fewer than 2 trades or zero
// deviation.
func sharpeRatio(trades []*domain.Trade) float64 {
	if len(trades) < 2 {
		return 0
	}

	var sum float64
	for _, trade := range trades {
		sum += trade.NetPnlPct
	}
	mean := sum / float64(len(trades))

	var variance float64
	for _, trade := range trades {
		variance += (trade.NetPnlPct - mean) * (trade.NetPnlPct - mean)
	}
	variance /= float64(len(trades) - 1)
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * math.Sqrt(252)
}
