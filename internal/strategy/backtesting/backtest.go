package backtesting

import (
	"math"

	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/strategy"
)

// initialEquity is the normalized starting equity in notional units.
const initialEquity = 100.0

// BacktestConfig holds configuration for one backtest run.
type BacktestConfig struct {
	Symbol string
	Zone   strategy.ZoneConfig
	Costs  strategy.CostConfig
}

// BacktestResult holds the results of a backtest.
type BacktestResult struct {
	Trades         []*domain.Trade
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64 // Percent of trades with positive net PnL, 0-100
	GrossPnlPct    float64 // Sum of leveraged gross trade PnLs
	NetPnlPct      float64 // FinalEquity - initial equity
	FinalEquity    float64
	MaxDrawdownPct float64
	SharpeRatio    float64

	// Running cost totals, scaled by leverage to reflect equity impact.
	FeeCostPct      float64
	SlippageCostPct float64
	FundingCostPct  float64
}

// Backtest simulates the zone-flip strategy over an ordered candle sequence.
// It is a pure function of its inputs: the same candles and configuration
// always produce bit-identical results. An empty sequence yields an empty
// trade log and zero aggregates.
func Backtest(klines []*domain.Kline, cfg BacktestConfig) *BacktestResult {
	result := &BacktestResult{
		Trades:      make([]*domain.Trade, 0),
		FinalEquity: initialEquity,
	}
	if len(klines) == 0 {
		return result
	}

	machine := newPositionMachine(cfg.Symbol, cfg.Zone, cfg.Costs)
	equity := initialEquity
	peakEquity := initialEquity

	record := func(trade *domain.Trade) {
		if trade == nil {
			return
		}
		result.Trades = append(result.Trades, trade)
		result.GrossPnlPct += trade.GrossPnlPct

		result.FeeCostPct += trade.Costs.FeePct * trade.Leverage
		result.SlippageCostPct += trade.Costs.SlippagePct * trade.Leverage
		result.FundingCostPct += trade.Costs.FundingPct * trade.Leverage

		equity += trade.NetPnlPct
		if equity > peakEquity {
			peakEquity = equity
		}
		drawdown := (peakEquity - equity) / peakEquity * 100.0
		if drawdown > result.MaxDrawdownPct {
			result.MaxDrawdownPct = drawdown
		}
	}

	for _, k := range klines {
		record(machine.step(k))
	}
	record(machine.finish(klines[len(klines)-1]))

	result.FinalEquity = equity
	result.NetPnlPct = equity - initialEquity
	result.TotalTrades = len(result.Trades)

	returns := make([]float64, 0, len(result.Trades))
	for _, trade := range result.Trades {
		if trade.NetPnlPct > 0 {
			result.WinningTrades++
		} else {
			result.LosingTrades++
		}
		returns = append(returns, trade.NetPnlPct)
	}
	if result.TotalTrades > 0 {
		result.WinRate = 100.0 * float64(result.WinningTrades) / float64(result.TotalTrades)
	}
	result.SharpeRatio = sharpeRatio(returns)

	return result
}

// annualizationFactor is the heuristic multiplier borrowed from daily-return
// conventions, applied here to trade-level returns.
var annualizationFactor = math.Sqrt(252)

// sharpeRatio computes mean over sample standard deviation (N-1 divisor) of
// the per-trade net returns, annualized. Returns 0 for fewer than 2 samples
// or zero deviation.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0
	}
	return mean / stdDev * annualizationFactor
}
