package strategy

import (
	"math"

	"zoneFlipBot/internal/domain"
)

// CostConfig holds the transaction-cost parameters for one run, all in basis
// points. Immutable per run.
type CostConfig struct {
	TakerFeeBps          float64 // Per-leg taker fee
	MakerRebateBps       float64 // Maker rebate; configured but unused, execution is taker on both legs
	SlippageBps          float64 // Per-leg slippage
	AvgFundingRateBps    float64 // Average funding rate per interval
	FundingIntervalHours float64 // Funding settlement interval
}

// DefaultCostConfig returns the documented cost defaults: 5 bps taker fee,
// 5 bps slippage, 1 bp funding per 8-hour interval.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		TakerFeeBps:          5.0,
		MakerRebateBps:       2.0,
		SlippageBps:          5.0,
		AvgFundingRateBps:    1.0,
		FundingIntervalHours: 8.0,
	}
}

// TradingCosts computes the round-trip cost of a trade as a percentage of
// notional, before leverage scaling. Both legs are assumed to execute as
// taker market orders. Funding accrues once per completed interval and is
// paid by longs and received by shorts.
func TradingCosts(durationHours float64, side domain.Side, cfg CostConfig) domain.CostBreakdown {
	fees := 2 * cfg.TakerFeeBps / 100.0
	slippage := 2 * cfg.SlippageBps / 100.0

	var fundingPeriods float64
	if cfg.FundingIntervalHours > 0 {
		fundingPeriods = math.Floor(durationHours / cfg.FundingIntervalHours)
	}
	funding := fundingPeriods * cfg.AvgFundingRateBps / 100.0
	if side == domain.SideShort {
		funding = -funding
	}

	return domain.CostBreakdown{
		FeePct:      fees,
		SlippagePct: slippage,
		FundingPct:  funding,
		TotalPct:    fees + slippage + funding,
	}
}

// ProfitPct returns the signed percentage price move in the trade's favour:
// positive when the position gained, negative when it lost.
func ProfitPct(entry, exit float64, side domain.Side) float64 {
	if entry == 0 {
		return 0
	}
	if side == domain.SideShort {
		return (entry - exit) / entry * 100.0
	}
	return (exit - entry) / entry * 100.0
}

// NetPnlPct converts an unleveraged price move and cost breakdown into the
// leveraged gross and net PnL percentages.
func NetPnlPct(pricePct, leverage float64, costs domain.CostBreakdown) (grossPct, netPct float64) {
	grossPct = pricePct * leverage
	netPct = grossPct - costs.TotalPct*leverage
	return grossPct, netPct
}
