package domain

import "time"

// CostBreakdown itemises the round-trip transaction costs of a trade, each
// component expressed as a percentage of notional before leverage scaling.
type CostBreakdown struct {
	FeePct      float64 // Round-trip taker fee
	SlippagePct float64 // Round-trip slippage
	FundingPct  float64 // Periodic funding, signed (+ paid by longs, - received by shorts)
	TotalPct    float64 // Sum of the above
}

// Trade represents a completed round-trip trade. Immutable once recorded.
type Trade struct {
	ID            int64         // Unique identifier (assigned by the repository, 0 otherwise)
	RunID         int64         // Backtest run this trade belongs to (0 outside persistence)
	Symbol        string        // Trading symbol (e.g., "BTCUSDT")
	Side          Side          // Direction of the trade
	EntryPrice    float64       // Price at which the position was entered
	ExitPrice     float64       // Price at which the position was exited
	EntryTime     time.Time     // Timestamp when the position was entered
	ExitTime      time.Time     // Timestamp when the position was exited
	DurationHours float64       // Holding time in fractional hours
	Leverage      float64       // Leverage applied to the position
	GrossPnlPct   float64       // Leveraged price move in the trade's favour, percent
	NetPnlPct     float64       // GrossPnlPct minus leveraged transaction costs, percent
	Costs         CostBreakdown // Itemised unleveraged cost percentages
	CloseReason   CloseReason   // Why the position was closed
}
