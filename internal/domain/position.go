package domain

import "time"

// Position represents the single open position tracked by the backtest loop.
// It is created on entry, mutated in place while open, and converted into a
// Trade when closed. At most one instance exists at any simulated instant.
type Position struct {
	Side       Side          // Direction of the position
	EntryPrice float64       // Price at which the position was entered
	EntryTime  time.Time     // Timestamp of the entry candle
	State      PositionState // open or open_tp_zone
	PeakPrice  float64       // Highest price seen since entering the TP zone (0 while not in the zone)
}

// InTPZone reports whether the position is trailing inside the take-profit zone.
func (p *Position) InTPZone() bool {
	return p.State == StateOpenTPZone
}
