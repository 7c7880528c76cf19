package domain

// Side represents the direction of a position (long or short).
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// PositionState represents the lifecycle state of the single tracked position.
type PositionState string

const (
	StateFlat       PositionState = "flat"
	StateOpen       PositionState = "open"
	StateOpenTPZone PositionState = "open_tp_zone" // long-side sub-state entered after the profit target is hit
)

// CloseReason indicates why a position was closed.
type CloseReason string

const (
	CloseReasonZoneFlip     CloseReason = "zone-flip"
	CloseReasonProfitTarget CloseReason = "profit-target"
	CloseReasonTPBelowEntry CloseReason = "tp-below-entry"
	CloseReasonTrailingStop CloseReason = "tp-trailing-stop"
	CloseReasonTimeExit     CloseReason = "tp-time-exit"
	CloseReasonBacktestEnd  CloseReason = "backtest-end"
	CloseReasonUnknown      CloseReason = "unknown"
)
