package ports

import (
	"context"
	"time"

	"zoneFlipBot/internal/domain"
)

// KlineRepository defines the interface for the local candle cache.
type KlineRepository interface {
	// SaveKlines upserts a batch of klines into the cache.
	SaveKlines(ctx context.Context, klines []*domain.Kline) error
	// FindRange retrieves cached klines for a symbol/interval between start and
	// end, ordered ascending by open time.
	FindRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error)
	// Count returns the number of cached klines for a symbol/interval.
	Count(ctx context.Context, symbol, interval string) (int, error)
}

// BacktestRun is a persisted record of one simulation run and its headline numbers.
type BacktestRun struct {
	ID             int64
	Symbol         string
	Interval       string
	StartTime      time.Time
	EndTime        time.Time
	Label          string // Free-form description of the parameter set
	TradeCount     int
	NetPnlPct      float64
	WinRatePct     float64
	MaxDrawdownPct float64
	SharpeRatio    float64
	CreatedAt      time.Time
}

// BacktestRepository defines the interface for persisting completed runs and
// their trade logs.
type BacktestRepository interface {
	// CreateRun saves a run record and returns its assigned ID.
	CreateRun(ctx context.Context, run *BacktestRun) (int64, error)
	// CreateTrades saves the trade log of a run.
	CreateTrades(ctx context.Context, runID int64, trades []*domain.Trade) error
	// FindRuns retrieves the most recent runs, up to a limit.
	FindRuns(ctx context.Context, limit int) ([]*BacktestRun, error)
	// FindTradesByRun retrieves the trade log of a run, ordered by entry time.
	FindTradesByRun(ctx context.Context, runID int64) ([]*domain.Trade, error)
}
