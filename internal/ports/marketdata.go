package ports

import (
	"context"
	"time"

	"zoneFlipBot/internal/domain"
)

// MarketDataClient defines the interface for fetching historical candle data
// from an exchange. The simulation core never talks to an exchange itself;
// failures here must surface as fatal, user-visible errors and are never
// substituted with synthetic data.
type MarketDataClient interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the current server time from the exchange.
	GetServerTime(ctx context.Context) (time.Time, error)

	// GetKlines retrieves the most recent klines for the given symbol and interval.
	GetKlines(ctx context.Context, symbol string, interval string, limit int) ([]*domain.Kline, error)

	// GetKlinesRange fetches all klines between start and end, paginating as needed.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Kline, error)
}
