package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"zoneFlipBot/internal/adapters/logger"
	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: logger.NewStdLogger(logger.LevelError),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testKline(ts time.Time, close float64) *domain.Kline {
	return &domain.Kline{
		OpenTime:  ts,
		CloseTime: ts.Add(5 * time.Minute),
		Symbol:    "BTCUSDT",
		Interval:  "5m",
		Open:      close - 10,
		High:      close + 20,
		Low:       close - 20,
		Close:     close,
		Volume:    12.5,
		IsFinal:   true,
	}
}

func TestRepositoryRequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: filepath.Join(t.TempDir(), "test.db")})
	assert.Error(t, err)
}

func TestSaveAndFindKlines(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC)

	klines := []*domain.Kline{
		testKline(base, 100000),
		testKline(base.Add(5*time.Minute), 100100),
		testKline(base.Add(10*time.Minute), 100050),
	}
	require.NoError(t, repo.SaveKlines(ctx, klines))

	count, err := repo.Count(ctx, "BTCUSDT", "5m")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	found, err := repo.FindRange(ctx, "BTCUSDT", "5m", base, base.Add(10*time.Minute))
	require.NoError(t, err)
	require.Len(t, found, 3)

	for i, k := range found {
		assert.True(t, k.OpenTime.Equal(klines[i].OpenTime), "kline %d open time mismatch", i)
		assert.Equal(t, klines[i].Close, k.Close)
		assert.True(t, k.IsFinal)
	}

	// Range bounds are inclusive.
	partial, err := repo.FindRange(ctx, "BTCUSDT", "5m", base.Add(5*time.Minute), base.Add(5*time.Minute))
	require.NoError(t, err)
	require.Len(t, partial, 1)
	assert.Equal(t, 100100.0, partial[0].Close)
}

func TestSaveKlinesUpsert(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	ts := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveKlines(ctx, []*domain.Kline{testKline(ts, 100000)}))
	require.NoError(t, repo.SaveKlines(ctx, []*domain.Kline{testKline(ts, 100500)}))

	count, err := repo.Count(ctx, "BTCUSDT", "5m")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := repo.FindRange(ctx, "BTCUSDT", "5m", ts, ts)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 100500.0, found[0].Close)
}

func TestSaveKlinesEmpty(t *testing.T) {
	repo := newTestRepository(t)
	assert.NoError(t, repo.SaveKlines(context.Background(), nil))
}

func TestBacktestRunRoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	start := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC)

	run := &ports.BacktestRun{
		Symbol:         "BTCUSDT",
		Interval:       "5m",
		StartTime:      start,
		EndTime:        start.Add(14 * 24 * time.Hour),
		Label:          "default-params",
		TradeCount:     2,
		NetPnlPct:      12.5,
		WinRatePct:     50.0,
		MaxDrawdownPct: 3.2,
		SharpeRatio:    1.8,
	}
	runID, err := repo.CreateRun(ctx, run)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))
	assert.Equal(t, runID, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	trades := []*domain.Trade{
		{
			Symbol:        "BTCUSDT",
			Side:          domain.SideLong,
			EntryPrice:    100000,
			ExitPrice:     101000,
			EntryTime:     start,
			ExitTime:      start.Add(10 * time.Hour),
			DurationHours: 10,
			Leverage:      10,
			GrossPnlPct:   10.0,
			NetPnlPct:     7.9,
			Costs:         domain.CostBreakdown{FeePct: 0.10, SlippagePct: 0.10, FundingPct: 0.01, TotalPct: 0.21},
			CloseReason:   domain.CloseReasonTimeExit,
		},
		{
			Symbol:        "BTCUSDT",
			Side:          domain.SideShort,
			EntryPrice:    101000,
			ExitPrice:     101500,
			EntryTime:     start.Add(11 * time.Hour),
			ExitTime:      start.Add(13 * time.Hour),
			DurationHours: 2,
			Leverage:      10,
			GrossPnlPct:   -4.95,
			NetPnlPct:     -6.95,
			Costs:         domain.CostBreakdown{FeePct: 0.10, SlippagePct: 0.10, FundingPct: 0.0, TotalPct: 0.20},
			CloseReason:   domain.CloseReasonZoneFlip,
		},
	}
	require.NoError(t, repo.CreateTrades(ctx, runID, trades))

	runs, err := repo.FindRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "default-params", runs[0].Label)
	assert.Equal(t, 12.5, runs[0].NetPnlPct)

	found, err := repo.FindTradesByRun(ctx, runID)
	require.NoError(t, err)
	require.Len(t, found, 2)

	assert.Equal(t, domain.SideLong, found[0].Side)
	assert.Equal(t, domain.CloseReasonTimeExit, found[0].CloseReason)
	assert.Equal(t, runID, found[0].RunID)
	assert.Equal(t, 7.9, found[0].NetPnlPct)
	assert.InDelta(t, 0.21, found[0].Costs.TotalPct, 1e-9)

	assert.Equal(t, domain.SideShort, found[1].Side)
	assert.Equal(t, domain.CloseReasonZoneFlip, found[1].CloseReason)
	assert.InDelta(t, 0.20, found[1].Costs.TotalPct, 1e-9)
}

func TestCreateTradesEmpty(t *testing.T) {
	repo := newTestRepository(t)
	assert.NoError(t, repo.CreateTrades(context.Background(), 1, nil))
}

func TestFindTradesUnknownRun(t *testing.T) {
	repo := newTestRepository(t)
	trades, err := repo.FindTradesByRun(context.Background(), 999)
	require.NoError(t, err)
	assert.Empty(t, trades)
}
