package backtesting

import (
	"testing"
	"time"

	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/strategy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// candle builds a test kline at a UTC timestamp. Session-local time is five
// hours earlier: 2025-01-06 is a Monday, so 13:00 UTC is 08:00 Monday local.
func candle(ts time.Time, open, high, low, close float64) *domain.Kline {
	return &domain.Kline{
		OpenTime:  ts,
		CloseTime: ts.Add(5 * time.Minute),
		Symbol:    "BTCUSDT",
		Interval:  "5m",
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		IsFinal:   true,
	}
}

func flatCandle(ts time.Time, price float64) *domain.Kline {
	return candle(ts, price, price, price, price)
}

func newTestMachine() *positionMachine {
	return newPositionMachine("BTCUSDT", strategy.DefaultZoneConfig(), strategy.DefaultCostConfig())
}

func TestMachineOpensOnFirstCandle(t *testing.T) {
	m := newTestMachine()
	assert.Equal(t, domain.StateFlat, m.state())

	ts := time.Date(2025, 1, 6, 13, 0, 0, 0, time.UTC) // 08:00 Monday local, long zone
	trade := m.step(flatCandle(ts, 100000))

	assert.Nil(t, trade)
	assert.Equal(t, domain.StateOpen, m.state())
	assert.Equal(t, domain.SideLong, m.pos.Side)
	assert.Equal(t, 100000.0, m.pos.EntryPrice)
}

func TestMachineZoneFlip(t *testing.T) {
	m := newTestMachine()

	// Long opens before the short zone, then the zone flips before the profit
	// target is reached.
	m.step(flatCandle(time.Date(2025, 1, 6, 13, 0, 0, 0, time.UTC), 100000)) // 08:00 local
	trade := m.step(flatCandle(time.Date(2025, 1, 6, 15, 0, 0, 0, time.UTC), 99500)) // 10:00 local, short zone

	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonZoneFlip, trade.CloseReason)
	assert.Equal(t, domain.SideLong, trade.Side)
	assert.Equal(t, 99500.0, trade.ExitPrice)

	// Immediately re-entered in the new direction at the same close price.
	assert.Equal(t, domain.StateOpen, m.state())
	assert.Equal(t, domain.SideShort, m.pos.Side)
	assert.Equal(t, 99500.0, m.pos.EntryPrice)
}

func TestMachineShortProfitTarget(t *testing.T) {
	m := newTestMachine()

	start := time.Date(2025, 1, 6, 15, 0, 0, 0, time.UTC) // 10:00 Monday local, short zone
	m.step(flatCandle(start, 100000))

	// Touches -1.1% intrabar; the close is at the theoretical target price,
	// not the touched low.
	trade := m.step(candle(start.Add(5*time.Minute), 100000, 100000, 98900, 99000))

	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonProfitTarget, trade.CloseReason)
	assert.Equal(t, domain.SideShort, trade.Side)
	assert.InDelta(t, 99000.0, trade.ExitPrice, 1e-9) // 100000 * (1 - 1/100)
	assert.Equal(t, domain.StateFlat, m.state())
}

func TestMachineLongEntersTPZone(t *testing.T) {
	m := newTestMachine()

	start := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC) // 00:00 Monday local, >6h to short zone
	m.step(flatCandle(start, 100000))

	// +1% reached with plenty of session time left: no close, trailing starts.
	trade := m.step(candle(start.Add(5*time.Minute), 100000, 101000, 100000, 100800))

	assert.Nil(t, trade)
	assert.Equal(t, domain.StateOpenTPZone, m.state())
	assert.Equal(t, 101000.0, m.pos.PeakPrice)
}

func TestMachineTPZoneTrailingStop(t *testing.T) {
	m := newTestMachine()

	start := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC)
	m.step(flatCandle(start, 100000))
	m.step(candle(start.Add(5*time.Minute), 100000, 101000, 100000, 100800))
	require.Equal(t, domain.StateOpenTPZone, m.state())

	// 0.5% retracement from the 101000 peak fills at peak * 0.995.
	trade := m.step(candle(start.Add(10*time.Minute), 100800, 100900, 100495, 100600))

	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonTrailingStop, trade.CloseReason)
	assert.InDelta(t, 101000*0.995, trade.ExitPrice, 1e-9)
	assert.Equal(t, domain.StateFlat, m.state())
}

func TestMachineTPZoneBelowEntry(t *testing.T) {
	m := newTestMachine()

	start := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC)
	m.step(flatCandle(start, 100000))
	m.step(candle(start.Add(5*time.Minute), 100000, 101000, 100000, 100800))
	require.Equal(t, domain.StateOpenTPZone, m.state())

	// The worst-case low dips under entry; checked before the trailing stop
	// even though the retracement rule would also fire.
	trade := m.step(candle(start.Add(10*time.Minute), 100800, 100900, 99900, 100000))

	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonTPBelowEntry, trade.CloseReason)
	assert.InDelta(t, 100000*0.999, trade.ExitPrice, 1e-9)
}

func TestMachineTPZoneTimeExit(t *testing.T) {
	m := newTestMachine()

	start := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC) // 00:00 Monday local
	m.step(flatCandle(start, 100000))
	m.step(candle(start.Add(5*time.Minute), 100000, 101000, 100000, 100800))
	require.Equal(t, domain.StateOpenTPZone, m.state())

	// 03:30 local: under 6 hours to the 09:29 short zone, price still inside
	// the trailing band. Exits at the candle close.
	ts := time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)
	trade := m.step(candle(ts, 100800, 100900, 100600, 100700))

	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonTimeExit, trade.CloseReason)
	assert.Equal(t, 100700.0, trade.ExitPrice)
}

func TestMachineLongProfitTargetNearShortZone(t *testing.T) {
	m := newTestMachine()

	// 03:30 local: the target is reached but under 6 hours remain, so the
	// long closes at the theoretical target instead of trailing.
	start := time.Date(2025, 1, 6, 8, 30, 0, 0, time.UTC)
	m.step(flatCandle(start, 100000))
	trade := m.step(candle(start.Add(5*time.Minute), 100000, 101100, 100200, 101000))

	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonProfitTarget, trade.CloseReason)
	assert.InDelta(t, 101000.0, trade.ExitPrice, 1e-9) // 100000 * (1 + 1/100)
	assert.Equal(t, domain.StateFlat, m.state())
}

func TestMachineFinish(t *testing.T) {
	m := newTestMachine()

	ts := time.Date(2025, 1, 6, 13, 0, 0, 0, time.UTC)
	last := flatCandle(ts, 100000)
	m.step(last)

	trade := m.finish(last)
	require.NotNil(t, trade)
	assert.Equal(t, domain.CloseReasonBacktestEnd, trade.CloseReason)
	assert.Equal(t, 100000.0, trade.ExitPrice)
	assert.Equal(t, domain.StateFlat, m.state())

	// Flat machine has nothing to close.
	assert.Nil(t, m.finish(last))
}
