package backtesting

import (
	"time"

	"zoneFlipBot/internal/domain"
	"zoneFlipBot/internal/strategy"
)

// positionMachine drives the lifecycle of the single tracked position across
// candles. It owns no equity accounting; it only opens positions and converts
// them into trades. Transitions per candle follow a fixed priority: zone flip,
// TP-zone exits, profit-target evaluation.
type positionMachine struct {
	zoneCfg strategy.ZoneConfig
	costCfg strategy.CostConfig
	symbol  string
	pos     *domain.Position
}

func newPositionMachine(symbol string, zoneCfg strategy.ZoneConfig, costCfg strategy.CostConfig) *positionMachine {
	return &positionMachine{zoneCfg: zoneCfg, costCfg: costCfg, symbol: symbol}
}

// state returns the current lifecycle state.
func (m *positionMachine) state() domain.PositionState {
	if m.pos == nil {
		return domain.StateFlat
	}
	return m.pos.State
}

// step processes one candle and returns the trade closed on it, if any.
// The candle's open time is the simulated instant; its high/low bound the
// intrabar extremes, with no lookahead past the candle itself.
func (m *positionMachine) step(k *domain.Kline) *domain.Trade {
	zone := strategy.Zone(k.OpenTime, m.zoneCfg)

	// Priority 1: zone flip. Close against the old regime and immediately
	// re-enter in the new one at the same close price.
	if m.pos == nil {
		m.open(zone, k.Close, k.OpenTime)
		return nil
	}
	if m.pos.Side != zone {
		trade := m.close(k.Close, k.OpenTime, domain.CloseReasonZoneFlip)
		m.open(zone, k.Close, k.OpenTime)
		return trade
	}

	// Priority 2: take-profit-zone exits (long-side trailing sub-state).
	if m.pos.InTPZone() {
		return m.stepTPZone(k)
	}

	// Priority 3: profit-target evaluation.
	return m.stepProfitTarget(k)
}

// stepTPZone updates the running peak and checks the TP-zone exit rules in
// order: worst case back under entry, trailing retracement from the peak,
// then the time-based exit ahead of the short zone.
func (m *positionMachine) stepTPZone(k *domain.Kline) *domain.Trade {
	if k.High > m.pos.PeakPrice {
		m.pos.PeakPrice = k.High
	}

	if k.Low < m.pos.EntryPrice {
		// Assume the close fills just under entry rather than at the exact
		// entry print; a conservative fixed micro-slippage.
		return m.close(m.pos.EntryPrice*0.999, k.OpenTime, domain.CloseReasonTPBelowEntry)
	}

	dropPct := (m.pos.PeakPrice - k.Low) / m.pos.PeakPrice * 100.0
	if dropPct >= m.zoneCfg.TPZoneTrailingStopPct {
		exit := m.pos.PeakPrice * (1 - m.zoneCfg.TPZoneTrailingStopPct/100.0)
		return m.close(exit, k.OpenTime, domain.CloseReasonTrailingStop)
	}

	if strategy.HoursUntilShortZone(k.OpenTime, m.zoneCfg) <= m.zoneCfg.TPZoneHoursThreshold {
		return m.close(k.Close, k.OpenTime, domain.CloseReasonTimeExit)
	}

	return nil
}

// stepProfitTarget checks whether the candle's favourable extreme reaches the
// profit target. Shorts always close at the theoretical target price; longs
// defer into the TP zone when enough session time remains to trail further.
func (m *positionMachine) stepProfitTarget(k *domain.Kline) *domain.Trade {
	var movePct float64
	if m.pos.Side == domain.SideShort {
		movePct = strategy.ProfitPct(m.pos.EntryPrice, k.Low, domain.SideShort)
	} else {
		movePct = strategy.ProfitPct(m.pos.EntryPrice, k.High, domain.SideLong)
	}
	if movePct < m.zoneCfg.ProfitTargetPct {
		return nil
	}

	if m.pos.Side == domain.SideShort {
		exit := m.pos.EntryPrice * (1 - m.zoneCfg.ProfitTargetPct/100.0)
		return m.close(exit, k.OpenTime, domain.CloseReasonProfitTarget)
	}

	if strategy.HoursUntilShortZone(k.OpenTime, m.zoneCfg) > m.zoneCfg.TPZoneHoursThreshold {
		m.pos.State = domain.StateOpenTPZone
		m.pos.PeakPrice = k.High
		return nil
	}

	exit := m.pos.EntryPrice * (1 + m.zoneCfg.ProfitTargetPct/100.0)
	return m.close(exit, k.OpenTime, domain.CloseReasonProfitTarget)
}

// finish closes any remaining position at the last candle's close.
func (m *positionMachine) finish(last *domain.Kline) *domain.Trade {
	if m.pos == nil {
		return nil
	}
	return m.close(last.Close, last.OpenTime, domain.CloseReasonBacktestEnd)
}

func (m *positionMachine) open(side domain.Side, price float64, ts time.Time) {
	m.pos = &domain.Position{
		Side:       side,
		EntryPrice: price,
		EntryTime:  ts,
		State:      domain.StateOpen,
	}
}

// close converts the open position into an immutable trade record and resets
// the machine to flat.
func (m *positionMachine) close(exitPrice float64, exitTime time.Time, reason domain.CloseReason) *domain.Trade {
	pos := m.pos
	m.pos = nil

	duration := exitTime.Sub(pos.EntryTime).Hours()
	pricePct := strategy.ProfitPct(pos.EntryPrice, exitPrice, pos.Side)
	costs := strategy.TradingCosts(duration, pos.Side, m.costCfg)
	gross, net := strategy.NetPnlPct(pricePct, m.zoneCfg.Leverage, costs)

	return &domain.Trade{
		Symbol:        m.symbol,
		Side:          pos.Side,
		EntryPrice:    pos.EntryPrice,
		ExitPrice:     exitPrice,
		EntryTime:     pos.EntryTime,
		ExitTime:      exitTime,
		DurationHours: duration,
		Leverage:      m.zoneCfg.Leverage,
		GrossPnlPct:   gross,
		NetPnlPct:     net,
		Costs:         costs,
		CloseReason:   reason,
	}
}
