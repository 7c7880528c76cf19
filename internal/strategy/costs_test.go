package strategy

import (
	"testing"

	"zoneFlipBot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestProfitPct(t *testing.T) {
	tests := []struct {
		name  string
		entry float64
		exit  float64
		side  domain.Side
		want  float64
	}{
		{name: "long gain", entry: 100000, exit: 101000, side: domain.SideLong, want: 1.00},
		{name: "short gain", entry: 100000, exit: 99000, side: domain.SideShort, want: 1.00},
		{name: "long loss", entry: 100000, exit: 99000, side: domain.SideLong, want: -1.00},
		{name: "short loss", entry: 100000, exit: 101000, side: domain.SideShort, want: -1.00},
		{name: "flat", entry: 100000, exit: 100000, side: domain.SideLong, want: 0},
		{name: "zero entry guarded", entry: 0, exit: 100, side: domain.SideLong, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProfitPct(tt.entry, tt.exit, tt.side), 1e-9)
		})
	}
}

func TestTradingCosts(t *testing.T) {
	cfg := DefaultCostConfig() // 5 bps taker, 5 bps slippage, 1 bp funding per 8h

	tests := []struct {
		name          string
		durationHours float64
		side          domain.Side
		wantFunding   float64
		wantTotal     float64
	}{
		{
			name:          "short hold with no funding period",
			durationHours: 4,
			side:          domain.SideLong,
			wantFunding:   0,
			wantTotal:     0.20, // 0.10 fees + 0.10 slippage
		},
		{
			name:          "long pays one funding period",
			durationHours: 9,
			side:          domain.SideLong,
			wantFunding:   0.01,
			wantTotal:     0.21,
		},
		{
			name:          "short receives funding",
			durationHours: 9,
			side:          domain.SideShort,
			wantFunding:   -0.01,
			wantTotal:     0.19,
		},
		{
			name:          "funding periods floor not round",
			durationHours: 15.9,
			side:          domain.SideLong,
			wantFunding:   0.01,
			wantTotal:     0.21,
		},
		{
			name:          "three full periods",
			durationHours: 24,
			side:          domain.SideLong,
			wantFunding:   0.03,
			wantTotal:     0.23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs := TradingCosts(tt.durationHours, tt.side, cfg)
			assert.InDelta(t, 0.10, costs.FeePct, 1e-9)
			assert.InDelta(t, 0.10, costs.SlippagePct, 1e-9)
			assert.InDelta(t, tt.wantFunding, costs.FundingPct, 1e-9)
			assert.InDelta(t, tt.wantTotal, costs.TotalPct, 1e-9)
		})
	}
}

func TestNetPnlPct(t *testing.T) {
	costs := TradingCosts(9, domain.SideLong, DefaultCostConfig()) // 0.21 total

	gross, net := NetPnlPct(1.0, 10, costs)
	assert.InDelta(t, 10.0, gross, 1e-9)
	assert.InDelta(t, 10.0-2.1, net, 1e-9)

	// Leverage scales both the move and the costs
	gross, net = NetPnlPct(-0.5, 4, costs)
	assert.InDelta(t, -2.0, gross, 1e-9)
	assert.InDelta(t, -2.0-0.84, net, 1e-9)
}

func TestMakerRebateNeverApplied(t *testing.T) {
	base := DefaultCostConfig()
	bumped := base
	bumped.MakerRebateBps = 50

	assert.Equal(t, TradingCosts(12, domain.SideLong, base), TradingCosts(12, domain.SideLong, bumped))
}
