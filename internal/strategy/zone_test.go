package strategy

import (
	"testing"
	"time"

	"zoneFlipBot/internal/domain"

	"github.com/stretchr/testify/assert"
)

// mondayUTC returns a known Monday (2025-01-06) at the given UTC clock time.
// Session-local time is five hours earlier.
func mondayUTC(hour, min int) time.Time {
	return time.Date(2025, 1, 6, hour, min, 0, 0, time.UTC)
}

func TestZone(t *testing.T) {
	cfg := DefaultZoneConfig()

	tests := []struct {
		name string
		ts   time.Time
		want domain.Side
	}{
		{
			name: "weekday before short zone",
			ts:   mondayUTC(13, 0), // 08:00 local
			want: domain.SideLong,
		},
		{
			name: "weekday at short zone start",
			ts:   mondayUTC(14, 29), // 09:29 local
			want: domain.SideShort,
		},
		{
			name: "weekday inside short zone",
			ts:   mondayUTC(17, 0), // 12:00 local
			want: domain.SideShort,
		},
		{
			name: "weekday one minute before zone end",
			ts:   mondayUTC(21, 0), // 16:00 local
			want: domain.SideShort,
		},
		{
			name: "weekday at zone end is exclusive",
			ts:   mondayUTC(21, 1), // 16:01 local
			want: domain.SideLong,
		},
		{
			name: "saturday midday",
			ts:   time.Date(2025, 1, 4, 17, 0, 0, 0, time.UTC),
			want: domain.SideLong,
		},
		{
			name: "sunday midday",
			ts:   time.Date(2025, 1, 5, 17, 0, 0, 0, time.UTC),
			want: domain.SideLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Zone(tt.ts, cfg))
			// Deterministic: repeated calls agree
			assert.Equal(t, Zone(tt.ts, cfg), Zone(tt.ts, cfg))
		})
	}
}

func TestZoneWeekendAlwaysLong(t *testing.T) {
	cfg := DefaultZoneConfig()
	// Every hour of a Saturday and Sunday classifies long, regardless of the
	// short-zone window.
	for day := 4; day <= 5; day++ {
		for hour := 0; hour < 24; hour++ {
			ts := time.Date(2025, 1, day, hour, 30, 0, 0, time.UTC)
			assert.Equal(t, domain.SideLong, Zone(ts, cfg), "at %s", ts)
		}
	}
}

func TestZoneHoliday(t *testing.T) {
	cfg := DefaultZoneConfig()
	// 2025-01-06 local is a holiday; midday would otherwise be short.
	cfg.Holidays = domain.NewHolidaySet(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))

	for hour := 5; hour < 24; hour++ { // local 00:00-18:59 on Jan 6
		ts := mondayUTC(hour, 0)
		assert.Equal(t, domain.SideLong, Zone(ts, cfg), "at %s", ts)
	}

	// The following trading day is unaffected.
	tuesday := time.Date(2025, 1, 7, 17, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.SideShort, Zone(tuesday, cfg))
}

func TestHoursUntilShortZone(t *testing.T) {
	cfg := DefaultZoneConfig()
	startOfDayHours := 9.0 + 29.0/60.0 // window start as fractional hours

	tests := []struct {
		name string
		ts   time.Time
		want float64
	}{
		{
			name: "weekday morning before window",
			ts:   mondayUTC(13, 0), // 08:00 local
			want: 1.0 + 29.0/60.0,
		},
		{
			name: "weekday inside window rolls to next day",
			ts:   mondayUTC(17, 0), // 12:00 local Monday
			want: 12.0 + startOfDayHours,
		},
		{
			name: "friday afternoon skips the weekend",
			ts:   time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC), // Friday 12:00 local
			want: 12.0 + 24.0 + 24.0 + startOfDayHours,
		},
		{
			name: "saturday morning",
			ts:   time.Date(2025, 1, 4, 15, 0, 0, 0, time.UTC), // Saturday 10:00 local
			want: 14.0 + 24.0 + startOfDayHours,
		},
		{
			name: "sunday evening",
			ts:   time.Date(2025, 1, 6, 3, 0, 0, 0, time.UTC), // Sunday 22:00 local
			want: 2.0 + startOfDayHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HoursUntilShortZone(tt.ts, cfg), 1e-9)
		})
	}
}
