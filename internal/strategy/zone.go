package strategy

import (
	"time"

	"zoneFlipBot/internal/domain"
)

// ClockTime is a wall-clock boundary of the short zone, in session-local time.
type ClockTime struct {
	Hour   int
	Minute int
}

// minuteOfDay converts the boundary to minutes after local midnight.
func (c ClockTime) minuteOfDay() int {
	return c.Hour*60 + c.Minute
}

// ZoneConfig holds the strategy parameters for one run. Immutable per run.
type ZoneConfig struct {
	ProfitTargetPct       float64           // Favourable price move that arms the exit logic, percent
	TPZoneTrailingStopPct float64           // Retracement from the TP-zone peak that forces a close, percent
	TPZoneHoursThreshold  float64           // Minimum hours to the short zone required to keep trailing
	Leverage              float64           // Leverage applied to every position
	ShortZoneStart        ClockTime         // Start of the short session window, local time
	ShortZoneEnd          ClockTime         // End of the short session window, local time (exclusive)
	Holidays              domain.HolidaySet // Dates treated as market holidays (always long)
}

// DefaultZoneConfig returns the documented strategy defaults: 1.0% profit
// target, 0.5% trailing stop, 6h TP-zone threshold, 10x leverage, short zone
// 09:29-16:01 local.
func DefaultZoneConfig() ZoneConfig {
	return ZoneConfig{
		ProfitTargetPct:       1.0,
		TPZoneTrailingStopPct: 0.5,
		TPZoneHoursThreshold:  6.0,
		Leverage:              10.0,
		ShortZoneStart:        ClockTime{Hour: 9, Minute: 29},
		ShortZoneEnd:          ClockTime{Hour: 16, Minute: 1},
	}
}

// sessionLocation is the fixed UTC-5 session clock. Deliberately ignores
// daylight saving: the strategy was calibrated against a fixed offset and the
// simulation must match it.
var sessionLocation = time.FixedZone("session", -5*60*60)

// toSessionTime converts a timestamp to the fixed-offset session clock.
func toSessionTime(ts time.Time) time.Time {
	return ts.In(sessionLocation)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Zone classifies a timestamp into the directional regime for that instant.
// Weekends and holidays are always long; inside [ShortZoneStart, ShortZoneEnd)
// on a trading weekday the regime is short. Pure, no side effects.
func Zone(ts time.Time, cfg ZoneConfig) domain.Side {
	local := toSessionTime(ts)
	if isWeekend(local) {
		return domain.SideLong
	}
	if cfg.Holidays.Contains(local) {
		return domain.SideLong
	}
	minute := local.Hour()*60 + local.Minute()
	if minute >= cfg.ShortZoneStart.minuteOfDay() && minute < cfg.ShortZoneEnd.minuteOfDay() {
		return domain.SideShort
	}
	return domain.SideLong
}

// HoursUntilShortZone returns the fractional hours from ts until the next
// short-zone start. When ts falls on a weekday before the window start, the
// gap is within the same day; otherwise the search skips forward over
// weekends, summing hours to midnight, full non-trading days, and the hours
// from midnight to the window start on the next weekday.
func HoursUntilShortZone(ts time.Time, cfg ZoneConfig) float64 {
	local := toSessionTime(ts)
	startMinutes := float64(cfg.ShortZoneStart.minuteOfDay())
	nowMinutes := float64(local.Hour()*60+local.Minute()) + float64(local.Second())/60.0

	if !isWeekend(local) && nowMinutes < startMinutes {
		return (startMinutes - nowMinutes) / 60.0
	}

	hours := (24*60 - nowMinutes) / 60.0
	day := local.AddDate(0, 0, 1)
	for isWeekend(day) {
		hours += 24
		day = day.AddDate(0, 0, 1)
	}
	return hours + startMinutes/60.0
}
