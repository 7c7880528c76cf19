package domain

import "time"

// HolidaySet is an immutable set of calendar dates (date-only, no time) on
// which the market is treated as closed. The zero value is an empty set.
type HolidaySet struct {
	dates map[string]struct{}
}

const holidayDateLayout = "2006-01-02"

// NewHolidaySet builds a set from the given dates. Only the calendar date of
// each value is retained; the time of day and location are discarded.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	s := HolidaySet{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		s.dates[d.Format(holidayDateLayout)] = struct{}{}
	}
	return s
}

// ParseHolidaySet builds a set from "YYYY-MM-DD" strings.
func ParseHolidaySet(dates []string) (HolidaySet, error) {
	s := HolidaySet{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		t, err := time.Parse(holidayDateLayout, d)
		if err != nil {
			return HolidaySet{}, err
		}
		s.dates[t.Format(holidayDateLayout)] = struct{}{}
	}
	return s, nil
}

// Contains reports whether the calendar date of t is a holiday.
func (s HolidaySet) Contains(t time.Time) bool {
	if s.dates == nil {
		return false
	}
	_, ok := s.dates[t.Format(holidayDateLayout)]
	return ok
}

// Len returns the number of dates in the set.
func (s HolidaySet) Len() int {
	return len(s.dates)
}
