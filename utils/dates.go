// utils/dates.go
package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DayRange returns [start of t's day, start of the next day).
func DayRange(t time.Time) (time.Time, time.Time) {
	start := BeginningOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// ParseDate reads a YYYY-MM-DD string as a calendar day in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}
