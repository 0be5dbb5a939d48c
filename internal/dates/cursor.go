// Package dates steps the crawl cursor over calendar days.
//
// Every value produced here is normalized to 12:00:00 UTC so that repeated
// one-day stepping never skips or repeats a day across a daylight-saving
// transition. Comparisons between normalized values are therefore plain
// calendar-date comparisons.
package dates

import (
	"fmt"
	"time"
)

// Layout is the calendar-date format used throughout the store and the index.
const Layout = "2006-01-02"

// AtUTCNoon normalizes t to 12:00:00.000 UTC of its calendar day.
func AtUTCNoon(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD string into a normalized time.
func Parse(ymd string) (time.Time, error) {
	t, err := time.Parse(Layout, ymd)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", ymd, err)
	}
	return AtUTCNoon(t), nil
}

// Format renders a normalized time as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Today returns the current calendar day, normalized.
func Today() time.Time {
	return AtUTCNoon(time.Now())
}

// Advance returns the next calendar day, normalized.
func Advance(t time.Time) time.Time {
	return AtUTCNoon(t.UTC().AddDate(0, 0, 1))
}

// NextMissingDate returns the day after the last recorded date, normalized.
func NextMissingDate(lastRecorded string) (time.Time, error) {
	last, err := Parse(lastRecorded)
	if err != nil {
		return time.Time{}, fmt.Errorf("last recorded date: %w", err)
	}
	return Advance(last), nil
}

// LastDayOfMonth returns the final calendar day of the given month, normalized.
func LastDayOfMonth(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 12, 0, 0, 0, time.UTC)
	return AtUTCNoon(first.AddDate(0, 1, -1))
}
