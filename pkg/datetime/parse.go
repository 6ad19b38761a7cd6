// Package datetime provides date utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/capital-advisor/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and ledger records and
	// is also the output date format.
	DateLayout = constants.DateLayout
)

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// MustParseDate parses a YYYY-MM-DD date string and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(date string) time.Time {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a time in the canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween returns the number of whole days from firstDate to secondDate;
// negative when secondDate precedes firstDate. Times of day are ignored.
func DaysBetween(firstDate, secondDate time.Time) int {
	first := time.Date(firstDate.Year(), firstDate.Month(), firstDate.Day(), 0, 0, 0, 0, time.UTC)
	second := time.Date(secondDate.Year(), secondDate.Month(), secondDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(second.Sub(first).Hours() / 24)
}

// OffsetDays returns the date offset by the given number of days.
func OffsetDays(date time.Time, days int) time.Time {
	return date.AddDate(0, 0, days)
}

// DateBeforeDate returns true if firstDate is strictly before secondDate.
func DateBeforeDate(firstDate, secondDate string) (bool, error) {
	firstDateT, err := time.Parse(DateLayout, firstDate)
	if err != nil {
		return false, err
	}
	secondDateT, err := time.Parse(DateLayout, secondDate)
	if err != nil {
		return false, err
	}
	return firstDateT.Before(secondDateT), nil
}

// WithinRange returns true if date falls on or between start and end.
func WithinRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}
