// Package calendar aligns date ranges to Sunday–Saturday weeks, buckets
// sessions into day cells and slices the result into fixed-size pages.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"alcyxob/team-schedule/internal/domain"
)

const DaysPerWeek = 7

var (
	ErrInvalidRange        = errors.New("calendar: start date is after end date")
	ErrInvalidWeeksPerPage = errors.New("calendar: weeks per page must be at least 1")
)

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// Midnight truncates t to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Expand returns every date of the smallest run of whole calendar weeks
// (Sunday through Saturday) that contains [start, end].
func Expand(start, end time.Time) ([]time.Time, error) {
	start, end = Midnight(start), Midnight(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	first := start.AddDate(0, 0, -int(start.Weekday()))
	last := end.AddDate(0, 0, int(time.Saturday-end.Weekday()))

	dates := make([]time.Time, 0, int(last.Sub(first).Hours()/24)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}
