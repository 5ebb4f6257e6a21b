// Package dateutil provides calendar-day arithmetic and wall-clock helpers
// for itinerary scheduling. Days are compared as UTC calendar dates rather
// than elapsed 24-hour periods, so offsets stay stable across DST
// transitions.
package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

// ClockLayout is the wall-clock format used in template payloads.
const ClockLayout = "15:04"

// DateLayout is the date-only format used at API edges.
const DateLayout = "2006-01-02"

// LocalDateTimeLayout is an offset-less datetime, interpreted downstream in
// the activity's declared timezone.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var clockRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Truncate returns t reduced to its UTC calendar date at midnight.
func Truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from anchor to t,
// negative when t precedes the anchor.
func DaysBetween(anchor, t time.Time) int {
	a := Truncate(anchor)
	b := Truncate(t)
	return int(b.Sub(a).Hours() / 24)
}

// AddDays returns the UTC calendar date n days after date.
func AddDays(date time.Time, n int) time.Time {
	return Truncate(date).AddDate(0, 0, n)
}

// Clock extracts the UTC wall-clock time of t in HH:MM form.
func Clock(t time.Time) string {
	return t.UTC().Format(ClockLayout)
}

// ValidClock reports whether s is a valid HH:MM 24-hour clock value.
func ValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// Combine builds an offset-less datetime from a calendar date and an HH:MM
// clock value. The result carries UTC purely as a container location; it is
// a wall-clock value, not an instant.
func Combine(date time.Time, clock string) (time.Time, error) {
	if !ValidClock(clock) {
		return time.Time{}, fmt.Errorf("invalid clock value %q", clock)
	}
	parsed, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing clock value %q: %w", clock, err)
	}
	y, m, d := Truncate(date).Date()
	return time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}

// ParseDate parses a date-only value in 2006-01-02 form.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatLocal renders t as an offset-less datetime string.
func FormatLocal(t time.Time) string {
	return t.Format(LocalDateTimeLayout)
}
