// Package timewindow provides helpers for working with "HH:MM" clock times
// and half-open time intervals within a single calendar day.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// ErrBadTimeFormat is returned when a clock time string is not a valid
// two-digit "HH:MM" value.
var ErrBadTimeFormat = errors.New("time must be in HH:MM format")

// ToMinutes parses a "HH:MM" string into minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeFormat, hhmm)
	}

	h, ok := twoDigits(hhmm[0], hhmm[1])
	if !ok || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeFormat, hhmm)
	}
	m, ok := twoDigits(hhmm[3], hhmm[4])
	if !ok || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadTimeFormat, hhmm)
	}

	return h*60 + m, nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FromMinutes formats minutes since midnight as a zero-padded "HH:MM" string.
func FromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether two half-open intervals [startA, endA) and
// [startB, endB), in minutes since midnight, intersect. Touching endpoints
// (one interval ending exactly where the other starts) do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// OverlapsClock is Overlaps for "HH:MM" strings. Malformed input fails with
// ErrBadTimeFormat; callers that validate upstream may treat this as a
// precondition and ignore the error.
func OverlapsClock(startA, endA, startB, endB string) (bool, error) {
	sa, err := ToMinutes(startA)
	if err != nil {
		return false, err
	}
	ea, err := ToMinutes(endA)
	if err != nil {
		return false, err
	}
	sb, err := ToMinutes(startB)
	if err != nil {
		return false, err
	}
	eb, err := ToMinutes(endB)
	if err != nil {
		return false, err
	}
	return Overlaps(sa, ea, sb, eb), nil
}

// DayStart strips the time-of-day from t, producing the canonical start of
// that calendar day in UTC. Reservations are bucketed by this marker so that
// stored time-of-day noise does not affect same-day queries.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the start of the calendar day after t. Together with
// DayStart it forms the half-open range [DayStart(t), NextDay(t)).
func NextDay(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1)
}
