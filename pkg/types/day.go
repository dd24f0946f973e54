package types

import (
	"fmt"
	"time"
)

// DayLayout is the ISO-8601 calendar date layout used for every Day value.
const DayLayout = "2006-01-02"

// Day is a calendar date in ISO-8601 form (YYYY-MM-DD). Days compare and sort
// lexicographically in calendar order, which is why the Ledger keys its
// completion map by Day.
type Day string

// DayOf returns the calendar date of t in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// ParseDay validates s as an ISO-8601 calendar date.
// Returns ErrInvalidDate if s is not of the form YYYY-MM-DD.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day. Only the date part is meaningful.
func (d Day) Time() (time.Time, error) {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return t, nil
}

// AddDays returns the day n calendar days after d (n may be negative).
// An unparseable d is returned unchanged.
func (d Day) AddDays(n int) Day {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return DayOf(t.AddDate(0, 0, n))
}

// Valid reports whether d parses as a calendar date.
func (d Day) Valid() bool {
	_, err := d.Time()
	return err == nil
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d < other
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d > other
}

func (d Day) String() string {
	return string(d)
}
