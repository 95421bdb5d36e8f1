// Package schedule implements the clinic's appointment-slot arithmetic.
// It deliberately avoids time.Time for stored values: appointment dates and
// times are plain calendar values with no timezone attached, so daylight
// saving transitions and server locale cannot shift a booked slot. time.Time
// is used only internally for day normalization and weekday lookup.
package schedule

import (
	"fmt"
	"time"
)

// Date is a timezone-free calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns a normalized Date; out-of-range components roll over the
// same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf extracts the calendar date from a time.Time in that value's
// location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// AddDays returns the date n calendar days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return NewDate(d.Year, d.Month, d.Day+n)
}

// Weekday reports the day of the week.
func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Compare orders two dates: -1 when d is earlier than o, 0 when equal,
// +1 when later.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// TimeOfDay is a wall-clock time with minute precision and no date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an HH:MM (24-hour) string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String formats the time as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// AddMinutes returns the time n minutes later. Minute overflow carries into
// the hour without wrapping at midnight, so callers can compare the result
// against a closing hour (17:45 + 30m = 18:15, not 0:15 next day).
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	total := t.Hour*60 + t.Minute + n
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// Compare orders two times of day like Date.Compare.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	return sign((t.Hour*60 + t.Minute) - (o.Hour*60 + o.Minute))
}

// Slot identifies one bookable increment of clinic time.
type Slot struct {
	Date Date
	Time TimeOfDay
}

// String formats the slot as "YYYY-MM-DD HH:MM".
func (s Slot) String() string {
	return s.Date.String() + " " + s.Time.String()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
