// Package calendar provides plain calendar-date and time-of-day value types.
//
// Appointment dates are wall-calendar values ("2024-03-05"), never instants.
// Converting them through time.Time in a local zone shifts them across
// midnight boundaries, so the domain packages only ever handle these types
// and the database stores their string forms.
package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar day: year, month, day. The zero value is invalid.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Today returns the current calendar date in local time.
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsValid reports whether d names a real calendar day.
func (d Date) IsValid() bool {
	if d.Year <= 0 || d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= daysInMonth(d.Year, d.Month)
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// SameDay reports whether d and o are the same calendar day.
func (d Date) SameDay(o Date) bool { return d == o }

// SameMonth reports whether d and o fall in the same month of the same year.
func (d Date) SameMonth(o Date) bool {
	return d.Year == o.Year && d.Month == o.Month
}

// SameYear reports whether d and o fall in the same year.
func (d Date) SameYear(o Date) bool { return d.Year == o.Year }

// AddDays returns the date n days after d (n may be negative). The arithmetic
// runs through time.Time pinned to UTC so no zone offset can shift the day.
func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return DateOf(t)
}

// PrevDay returns the calendar day before d.
func (d Date) PrevDay() Date { return d.AddDays(-1) }

// PrevMonth returns the same position one month earlier, clamped to the
// target month's length (March 31 -> February 28/29).
func (d Date) PrevMonth() Date {
	y, m := d.Year, d.Month-1
	if m < time.January {
		y, m = y-1, time.December
	}
	day := d.Day
	if max := daysInMonth(y, m); day > max {
		day = max
	}
	return Date{Year: y, Month: m, Day: day}
}

// PrevYear returns the same date one year earlier, clamping Feb 29 to Feb 28.
func (d Date) PrevYear() Date {
	day := d.Day
	if max := daysInMonth(d.Year-1, d.Month); day > max {
		day = max
	}
	return Date{Year: d.Year - 1, Month: d.Month, Day: day}
}

// FirstOfMonth returns the first day of d's month.
func (d Date) FirstOfMonth() Date { return Date{Year: d.Year, Month: d.Month, Day: 1} }

// LastOfMonth returns the last day of d's month.
func (d Date) LastOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: daysInMonth(d.Year, d.Month)}
}

// FirstOfYear returns January 1 of d's year.
func (d Date) FirstOfYear() Date { return Date{Year: d.Year, Month: time.January, Day: 1} }

// LastOfYear returns December 31 of d's year.
func (d Date) LastOfYear() Date { return Date{Year: d.Year, Month: time.December, Day: 31} }

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a clock time within a day, minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an HH:MM string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	return t.Minute < o.Minute
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
