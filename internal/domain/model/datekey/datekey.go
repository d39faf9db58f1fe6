// Package datekey provides the calendar-day value object used to index
// recurring task instances.
//
// A Date is stored as midnight UTC of its calendar day. All arithmetic is
// performed on that representation so that daylight-saving transitions in the
// user's timezone can never shift a key onto a neighbouring day.
package datekey

import (
	"time"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model"
)

// Layout is the ISO calendar-day layout of a date-key
const Layout = "2006-01-02"

// Date represents a calendar day
type Date struct {
	t time.Time
}

// New creates a Date; out-of-range components are normalized like time.Date
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Parse parses a strict YYYY-MM-DD key
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil || t.Format(Layout) != s {
		return Date{}, model.ErrInvalidDateKey.WithMessage("invalid date key %q", s).
			WithDetails(map[string]interface{}{"key": s})
	}
	return Date{t: t}, nil
}

// ParseLeading parses the leading YYYY-MM-DD of a date or date-time string
// such as "2026-01-05T10:00". It reports false when no valid day is present.
func ParseLeading(s string) (Date, bool) {
	if len(s) < len(Layout) {
		return Date{}, false
	}
	d, err := Parse(s[:len(Layout)])
	if err != nil {
		return Date{}, false
	}
	return d, true
}

// FromTime returns the wall-clock calendar day of t in loc
func FromTime(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return New(y, m, d)
}

// Today returns the current calendar day in loc
func Today(loc *time.Location) Date {
	return FromTime(time.Now(), loc)
}

// String returns the YYYY-MM-DD key
func (d Date) String() string {
	return d.t.Format(Layout)
}

// Time returns midnight UTC of the day
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Weekday returns the day of the week
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// AddDays returns d shifted by n calendar days
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before checks if d is strictly before other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After checks if d is strictly after other
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal checks if two dates are the same day
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// StartOfWeek returns the latest day on or before d whose weekday is anchor
func (d Date) StartOfWeek(anchor time.Weekday) Date {
	back := (int(d.Weekday()) - int(anchor) + 7) % 7
	return d.AddDays(-back)
}

// StartOfMonth returns the first day of d's month
func (d Date) StartOfMonth() Date {
	return New(d.t.Year(), d.t.Month(), 1)
}

// StartOfYear returns January 1st of d's year
func (d Date) StartOfYear() Date {
	return New(d.t.Year(), time.January, 1)
}
