// Package calendar provides a date-only value type with the calendar
// arithmetic planner pages navigate by.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the canonical text form of a Date.
const Layout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone component.
type Date struct {
	t time.Time
}

// New returns the date for year, month and day. Out-of-range values are
// normalized the way time.Date does.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime drops the time-of-day of t, keeping its calendar day in t's zone.
func FromTime(t time.Time) Date { return New(t.Year(), t.Month(), t.Day()) }

// Today is the current local date.
func Today() Date { return FromTime(time.Now()) }

// Parse reads a date in YYYY-MM-DD form.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Ordinal is the 1-based day of the year.
func (d Date) Ordinal() int { return d.t.YearDay() }

// ISOWeek returns the ISO 8601 year and week number.
func (d Date) ISOWeek() (year, week int) { return d.t.ISOWeek() }

func (d Date) Time() time.Time { return d.t }
func (d Date) IsZero() bool    { return d.t.IsZero() }
func (d Date) String() string  { return d.t.Format(Layout) }

// Format formats the date using a time layout.
func (d Date) Format(layout string) string { return d.t.Format(layout) }

func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }

func (d Date) AddDays(n int) Date  { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddWeeks(n int) Date { return d.AddDays(7 * n) }

// AddMonths moves n months, clamping the day to the end of the target month
// so Jan 31 + 1 month is the last day of February.
func (d Date) AddMonths(n int) Date {
	first := New(d.Year(), d.Month()+time.Month(n), 1)
	last := first.EndOfMonth().Day()
	day := d.Day()
	if day > last {
		day = last
	}
	return New(first.Year(), first.Month(), day)
}

func (d Date) Tomorrow() Date  { return d.AddDays(1) }
func (d Date) Yesterday() Date { return d.AddDays(-1) }
func (d Date) NextWeek() Date  { return d.AddWeeks(1) }
func (d Date) LastWeek() Date  { return d.AddWeeks(-1) }
func (d Date) NextMonth() Date { return d.AddMonths(1) }
func (d Date) LastMonth() Date { return d.AddMonths(-1) }

func BeginningOfYear(year int) Date { return New(year, time.January, 1) }
func EndOfYear(year int) Date       { return New(year, time.December, 31) }

func (d Date) BeginningOfYear() Date  { return BeginningOfYear(d.Year()) }
func (d Date) EndOfYear() Date        { return EndOfYear(d.Year()) }
func (d Date) BeginningOfMonth() Date { return New(d.Year(), d.Month(), 1) }
func (d Date) EndOfMonth() Date       { return New(d.Year(), d.Month()+1, 0) }

// BeginningOfWeek returns the most recent day (including d) that falls on
// start.
func (d Date) BeginningOfWeek(start time.Weekday) Date {
	back := (int(d.Weekday()) - int(start) + 7) % 7
	return d.AddDays(-back)
}

// EndOfWeek returns the last day of the week beginning on start.
func (d Date) EndOfWeek(start time.Weekday) Date {
	return d.BeginningOfWeek(start).AddDays(6)
}

// WeeksInMonth counts the calendar rows needed to draw d's month with weeks
// beginning on start.
func (d Date) WeeksInMonth(start time.Weekday) int {
	first := d.BeginningOfMonth()
	lead := (int(first.Weekday()) - int(start) + 7) % 7
	days := d.EndOfMonth().Day()
	return (lead + days + 6) / 7
}

// WeekOfMonth is the 1-based calendar row of d within its month.
func (d Date) WeekOfMonth(start time.Weekday) int {
	lead := (int(d.BeginningOfMonth().Weekday()) - int(start) + 7) % 7
	return (lead+d.Day()-1)/7 + 1
}

// ISOWeekStart returns the Monday beginning ISO week w of year.
func ISOWeekStart(year, week int) Date {
	// Jan 4 is always in ISO week 1.
	jan4 := New(year, time.January, 4)
	return jan4.BeginningOfWeek(time.Monday).AddWeeks(week - 1)
}

// ISOWeeksInYear returns 52 or 53.
func ISOWeeksInYear(year int) int {
	_, w := New(year, time.December, 28).ISOWeek()
	return w
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int { return EndOfYear(year).Ordinal() }
