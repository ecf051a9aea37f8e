// Package calendar implements business-day date arithmetic.
//
// Durations are inclusive of the start day: a 1-day task starts and ends on
// the same date.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the layout used for kickoff dates and persisted state
const DateLayout = "2006-01-02"

// Calendar counts business days, optionally skipping weekends
type Calendar struct {
	SkipWeekends bool
}

// New returns a calendar for the given weekend mode
func New(skipWeekends bool) Calendar {
	return Calendar{SkipWeekends: skipWeekends}
}

// Day returns the civil date y-m-d at midnight UTC
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping its calendar date
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Day(y, m, d)
}

// Today returns the current local date
func Today() time.Time {
	return Truncate(time.Now())
}

// Parse parses a YYYY-MM-DD date
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Format renders a date as YYYY-MM-DD
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

// IsWeekend reports whether d falls on Saturday or Sunday
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// NextBusinessDay returns d itself when it is a business day, otherwise the
// first business day after it.
func (c Calendar) NextBusinessDay(d time.Time) time.Time {
	if !c.SkipWeekends {
		return d
	}
	for IsWeekend(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddBusinessDays returns the end date of an n-day span starting at start.
// n <= 1 ends on the (adjusted) start day itself.
func (c Calendar) AddBusinessDays(start time.Time, n int) time.Time {
	d := c.NextBusinessDay(start)
	if n <= 1 {
		return d
	}
	for remaining := n - 1; remaining > 0; {
		d = d.AddDate(0, 0, 1)
		if c.SkipWeekends && IsWeekend(d) {
			continue
		}
		remaining--
	}
	return d
}

// NextDayAfter returns the first business day strictly after end
func (c Calendar) NextDayAfter(end time.Time) time.Time {
	return c.NextBusinessDay(end.AddDate(0, 0, 1))
}

// BusinessDaysBetween counts business days in the half-open range (from, to].
// It returns a negative count when to is before from.
func (c Calendar) BusinessDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return -c.BusinessDaysBetween(to, from)
	}
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.SkipWeekends && IsWeekend(d) {
			continue
		}
		n++
	}
	return n
}
