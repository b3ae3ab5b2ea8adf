package clock

import "time"

// Clock tells the services what day it is in the shop's time zone.
type Clock struct {
	now func() time.Time
	loc *time.Location
}

func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}

	return Clock{now: time.Now, loc: loc}
}

// Fixed returns a clock stopped at t, in t's location.
func Fixed(t time.Time) Clock {
	return Clock{now: func() time.Time { return t }, loc: t.Location()}
}

func (c Clock) Now() time.Time {
	if c.now == nil {
		return time.Now()
	}

	return c.now()
}

// Today returns the current calendar day as midnight UTC, the form DATE columns scan into.
func (c Clock) Today() time.Time {
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}

	return Day(c.Now().In(loc))
}

// Day truncates t to its calendar day, keeping the wall-clock date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
