package utils

import "time"

// DateLayout is the calendar date format rides are stamped with.
const DateLayout = "2006-01-02"

// DayClock tells the registry which calendar day "today" is.
//
// Go Learning Note — Injecting Time:
// Code that calls time.Now() directly cannot be tested across a day boundary.
// Hiding the call behind a one-method interface lets tests pin "today" to a
// fixed date and then advance it to check that yesterday's rides drop out.
type DayClock interface {
	Today() string
}

// LocalDayClock reports today's date in a fixed location.
type LocalDayClock struct {
	Location *time.Location
}

// NewLocalDayClock returns a clock for loc, or for the process's local zone
// when loc is nil.
func NewLocalDayClock(loc *time.Location) LocalDayClock {
	if loc == nil {
		loc = time.Local
	}
	return LocalDayClock{Location: loc}
}

func (c LocalDayClock) Today() string {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format(DateLayout)
}

// FixedDayClock always reports the same date. Tests move it by assigning Day.
type FixedDayClock struct {
	Day string
}

func (c *FixedDayClock) Today() string { return c.Day }
