package utils

import "time"

// Clock reports dates in the clinic's timezone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock returns a clock frozen at t, for tests and batch tools.
func NewFixedClock(t time.Time) *Clock {
	return &Clock{loc: t.Location(), now: func() time.Time { return t }}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Today returns the half-open range [start of today, start of tomorrow).
func (c *Clock) Today() (time.Time, time.Time) {
	now := c.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
	return start, start.AddDate(0, 0, 1)
}

// TodayDate is today's calendar date at midnight UTC, matching how date columns are scanned.
func (c *Clock) TodayDate() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Age is the difference between the current year and the birth year.
func (c *Clock) Age(dateOfBirth time.Time) int {
	return c.Now().Year() - dateOfBirth.Year()
}
