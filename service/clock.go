package service

import (
	"time"

	"pedidos-mostrador/models"
)

// Clock tells the current time and business date of the shop
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a Clock in loc. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Now returns the current instant in the shop timezone
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current business date as YYYY-MM-DD
func (c *Clock) Today() string {
	return c.Now().Format(models.BusinessDateLayout)
}

// Location returns the shop timezone
func (c *Clock) Location() *time.Location {
	return c.loc
}
