package types

import (
	"fmt"
	"time"
)

// Clock is a time of day in HH:MM format. The zero-padded format sorts
// lexicographically, which lets the database compare slots as strings.
type Clock string

// ParseClock validates s and returns it normalized to HH:MM.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	return Clock(t.Format("15:04")), nil
}

// Minutes returns the minutes since midnight. Invalid values return -1.
func (c Clock) Minutes() int {
	t, err := time.Parse("15:04", string(c))
	if err != nil {
		return -1
	}

	return t.Hour()*60 + t.Minute()
}

// OnTheHour reports if the clock points to a full hour.
func (c Clock) OnTheHour() bool {
	m := c.Minutes()
	return m >= 0 && m%60 == 0
}
