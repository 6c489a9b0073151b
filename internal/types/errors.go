package types

import "errors"

var (
	ErrInvalidMonth = errors.New("could not parse the month, use YYYY-MM or YYYY-MM-DD")
	ErrInvalidDate  = errors.New("could not parse the date, use YYYY-MM-DD")
	ErrInvalidTime  = errors.New("could not parse the time of day, use HH:MM")
)
