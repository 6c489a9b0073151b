package allocation

import "errors"

var (
	ErrNoUnits            = errors.New("there are no units to allocate to")
	ErrDecreasingReading  = errors.New("the current reading is lower than the previous reading")
	ErrTargetUnitNotFound = errors.New("target unit not found")
	ErrPercentagesMissing = errors.New("percentage metadata not found")
	ErrUnknownMethod      = errors.New("unknown allocation method")
)
