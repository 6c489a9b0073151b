package models

import (
	"errors"
)

var (
	ErrGeneral           = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound  = errors.New("there is no")
	ErrReferenceNotFound = errors.New("a resource ID you specified does not identify an existing resource")
	ErrConflict          = errors.New("the resource conflicts with an existing one")
)

// ConflictError is returned when a write violates a uniqueness rule.
//
// It matches ErrConflict with errors.Is so that callers can map all
// conflicts to the same response without knowing every message.
type ConflictError struct {
	msg string
}

func (e ConflictError) Error() string {
	return e.msg
}

func (e ConflictError) Is(target error) bool {
	return target == ErrConflict
}

var (
	ErrUnitCodeNotUnique       = ConflictError{"a unit with this code already exists"}
	ErrMeterGroupCodeNotUnique = ConflictError{"a meter group with this code already exists"}
	ErrMeterGroupUnitNotUnique = ConflictError{"the unit is already part of this meter group"}
	ErrReadingNotUnique        = ConflictError{"a reading for this month and unit already exists"}
	ErrInvoiceNotUnique        = ConflictError{"an invoice for this month and meter group already exists"}
	ErrAllocationNotUnique     = ConflictError{"an allocation for this invoice and unit already exists"}
	ErrReservationOverlap      = ConflictError{"the machine is already reserved during this time"}
)

var (
	ErrUnitCodeEmpty       = errors.New("the unit code must not be empty")
	ErrMeterGroupCodeEmpty = errors.New("the meter group code must not be empty")
	ErrServiceTypeInvalid  = errors.New("the service type must be one of WATER, ELECTRICITY, GAS")
	ErrReadingNegative     = errors.New("the reading value must not be negative")
	ErrWeightNegative      = errors.New("the weight must not be negative")
	ErrMethodInvalid       = errors.New("the allocation method must be one of PROPORTIONAL_CONSUMPTION, EQUAL_SPLIT, FIXED_AMOUNT, PERCENTAGE")
	ErrChargeEmpty         = errors.New("the charge description must not be empty")
)

// Reservation errors
var (
	ErrMachineInvalid       = errors.New("the machine must be one of white, grey")
	ErrStatusInvalid        = errors.New("the status must be one of pending, confirmed, completed, cancelled")
	ErrPaymentMethodInvalid = errors.New("the payment method must be one of cash, nequi")
	ErrGuestNameEmpty       = errors.New("the guest name must not be empty")
	ErrPhoneEmpty           = errors.New("the phone number must not be empty")
	ErrDateMissing          = errors.New("the date of the reservation must be set")
	ErrSlotNotOnTheHour     = errors.New("reservations start and end on the full hour")
	ErrSlotOrder            = errors.New("the end time must be after the start time")
	ErrSlotTooShort         = errors.New("reservations last at least 3 hours")
)
