package models

import (
	"fmt"
	"strings"

	"github.com/rentals-co/servicios/internal/types"
	"gorm.io/gorm"
)

type Machine string

const (
	MachineWhite Machine = "white"
	MachineGrey  Machine = "grey"
)

func (m Machine) Valid() bool {
	return m == MachineWhite || m == MachineGrey
}

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}

	return false
}

// Active reports if a reservation with this status blocks its slot.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentNequi PaymentMethod = "nequi"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentNequi
}

// MinimumReservation is the shortest slot that can be booked, in minutes.
const MinimumReservation = 3 * 60

// Reservation is a booking of a washing machine.
type Reservation struct {
	DefaultModel
	Date          types.Date        `json:"date" gorm:"index:idx_reservation_slot" swaggertype:"string" example:"2024-05-14"`
	StartTime     types.Clock       `json:"start_time" example:"08:00"`
	EndTime       types.Clock       `json:"end_time" example:"11:00"`
	Machine       Machine           `json:"machine" gorm:"index:idx_reservation_slot" example:"white"`
	GuestName     string            `json:"guest_name" example:"Ana María"`
	Phone         string            `json:"phone" example:"+57 300 1234567"`
	Email         string            `json:"email" example:"ana@example.com"`
	Status        ReservationStatus `json:"status" example:"pending"`
	PaymentDone   bool              `json:"payment_done" example:"false"`
	PaymentMethod PaymentMethod     `json:"payment_method" example:"nequi"`
	Notes         string            `json:"notes" example:"Two loads of bed linen"`
}

// BeforeSave normalizes and validates the reservation.
func (r *Reservation) BeforeSave(_ *gorm.DB) error {
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Notes = strings.TrimSpace(r.Notes)

	if r.Status == "" {
		r.Status = StatusPending
	}

	if r.GuestName == "" {
		return ErrGuestNameEmpty
	}

	if r.Phone == "" {
		return ErrPhoneEmpty
	}

	if r.Date.IsZero() {
		return ErrDateMissing
	}

	if !r.Machine.Valid() {
		return ErrMachineInvalid
	}

	if !r.Status.Valid() {
		return ErrStatusInvalid
	}

	if !r.PaymentMethod.Valid() {
		return ErrPaymentMethodInvalid
	}

	return r.validateSlot()
}

func (r *Reservation) validateSlot() error {
	start, err := types.ParseClock(string(r.StartTime))
	if err != nil {
		return err
	}

	end, err := types.ParseClock(string(r.EndTime))
	if err != nil {
		return err
	}

	r.StartTime, r.EndTime = start, end

	if !start.OnTheHour() || !end.OnTheHour() {
		return ErrSlotNotOnTheHour
	}

	if end.Minutes() <= start.Minutes() {
		return ErrSlotOrder
	}

	if end.Minutes()-start.Minutes() < MinimumReservation {
		return ErrSlotTooShort
	}

	return nil
}

// BeforeCreate sets the initial state and verifies that the slot is free.
//
// The check runs in the transaction of the insert. On SQLite the single
// connection serializes bookings, on PostgreSQL a transaction-scoped
// advisory lock per date and machine does.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if err := r.DefaultModel.BeforeCreate(tx); err != nil {
		return err
	}

	r.Status = StatusPending
	r.PaymentDone = false

	db := tx.Session(&gorm.Session{NewDB: true})
	if tx.Dialector.Name() == "postgres" {
		err := db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", fmt.Sprintf("reservation:%s:%s", r.Date, r.Machine)).Error
		if err != nil {
			return err
		}
	}

	var overlapping int64
	err := db.
		Model(&Reservation{}).
		Where("date = ? AND machine = ?", r.Date, r.Machine).
		Where("status IN ?", []ReservationStatus{StatusPending, StatusConfirmed}).
		Where("start_time < ? AND end_time > ?", r.EndTime, r.StartTime).
		Count(&overlapping).Error
	if err != nil {
		return err
	}

	if overlapping > 0 {
		return ErrReservationOverlap
	}

	return nil
}
