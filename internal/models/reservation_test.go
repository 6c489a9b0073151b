package models_test

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/types"
)

func reservation(date types.Date, start, end types.Clock, machine models.Machine) models.Reservation {
	return models.Reservation{
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		Machine:       machine,
		GuestName:     "Ana María",
		Phone:         "+57 300 1234567",
		PaymentMethod: models.PaymentCash,
	}
}

var may14 = types.NewDate(2024, 5, 14)

func (suite *TestSuiteStandard) TestReservationValidation() {
	tests := []struct {
		name   string
		modify func(*models.Reservation)
		err    error
	}{
		{"No guest", func(r *models.Reservation) { r.GuestName = "  " }, models.ErrGuestNameEmpty},
		{"No phone", func(r *models.Reservation) { r.Phone = "" }, models.ErrPhoneEmpty},
		{"No date", func(r *models.Reservation) { r.Date = types.Date{} }, models.ErrDateMissing},
		{"Unknown machine", func(r *models.Reservation) { r.Machine = "blue" }, models.ErrMachineInvalid},
		{"Unknown payment method", func(r *models.Reservation) { r.PaymentMethod = "card" }, models.ErrPaymentMethodInvalid},
		{"Half hour", func(r *models.Reservation) { r.StartTime = "08:30" }, models.ErrSlotNotOnTheHour},
		{"Two hours", func(r *models.Reservation) { r.EndTime = "10:00" }, models.ErrSlotTooShort},
		{"Reversed", func(r *models.Reservation) { r.StartTime, r.EndTime = "11:00", "08:00" }, models.ErrSlotOrder},
		{"Invalid time", func(r *models.Reservation) { r.EndTime = "25:00" }, types.ErrInvalidTime},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			r := reservation(may14, "08:00", "11:00", models.MachineWhite)
			tt.modify(&r)

			err := models.DB.Create(&r).Error
			suite.Assert().ErrorIs(err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestReservationCreateDefaults() {
	r := reservation(may14, "8:00", "11:00", models.MachineGrey)
	r.Status = models.StatusCompleted
	r.PaymentDone = true

	suite.Require().Nil(models.DB.Create(&r).Error)
	suite.Assert().NotEqual(uuid.Nil, r.ID)
	suite.Assert().Equal(models.StatusPending, r.Status)
	suite.Assert().False(r.PaymentDone)
	suite.Assert().Equal(types.Clock("08:00"), r.StartTime, "times are normalized")
}

func (suite *TestSuiteStandard) TestReservationOverlap() {
	first := reservation(may14, "08:00", "11:00", models.MachineWhite)
	suite.Require().Nil(models.DB.Create(&first).Error)

	overlapping := reservation(may14, "10:00", "13:00", models.MachineWhite)
	suite.Assert().ErrorIs(models.DB.Create(&overlapping).Error, models.ErrReservationOverlap)
	suite.Assert().ErrorIs(models.DB.Create(&overlapping).Error, models.ErrConflict)

	// Completed and cancelled reservations do not block their slot
	for _, status := range []models.ReservationStatus{models.StatusCompleted, models.StatusCancelled} {
		first.Status = status
		suite.Require().Nil(models.DB.Save(&first).Error)

		free := reservation(may14, "08:00", "11:00", models.MachineWhite)
		suite.Require().Nil(models.DB.Create(&free).Error, "slot is blocked for status %s", status)
		suite.Require().Nil(models.DB.Delete(&free).Error)
	}
}

func (suite *TestSuiteStandard) TestReservationConcurrentBookings() {
	const bookings = 5

	var wg sync.WaitGroup
	errs := make([]error, bookings)
	for i := range bookings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := reservation(may14, "08:00", "11:00", models.MachineWhite)
			errs[i] = models.DB.Create(&r).Error
		}()
	}
	wg.Wait()

	var created int
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		suite.Assert().ErrorIs(err, models.ErrReservationOverlap)
	}
	suite.Assert().Equal(1, created, "only one booking gets the slot")

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Reservation{}).Count(&count).Error)
	suite.Assert().Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestReservationStatus() {
	suite.Assert().True(models.StatusPending.Active())
	suite.Assert().True(models.StatusConfirmed.Active())
	suite.Assert().False(models.StatusCompleted.Active())
	suite.Assert().False(models.StatusCancelled.Active())
	suite.Assert().False(models.ReservationStatus("lost").Valid())
}
