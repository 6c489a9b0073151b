package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/rentals-co/servicios/internal/controllers/v1"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/rentals-co/servicios/test"
	"github.com/stretchr/testify/assert"
)

func booking(date, start, end string, machine models.Machine) v1.ReservationEditable {
	d, _ := types.ParseDate(date)

	return v1.ReservationEditable{
		Date:          d,
		StartTime:     types.Clock(start),
		EndTime:       types.Clock(end),
		Machine:       machine,
		GuestName:     "Ana María",
		Phone:         "+57 300 1234567",
		PaymentMethod: models.PaymentNequi,
	}
}

func createReservation(t *testing.T, body any, expectedStatus ...int) v1.Response[models.Reservation] {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/reservations", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.Response[models.Reservation]
	test.DecodeResponse(t, &r, &response)

	return response
}

func patchReservation(t *testing.T, id any, body any, expectedStatus int) v1.Response[models.Reservation] {
	r := test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/reservations/%v", id), body)
	test.AssertHTTPStatus(t, &r, expectedStatus)

	var response v1.Response[models.Reservation]
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestReservationsCreate() {
	response := createReservation(suite.T(), booking("2024-05-14", "08:00", "11:00", models.MachineWhite))
	suite.Require().True(response.Success)

	reservation := response.Data
	suite.Assert().Equal(models.StatusPending, reservation.Status)
	suite.Assert().False(reservation.PaymentDone)
	suite.Assert().Equal("2024-05-14", reservation.Date.String())
	suite.Assert().Equal(types.Clock("08:00"), reservation.StartTime)

	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/reservations/%s", reservation.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
}

func (suite *TestSuiteStandard) TestReservationsCreateIgnoresStatus() {
	body := `{
		"date": "2024-05-14", "start_time": "08:00", "end_time": "11:00", "machine": "grey",
		"guest_name": "Ana", "phone": "300", "payment_method": "cash",
		"status": "confirmed", "payment_done": true
	}`

	response := createReservation(suite.T(), body)
	suite.Assert().Equal(models.StatusPending, response.Data.Status)
	suite.Assert().False(response.Data.PaymentDone)
}

func (suite *TestSuiteStandard) TestReservationsOverlap() {
	createReservation(suite.T(), booking("2024-05-14", "08:00", "11:00", models.MachineWhite))

	tests := []struct {
		name    string
		booking v1.ReservationEditable
		status  int
	}{
		{"Same slot", booking("2024-05-14", "08:00", "11:00", models.MachineWhite), http.StatusConflict},
		{"Overlapping start", booking("2024-05-14", "10:00", "13:00", models.MachineWhite), http.StatusConflict},
		{"Contained", booking("2024-05-14", "07:00", "12:00", models.MachineWhite), http.StatusConflict},
		{"Adjacent", booking("2024-05-14", "11:00", "14:00", models.MachineWhite), http.StatusCreated},
		{"Other machine", booking("2024-05-14", "08:00", "11:00", models.MachineGrey), http.StatusCreated},
		{"Other day", booking("2024-05-15", "08:00", "11:00", models.MachineWhite), http.StatusCreated},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := createReservation(t, tt.booking, tt.status)
			if tt.status == http.StatusConflict {
				assert.Equal(t, models.ErrReservationOverlap.Error(), response.Error)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestReservationsCancelledFreesSlot() {
	first := createReservation(suite.T(), booking("2024-05-14", "08:00", "11:00", models.MachineWhite))

	patchReservation(suite.T(), first.Data.ID, map[string]any{"status": models.StatusCancelled}, http.StatusOK)

	createReservation(suite.T(), booking("2024-05-14", "09:00", "12:00", models.MachineWhite))
}

func (suite *TestSuiteStandard) TestReservationsCreateFails() {
	tests := []struct {
		name string
		body any
		err  string
	}{
		{"Too short", booking("2024-05-14", "08:00", "10:00", models.MachineWhite), models.ErrSlotTooShort.Error()},
		{"Not on the hour", booking("2024-05-14", "08:30", "11:30", models.MachineWhite), models.ErrSlotNotOnTheHour.Error()},
		{"End before start", booking("2024-05-14", "14:00", "11:00", models.MachineWhite), models.ErrSlotOrder.Error()},
		{"Invalid time", booking("2024-05-14", "8am", "11:00", models.MachineWhite), "could not parse the time of day"},
		{"Unknown machine", booking("2024-05-14", "08:00", "11:00", "blue"), "must be one of white grey"},
		{"No date", booking("", "08:00", "11:00", models.MachineWhite), models.ErrDateMissing.Error()},
		{"Invalid date", `{ "date": "14/05/2024", "start_time": "08:00" }`, "could not parse the date"},
		{"Missing fields", `{ "date": "2024-05-14" }`, "GuestName is required"},
		{"Invalid email", func() v1.ReservationEditable {
			b := booking("2024-05-14", "08:00", "11:00", models.MachineWhite)
			b.Email = "ana"
			return b
		}(), "Email is not a valid email address"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			response := createReservation(t, tt.body, http.StatusBadRequest)
			assert.False(t, response.Success)
			assert.Contains(t, response.Error, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestReservationsGet() {
	createReservation(suite.T(), booking("2024-05-15", "08:00", "11:00", models.MachineWhite))
	createReservation(suite.T(), booking("2024-05-14", "14:00", "17:00", models.MachineGrey))
	createReservation(suite.T(), booking("2024-05-14", "08:00", "11:00", models.MachineWhite))
	cancelled := createReservation(suite.T(), booking("2024-05-20", "08:00", "11:00", models.MachineGrey))
	patchReservation(suite.T(), cancelled.Data.ID, map[string]any{"status": models.StatusCancelled}, http.StatusOK)

	tests := []struct {
		name   string
		query  string
		expect []string // date and start time
	}{
		{"Active by default, ordered", "", []string{"2024-05-14 08:00", "2024-05-14 14:00", "2024-05-15 08:00"}},
		{"By machine", "machine=grey", []string{"2024-05-14 14:00"}},
		{"From", "from=2024-05-15", []string{"2024-05-15 08:00"}},
		{"Until", "until=2024-05-14", []string{"2024-05-14 08:00", "2024-05-14 14:00"}},
		{"Cancelled", "status=cancelled", []string{"2024-05-20 08:00"}},
		{"Several states", "status=cancelled&status=pending&from=2024-05-15", []string{"2024-05-15 08:00", "2024-05-20 08:00"}},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/reservations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.Response[[]models.Reservation]
			test.DecodeResponse(t, &r, &response)

			slots := make([]string, 0)
			for _, res := range *response.Data {
				slots = append(slots, fmt.Sprintf("%s %s", res.Date, res.StartTime))
			}
			assert.Equal(t, tt.expect, slots)
		})
	}
}

func (suite *TestSuiteStandard) TestReservationsGetInvalidFilter() {
	for _, query := range []string{"status=done", "machine=blue", "from=yesterday"} {
		suite.T().Run(query, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/reservations?%s", query), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestReservationsUpdate() {
	created := createReservation(suite.T(), booking("2024-05-14", "08:00", "11:00", models.MachineWhite))

	response := patchReservation(suite.T(), created.Data.ID, map[string]any{"status": models.StatusConfirmed, "payment_done": true}, http.StatusOK)
	suite.Assert().Equal(models.StatusConfirmed, response.Data.Status)
	suite.Assert().True(response.Data.PaymentDone)
	suite.Assert().Equal("Ana María", response.Data.GuestName, "fields that are not set are kept")

	response = patchReservation(suite.T(), created.Data.ID, map[string]any{"notes": " Llega a las 8 "}, http.StatusOK)
	suite.Assert().Equal("Llega a las 8", response.Data.Notes)
	suite.Assert().Equal(models.StatusConfirmed, response.Data.Status)

	response = patchReservation(suite.T(), created.Data.ID, map[string]any{"status": "lost"}, http.StatusBadRequest)
	suite.Assert().Equal(models.ErrStatusInvalid.Error(), response.Error)

	patchReservation(suite.T(), "0f4c8e8a-93a7-4bd4-8d43-6f1c0cfe2a11", map[string]any{"status": "confirmed"}, http.StatusNotFound)
}
