package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/types"
	"golang.org/x/exp/slices"
)

// ReservationEditable are the fields a guest sets when booking.
type ReservationEditable struct {
	Date          types.Date           `json:"date" swaggertype:"string" example:"2024-05-14"`                   // Day of the reservation
	StartTime     types.Clock          `json:"start_time" binding:"required" example:"08:00"`                    // Start, on the full hour
	EndTime       types.Clock          `json:"end_time" binding:"required" example:"11:00"`                      // End, on the full hour
	Machine       models.Machine       `json:"machine" binding:"required,oneof=white grey" example:"white"`      // The washing machine
	GuestName     string               `json:"guest_name" binding:"required,max=120" example:"Ana María"`        // Name of the guest
	Phone         string               `json:"phone" binding:"required,max=30" example:"+57 300 1234567"`        // Phone number of the guest
	Email         string               `json:"email" binding:"omitempty,email" example:"ana@example.com"`        // Email address of the guest
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required,oneof=cash nequi" example:"cash"` // How the guest pays
	Notes         string               `json:"notes" binding:"max=500" example:"Two loads of bed linen"`         // Notes for the host
}

func (e ReservationEditable) model() models.Reservation {
	return models.Reservation{
		Date:          e.Date,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Machine:       e.Machine,
		GuestName:     e.GuestName,
		Phone:         e.Phone,
		Email:         e.Email,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
	}
}

// ReservationUpdate are the fields the host changes after booking.
// Fields that are not set are left untouched.
type ReservationUpdate struct {
	Status      *models.ReservationStatus `json:"status" example:"confirmed"`  // New status
	PaymentDone *bool                     `json:"payment_done" example:"true"` // Has the guest paid?
	Notes       *string                   `json:"notes" binding:"omitempty,max=500"`
}

type ReservationQueryFilter struct {
	From    types.Date                 `form:"from"`    // Reservations on or after this date
	Until   types.Date                 `form:"until"`   // Reservations on or before this date
	Machine models.Machine             `form:"machine"` // By machine
	Status  []models.ReservationStatus `form:"status"`  // By status, defaults to pending and confirmed
}

func (co Controller) RegisterReservationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsReservationList)
		r.GET("", GetReservations)
		r.POST("", CreateReservation)
	}

	// Reservation with ID
	{
		r.OPTIONS("/:id", OptionsReservationDetail)
		r.GET("/:id", GetReservation)
		r.PATCH("/:id", UpdateReservation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reservations
// @Success		204
// @Router			/v1/reservations [options]
func OptionsReservationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reservations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reservations/{id} [options]
func OptionsReservationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.First(&models.Reservation{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGetPatch(c)
}

// @Summary		Get reservations
// @Description	Returns reservations ordered by date and start time
// @Tags			Reservations
// @Produce		json
// @Success		200		{object}	Response[[]models.Reservation]
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			from	query		string		false	"First day (YYYY-MM-DD)"
// @Param			until	query		string		false	"Last day (YYYY-MM-DD)"
// @Param			machine	query		string		false	"Filter by machine"
// @Param			status	query		[]string	false	"Filter by status, defaults to pending and confirmed"
// @Router			/v1/reservations [get]
func GetReservations(c *gin.Context) {
	var filter ReservationQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		fail(c, err)
		return
	}

	if len(filter.Status) == 0 {
		filter.Status = []models.ReservationStatus{models.StatusPending, models.StatusConfirmed}
	}

	if i := slices.IndexFunc(filter.Status, func(s models.ReservationStatus) bool { return !s.Valid() }); i >= 0 {
		fail(c, models.ErrStatusInvalid)
		return
	}

	q := models.DB.
		Where("status IN ?", filter.Status).
		Order("date ASC").
		Order("start_time ASC")

	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}

	if !filter.Until.IsZero() {
		q = q.Where("date <= ?", filter.Until)
	}

	if filter.Machine != "" {
		if !filter.Machine.Valid() {
			fail(c, models.ErrMachineInvalid)
			return
		}
		q = q.Where("machine = ?", filter.Machine)
	}

	reservations := make([]models.Reservation, 0)
	err = q.Find(&reservations).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, reservations)
}

// @Summary		Get reservation
// @Description	Returns a specific reservation
// @Tags			Reservations
// @Produce		json
// @Success		200	{object}	Response[models.Reservation]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/reservations/{id} [get]
func GetReservation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	var reservation models.Reservation
	err = models.DB.First(&reservation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, reservation)
}

// @Summary		Create reservation
// @Description	Books a washing machine. Slots start and end on the full hour and last at least three hours.
// @Description	New reservations are pending and unpaid.
// @Tags			Reservations
// @Accept			json
// @Produce		json
// @Success		201			{object}	Response[models.Reservation]
// @Failure		400			{object}	httpError
// @Failure		409			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			reservation	body		ReservationEditable	true	"Reservation"
// @Router			/v1/reservations [post]
func CreateReservation(c *gin.Context) {
	var editable ReservationEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		fail(c, err)
		return
	}

	reservation := editable.model()
	err = models.DB.Create(&reservation).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, reservation)
}

// @Summary		Update reservation
// @Description	Updates the status, payment state or notes of a reservation. Only values to be updated need to be specified.
// @Tags			Reservations
// @Accept			json
// @Produce		json
// @Success		200			{object}	Response[models.Reservation]
// @Failure		400			{object}	httpError
// @Failure		404			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			reservation	body		ReservationUpdate	true	"Reservation"
// @Router			/v1/reservations/{id} [patch]
func UpdateReservation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	var reservation models.Reservation
	err = models.DB.First(&reservation, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	var update ReservationUpdate
	err = httputil.BindData(c, &update)
	if err != nil {
		fail(c, err)
		return
	}

	if update.Status != nil {
		reservation.Status = *update.Status
	}

	if update.PaymentDone != nil {
		reservation.PaymentDone = *update.PaymentDone
	}

	if update.Notes != nil {
		reservation.Notes = *update.Notes
	}

	err = models.DB.Save(&reservation).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, reservation)
}
