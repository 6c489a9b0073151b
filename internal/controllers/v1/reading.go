package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/storage"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/rentals-co/servicios/internal/uuid"
)

// Reading is a meter reading with the address of its photo.
type Reading struct {
	models.MeterReading
	PhotoURL string `json:"photo_url" example:"https://example.com/files/readings/1714600000000_medidor.jpg"` // Download address of the photo
}

type ReadingQueryFilter struct {
	MeterGroupID uuid.UUID   `form:"meterGroup"` // By ID of the meter group
	UnitID       uuid.UUID   `form:"unit"`       // By ID of the unit
	Period       types.Month `form:"period"`     // By period, YYYY-MM
}

func (co Controller) RegisterReadingRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsReadingList)
	r.GET("", co.GetReadings)
	r.POST("", co.CreateReading)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Readings
// @Success		204
// @Router			/v1/readings [options]
func OptionsReadingList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get readings
// @Description	Returns meter readings, the most recent period first
// @Tags			Readings
// @Produce		json
// @Success		200			{object}	Response[[]Reading]
// @Failure		400			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			meterGroup	query		string	false	"Filter by meter group ID"
// @Param			unit		query		string	false	"Filter by unit ID"
// @Param			period		query		string	false	"Filter by period (YYYY-MM)"
// @Router			/v1/readings [get]
func (co Controller) GetReadings(c *gin.Context) {
	var filter ReadingQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		fail(c, err)
		return
	}

	q := models.DB.
		Preload("MeterGroup").
		Preload("Unit").
		Order("period DESC").
		Order("created_at ASC")

	if !filter.MeterGroupID.IsNil() {
		q = q.Where("meter_group_id = ?", filter.MeterGroupID.UUID)
	}

	if !filter.UnitID.IsNil() {
		q = q.Where("unit_id = ?", filter.UnitID.UUID)
	}

	if !filter.Period.IsZero() {
		q = q.Where("period = ?", filter.Period)
	}

	var readings []models.MeterReading
	err = q.Find(&readings).Error
	if err != nil {
		fail(c, err)
		return
	}

	data := make([]Reading, 0, len(readings))
	for _, reading := range readings {
		data = append(data, co.newReading(reading))
	}

	respond(c, http.StatusOK, data)
}

// @Summary		Upload reading
// @Description	Stores the reading of a unit's meter for a month together with a photo of the meter
// @Tags			Readings
// @Accept			multipart/form-data
// @Produce		json
// @Success		201				{object}	Response[Reading]
// @Failure		400				{object}	httpError
// @Failure		409				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			meterGroupId	formData	string	true	"ID of the meter group"
// @Param			unitId			formData	string	true	"ID of the unit"
// @Param			period			formData	string	true	"Period (YYYY-MM)"
// @Param			readingValue	formData	number	true	"Value shown by the meter"
// @Param			photo			formData	file	true	"Photo of the meter, JPEG, PNG, WebP or PDF"
// @Router			/v1/readings [post]
func (co Controller) CreateReading(c *gin.Context) {
	reading, err := readingFromForm(c)
	if err != nil {
		fail(c, err)
		return
	}

	photo, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		fail(c, fmt.Errorf("%w: photo", errFieldsMissing))
		return
	} else if err != nil {
		fail(c, err)
		return
	}

	reading.PhotoPath, err = storage.Upload(c.Request.Context(), co.Storage, storage.FolderReadings, photo, co.MaxUploadSize)
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.Create(&reading).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, co.newReading(reading))
}

// readingFromForm parses and validates the form fields of a reading.
func readingFromForm(c *gin.Context) (models.MeterReading, error) {
	var missing []string
	for _, field := range []string{"meterGroupId", "unitId", "period"} {
		if strings.TrimSpace(c.PostForm(field)) == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return models.MeterReading{}, fmt.Errorf("%w: %s", errFieldsMissing, strings.Join(missing, ", "))
	}

	meterGroupID, err := httputil.UUIDFromString(strings.TrimSpace(c.PostForm("meterGroupId")))
	if err != nil {
		return models.MeterReading{}, err
	}

	unitID, err := httputil.UUIDFromString(strings.TrimSpace(c.PostForm("unitId")))
	if err != nil {
		return models.MeterReading{}, err
	}

	period, err := types.ParseMonth(c.PostForm("period"))
	if err != nil {
		return models.MeterReading{}, err
	}

	value, err := httputil.DecimalFromForm(c, "readingValue")
	if err != nil {
		return models.MeterReading{}, err
	}

	if value.IsNegative() {
		return models.MeterReading{}, models.ErrReadingNegative
	}

	return models.MeterReading{
		MeterGroupID: meterGroupID,
		UnitID:       unitID,
		Period:       period,
		Value:        value,
	}, nil
}

func (co Controller) newReading(reading models.MeterReading) Reading {
	r := Reading{MeterReading: reading}
	if reading.PhotoPath != "" {
		r.PhotoURL = co.Storage.URL(reading.PhotoPath)
	}

	return r
}
