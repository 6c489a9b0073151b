package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/uuid"
)

type MeterGroupUnitQueryFilter struct {
	MeterGroupID uuid.UUID `form:"meterGroup"` // By ID of the meter group
	UnitID       uuid.UUID `form:"unit"`       // By ID of the unit
}

func (co Controller) RegisterMeterGroupUnitRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsMeterGroupUnitList)
	r.GET("", GetMeterGroupUnits)
	r.POST("", CreateMeterGroupUnit)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Meter Groups
// @Success		204
// @Router			/v1/meter-group-units [options]
func OptionsMeterGroupUnitList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get meter group units
// @Description	Returns the units of meter groups together with their weight
// @Tags			Meter Groups
// @Produce		json
// @Success		200			{object}	Response[[]models.MeterGroupUnit]
// @Failure		400			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			meterGroup	query		string	false	"Filter by meter group ID"
// @Param			unit		query		string	false	"Filter by unit ID"
// @Router			/v1/meter-group-units [get]
func GetMeterGroupUnits(c *gin.Context) {
	var filter MeterGroupUnitQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		fail(c, err)
		return
	}

	q := models.DB.Preload("Unit").Order("created_at ASC")
	if !filter.MeterGroupID.IsNil() {
		q = q.Where("meter_group_id = ?", filter.MeterGroupID.UUID)
	}

	if !filter.UnitID.IsNil() {
		q = q.Where("unit_id = ?", filter.UnitID.UUID)
	}

	memberships := make([]models.MeterGroupUnit, 0)
	err = q.Find(&memberships).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, memberships)
}

// @Summary		Add unit to meter group
// @Description	Adds a unit to a meter group. The weight is used for EQUAL_SPLIT charges.
// @Tags			Meter Groups
// @Accept			json
// @Produce		json
// @Success		201				{object}	Response[models.MeterGroupUnit]
// @Failure		400				{object}	httpError
// @Failure		409				{object}	httpError
// @Failure		500				{object}	httpError
// @Param			meterGroupUnit	body		models.MeterGroupUnitEditable	true	"Membership"
// @Router			/v1/meter-group-units [post]
func CreateMeterGroupUnit(c *gin.Context) {
	var editable models.MeterGroupUnitEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		fail(c, err)
		return
	}

	membership := models.MeterGroupUnit{MeterGroupUnitEditable: editable}
	err = models.DB.Create(&membership).Error
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.Preload("Unit").First(&membership, "id = ?", membership.ID).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, membership)
}
