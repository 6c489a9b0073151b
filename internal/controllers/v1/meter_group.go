package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/uuid"
)

type MeterGroupQueryFilter struct {
	Code   string    `form:"code"` // By code
	UnitID uuid.UUID `form:"unit"` // Only meter groups the unit is part of
}

func (co Controller) RegisterMeterGroupRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsMeterGroupList)
		r.GET("", GetMeterGroups)
		r.POST("", CreateMeterGroup)
	}

	// Meter group with ID
	{
		r.OPTIONS("/:id", OptionsMeterGroupDetail)
		r.GET("/:id", GetMeterGroup)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Meter Groups
// @Success		204
// @Router			/v1/meter-groups [options]
func OptionsMeterGroupList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Meter Groups
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/meter-groups/{id} [options]
func OptionsMeterGroupDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.First(&models.MeterGroup{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get meter groups
// @Description	Returns a list of meter groups in the order they were created
// @Tags			Meter Groups
// @Produce		json
// @Success		200		{object}	Response[[]models.MeterGroup]
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			code	query		string	false	"Filter by code"
// @Param			unit	query		string	false	"Filter by ID of a unit in the meter group"
// @Router			/v1/meter-groups [get]
func GetMeterGroups(c *gin.Context) {
	var filter MeterGroupQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		fail(c, err)
		return
	}

	q := models.DB.Order("created_at ASC")
	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}

	if !filter.UnitID.IsNil() {
		q = q.Where("id IN (?)", models.DB.Model(&models.MeterGroupUnit{}).Select("meter_group_id").Where("unit_id = ?", filter.UnitID.UUID))
	}

	groups := make([]models.MeterGroup, 0)
	err = q.Find(&groups).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, groups)
}

// @Summary		Get meter group
// @Description	Returns a specific meter group
// @Tags			Meter Groups
// @Produce		json
// @Success		200	{object}	Response[models.MeterGroup]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/meter-groups/{id} [get]
func GetMeterGroup(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	var group models.MeterGroup
	err = models.DB.First(&group, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, group)
}

// @Summary		Create meter group
// @Description	Creates a new meter group
// @Tags			Meter Groups
// @Accept			json
// @Produce		json
// @Success		201			{object}	Response[models.MeterGroup]
// @Failure		400			{object}	httpError
// @Failure		409			{object}	httpError
// @Failure		500			{object}	httpError
// @Param			meterGroup	body		models.MeterGroupEditable	true	"Meter group"
// @Router			/v1/meter-groups [post]
func CreateMeterGroup(c *gin.Context) {
	var editable models.MeterGroupEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		fail(c, err)
		return
	}

	group := models.MeterGroup{MeterGroupEditable: editable}
	err = models.DB.Create(&group).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, group)
}
