package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

type UnitQueryFilter struct {
	ID   uuid.UUID `form:"id"`   // By ID
	Code string    `form:"code"` // By code. Supports * as wildcard, e.g. LOCAL_*
}

func (co Controller) RegisterUnitRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsUnitList)
		r.GET("", GetUnits)
		r.POST("", CreateUnit)
	}

	// Unit with ID
	{
		r.OPTIONS("/:id", OptionsUnitDetail)
		r.GET("/:id", GetUnit)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Units
// @Success		204
// @Router			/v1/units [options]
func OptionsUnitList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Units
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [options]
func OptionsUnitDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	err = models.DB.First(&models.Unit{}, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get units
// @Description	Returns a list of units ordered by code
// @Tags			Units
// @Produce		json
// @Success		200		{object}	Response[[]models.Unit]
// @Failure		400		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		query		string	false	"Filter by ID"
// @Param			code	query		string	false	"Filter by code, * matches any characters"
// @Router			/v1/units [get]
func GetUnits(c *gin.Context) {
	var filter UnitQueryFilter
	err := c.ShouldBindQuery(&filter)
	if err != nil {
		fail(c, err)
		return
	}

	q := models.DB.Order("code ASC")
	if !filter.ID.IsNil() {
		q = q.Where("id = ?", filter.ID.UUID)
	}

	units := make([]models.Unit, 0)
	err = q.Find(&units).Error
	if err != nil {
		fail(c, err)
		return
	}

	if filter.Code != "" {
		units = slices.DeleteFunc(units, func(u models.Unit) bool {
			return !glob.Glob(filter.Code, u.Code)
		})
	}

	respond(c, http.StatusOK, units)
}

// @Summary		Get unit
// @Description	Returns a specific unit
// @Tags			Units
// @Produce		json
// @Success		200	{object}	Response[models.Unit]
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/units/{id} [get]
func GetUnit(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		fail(c, err)
		return
	}

	var unit models.Unit
	err = models.DB.First(&unit, "id = ?", uri.ID.UUID).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, unit)
}

// @Summary		Create unit
// @Description	Creates a new unit
// @Tags			Units
// @Accept			json
// @Produce		json
// @Success		201		{object}	Response[models.Unit]
// @Failure		400		{object}	httpError
// @Failure		409		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			unit	body		models.UnitEditable	true	"Unit"
// @Router			/v1/units [post]
func CreateUnit(c *gin.Context) {
	var editable models.UnitEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		fail(c, err)
		return
	}

	unit := models.Unit{UnitEditable: editable}
	err = models.DB.Create(&unit).Error
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusCreated, unit)
}
