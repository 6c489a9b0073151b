package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/calculator"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rs/zerolog/log"
)

type CalculateRequest struct {
	InvoiceID string `json:"invoiceId" example:"4b4a1a4d-4b5e-4a2c-9d0a-7f3c2b1e9a10"` // ID of the invoice to allocate
}

func (co Controller) RegisterCalculateRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCalculate)
	r.POST("", co.Calculate)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Calculation
// @Success		204
// @Router			/v1/calculate [options]
func OptionsCalculate(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Calculate allocations
// @Description	Splits all charges of an invoice across the units of its meter group and saves one allocation per unit.
// @Description	Existing allocations of the invoice are replaced.
// @Tags			Calculation
// @Accept			json
// @Produce		json
// @Success		200		{object}	Response[calculator.Result]
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			request	body		CalculateRequest	true	"Invoice"
// @Router			/v1/calculate [post]
func (co Controller) Calculate(c *gin.Context) {
	var request CalculateRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		fail(c, err)
		return
	}

	if strings.TrimSpace(request.InvoiceID) == "" {
		fail(c, errInvoiceIDMissing)
		return
	}

	invoiceID, err := httputil.UUIDFromString(strings.TrimSpace(request.InvoiceID))
	if err != nil {
		fail(c, err)
		return
	}

	service := calculator.NewService(calculator.NewStore(models.DB))
	result, err := service.Calculate(c.Request.Context(), invoiceID)
	if err != nil {
		var calcErr *calculator.Error
		if errors.As(err, &calcErr) {
			fail(c, err)
			return
		}

		log.Error().Str("request-id", requestid.Get(c)).Str("invoice", invoiceID.String()).Msgf("%T: %v", err, err.Error())
		c.JSON(http.StatusInternalServerError, httpError{
			Error:   "the allocations could not be calculated",
			Details: err.Error(),
		})
		return
	}

	respond(c, http.StatusOK, result)
}
