package healthz

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/httputil"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rs/zerolog/log"
)

// pingTimeout bounds the database check.
const pingTimeout = 2 * time.Second

type Response struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error,omitempty" example:"sql: database is closed"` // The error, if the service is not healthy
}

func RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", Options)
	r.GET("", Get)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/healthz [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get health
// @Description	Pings the database and returns an error if it cannot be reached
// @Tags			General
// @Produce		json
// @Success		204
// @Failure		500	{object}	Response
// @Router			/healthz [get]
func Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	sqlDB, err := models.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}

	if err != nil {
		log.Error().Str("driver", models.DB.Dialector.Name()).Err(err).Msg("healthz")
		c.JSON(http.StatusInternalServerError, Response{Error: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
