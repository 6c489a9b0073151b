package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentals-co/servicios/internal/calculator"
	"github.com/rentals-co/servicios/internal/models"
	"github.com/rentals-co/servicios/internal/storage"
)

// Controller holds the dependencies of the v1 handlers that are not
// reached through models.DB.
type Controller struct {
	Storage       storage.Store
	MaxUploadSize int64 // Upload limit in bytes
}

// Response is the envelope of every v1 response.
type Response[T any] struct {
	Success bool   `json:"success" example:"true"`                                             // Did the request succeed?
	Data    *T     `json:"data,omitempty"`                                                     // The requested or created data
	Error   string `json:"error,omitempty" example:"invoice not found"`                        // The error, if any occurred
	Details string `json:"details,omitempty" example:"the following readings are missing: ..."` // Units and values the error refers to
}

// httpError is a Response without data.
type httpError struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"the specified resource ID is not a valid UUID"`
	Details string `json:"details,omitempty"`
}

// status returns the HTTP status for an error.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError
	case errors.Is(err, models.ErrResourceNotFound), errors.Is(err, calculator.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

func respond[T any](c *gin.Context, code int, data T) {
	c.JSON(code, Response[T]{
		Success: true,
		Data:    &data,
	})
}

func fail(c *gin.Context, err error) {
	r := httpError{Error: err.Error()}

	var calcErr *calculator.Error
	if errors.As(err, &calcErr) {
		r.Error = calcErr.Message
		r.Details = calcErr.Details
	}

	c.JSON(status(err), r)
}
