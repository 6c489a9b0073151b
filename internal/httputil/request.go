package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rentals-co/servicios/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BindData binds the JSON body of the request to data and validates it.
func BindData(c *gin.Context, data any) error {
	err := c.ShouldBindJSON(data)
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) {
		return ErrRequestBodyEmpty
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return ValidationError(validationErrors)
	}

	var jsonUnmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &jsonUnmarshalTypeError) {
		return err
	}

	// Dates and months carry their own message with the expected format
	if errors.Is(err, types.ErrInvalidDate) || errors.Is(err, types.ErrInvalidMonth) {
		return err
	}

	log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
	return ErrInvalidBody
}

// ValidationError joins the messages for all failed validations.
func ValidationError(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, ValidationErrorToText(e))
	}
	sort.Strings(messages)

	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(messages, ", "))
}

// ValidationErrorToText returns a human readable message for a failed
// validation.
func ValidationErrorToText(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	case "email":
		return fmt.Sprintf("%s is not a valid email address", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", e.Field(), e.Param())
	}

	return fmt.Sprintf("%s is not valid", e.Field())
}

// UUIDFromString parses a UUID. The empty string is parsed to uuid.Nil.
func UUIDFromString(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return u, nil
}

// DecimalFromForm parses the form field with the given name as a decimal.
func DecimalFromForm(c *gin.Context, name string) (decimal.Decimal, error) {
	value := strings.TrimSpace(c.PostForm(name))
	if value == "" {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidRequest, name)
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %w", name, ErrInvalidNumber)
	}

	return d, nil
}
