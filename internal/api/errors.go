// Package api wires the HTTP surface: routes, request validation, and the
// error-to-status mapping.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/rastreapp/fleet-api/internal/db"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Validator adapts go-playground/validator to echo's Validate hook.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates the request validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// NewErrorHandler builds the central echo error handler. Storage errors map
// onto the response taxonomy here so the handlers only return them. Internal
// error details are hidden in production.
func NewErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var dup *db.DuplicateKeyError
		var validationErrs validator.ValidationErrors
		var httpErr *echo.HTTPError
		switch {
		case errors.Is(err, db.ErrNotFound):
			status = http.StatusNotFound
			message = "resource not found"
		case errors.As(err, &dup):
			status = http.StatusBadRequest
			message = fmt.Sprintf("a record with this %s already exists", dup.Field)
		case errors.As(err, &validationErrs):
			status = http.StatusBadRequest
			message = validationMessage(validationErrs)
		case errors.As(err, &httpErr):
			status = httpErr.Code
			message = fmt.Sprintf("%v", httpErr.Message)
		default:
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
			if !production {
				message = err.Error()
			}
		}

		if sendErr := c.JSON(status, ErrorResponse{Success: false, Error: message}); sendErr != nil {
			log.WithError(sendErr).Error("failed to write error response")
		}
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return "validation failed: " + strings.Join(fields, ", ")
}
