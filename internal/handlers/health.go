package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	version     string
	environment string
}

// NewHealthHandler creates a health handler reporting the given build info.
func NewHealthHandler(version, environment string) *HealthHandler {
	return &HealthHandler{version: version, environment: environment}
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Check reports the service as up.
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Version:     h.version,
		Environment: h.environment,
	})
}
