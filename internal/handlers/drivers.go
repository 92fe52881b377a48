package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rastreapp/fleet-api/internal/cache"
	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/models"
	"github.com/rastreapp/fleet-api/internal/service"
)

// DriverHandler serves the driver endpoints.
type DriverHandler struct {
	drivers    db.DriverCollection
	assignment *service.Assignment
	cache      *cache.Cache
	invalidate *cache.Group
}

// NewDriverHandler creates a new driver handler.
func NewDriverHandler(drivers db.DriverCollection, assignment *service.Assignment, listCache *cache.Cache, invalidate *cache.Group) *DriverHandler {
	return &DriverHandler{drivers: drivers, assignment: assignment, cache: listCache, invalidate: invalidate}
}

// List returns a filtered, paginated page of drivers.
func (h *DriverHandler) List(c echo.Context) error {
	var filters models.DriverFilters
	if err := c.Bind(&filters); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&filters); err != nil {
		return err
	}
	filters.Normalize()

	key := cache.Key("drivers", c.QueryString())
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	drivers, total, err := h.drivers.List(c.Request().Context(), filters)
	if err != nil {
		return err
	}

	pagination := models.NewPagination(filters.Page, filters.Limit, total)
	response := ListResponse{
		Items: models.NewDriverViews(drivers),
		Pagination: PaginationPayload{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: pagination.Total,
			Pages: pagination.Pages,
		},
	}

	h.cache.Set(key, response)
	return c.JSON(http.StatusOK, response)
}

// Available returns all drivers ready for assignment.
func (h *DriverHandler) Available(c echo.Context) error {
	drivers, err := h.drivers.FindAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverViews(drivers))
}

// GetByID returns a single driver.
func (h *DriverHandler) GetByID(c echo.Context) error {
	driver, err := h.drivers.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

// Create inserts a new driver.
func (h *DriverHandler) Create(c echo.Context) error {
	var driver models.Driver
	if err := c.Bind(&driver); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&driver); err != nil {
		return err
	}

	created, err := h.drivers.Insert(c.Request().Context(), driver)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusCreated, models.NewDriverView(*created))
}

// Update applies a partial update to a driver.
func (h *DriverHandler) Update(c echo.Context) error {
	var update models.DriverUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&update); err != nil {
		return err
	}

	driver, err := h.drivers.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

// Delete removes a driver.
func (h *DriverHandler) Delete(c echo.Context) error {
	if err := h.drivers.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	h.invalidate.Clear()
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "driver deleted"})
}

// Stats returns per-status driver counts with fleet-wide aggregates.
func (h *DriverHandler) Stats(c echo.Context) error {
	key := cache.Key("drivers:stats:status", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	stats, err := h.drivers.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	h.cache.Set(key, stats)
	return c.JSON(http.StatusOK, stats)
}

// ByStatus returns drivers with the given status.
func (h *DriverHandler) ByStatus(c echo.Context) error {
	status := models.DriverStatus(c.Param("status"))
	if !models.IsValidDriverStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	drivers, err := h.drivers.FindByStatus(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverViews(drivers))
}

// TopRated returns the highest rated drivers.
func (h *DriverHandler) TopRated(c echo.Context) error {
	drivers, err := h.drivers.TopRated(c.Request().Context(), queryLimit(c, 10))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverViews(drivers))
}

// Experienced returns the drivers with the most deliveries.
func (h *DriverHandler) Experienced(c echo.Context) error {
	drivers, err := h.drivers.MostExperienced(c.Request().Context(), queryLimit(c, 10))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverViews(drivers))
}

// Search returns drivers matching the search term.
func (h *DriverHandler) Search(c echo.Context) error {
	drivers, err := h.drivers.Search(c.Request().Context(), c.Param("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverViews(drivers))
}

type assignVehicleRequest struct {
	VehicleID string `json:"vehicleId" validate:"required"`
}

// AssignVehicle pairs a vehicle with the driver. Both documents are updated.
func (h *DriverHandler) AssignVehicle(c echo.Context) error {
	var req assignVehicleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	driver, err := h.assignment.AssignVehicleToDriver(c.Request().Context(), c.Param("id"), req.VehicleID)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

// Release frees the driver and their linked vehicle.
func (h *DriverHandler) Release(c echo.Context) error {
	driver, err := h.assignment.ReleaseDriver(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

// OffDuty marks the driver off shift, detaching any vehicle reference.
func (h *DriverHandler) OffDuty(c echo.Context) error {
	driver, err := h.drivers.MarkOffDuty(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

// Suspend bars the driver from assignment.
func (h *DriverHandler) Suspend(c echo.Context) error {
	driver, err := h.drivers.Suspend(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

type updateRatingRequest struct {
	Rating *float64 `json:"rating" validate:"required"`
}

// Rating sets the driver rating, clamped to the valid range.
func (h *DriverHandler) Rating(c echo.Context) error {
	var req updateRatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	driver, err := h.drivers.UpdateRating(c.Request().Context(), c.Param("id"), *req.Rating)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}

type recordDeliveryRequest struct {
	OnTime bool `json:"onTime"`
}

// RecordDelivery increments the driver delivery counters.
func (h *DriverHandler) RecordDelivery(c echo.Context) error {
	var req recordDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	driver, err := h.drivers.RecordDelivery(c.Request().Context(), c.Param("id"), req.OnTime)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewDriverView(*driver))
}
