package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rastreapp/fleet-api/internal/cache"
	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/models"
	"github.com/rastreapp/fleet-api/internal/service"
)

// VehicleHandler serves the vehicle endpoints.
type VehicleHandler struct {
	vehicles   db.VehicleCollection
	assignment *service.Assignment
	cache      *cache.Cache
	invalidate *cache.Group
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicles db.VehicleCollection, assignment *service.Assignment, listCache *cache.Cache, invalidate *cache.Group) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, assignment: assignment, cache: listCache, invalidate: invalidate}
}

// List returns a filtered, paginated page of vehicles.
func (h *VehicleHandler) List(c echo.Context) error {
	var filters models.VehicleFilters
	if err := c.Bind(&filters); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&filters); err != nil {
		return err
	}
	filters.Normalize()

	key := cache.Key("vehicles", c.QueryString())
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	vehicles, total, err := h.vehicles.List(c.Request().Context(), filters)
	if err != nil {
		return err
	}

	pagination := models.NewPagination(filters.Page, filters.Limit, total)
	response := ListResponse{
		Items: models.NewVehicleViews(vehicles, time.Now()),
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

// Available returns all vehicles ready for assignment.
func (h *VehicleHandler) Available(c echo.Context) error {
	vehicles, err := h.vehicles.FindAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewVehicleViews(vehicles, time.Now()))
}

// GetByID returns a single vehicle.
func (h *VehicleHandler) GetByID(c echo.Context) error {
	vehicle, err := h.vehicles.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}

// Create inserts a new vehicle.
func (h *VehicleHandler) Create(c echo.Context) error {
	var vehicle models.Vehicle
	if err := c.Bind(&vehicle); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&vehicle); err != nil {
		return err
	}

	created, err := h.vehicles.Insert(c.Request().Context(), vehicle)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusCreated, models.NewVehicleView(*created, time.Now()))
}

// Update applies a partial update to a vehicle.
func (h *VehicleHandler) Update(c echo.Context) error {
	var update models.VehicleUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&update); err != nil {
		return err
	}

	vehicle, err := h.vehicles.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}

// Delete removes a vehicle.
func (h *VehicleHandler) Delete(c echo.Context) error {
	if err := h.vehicles.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	h.invalidate.Clear()
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "vehicle deleted"})
}

// Stats returns per-status vehicle counts.
func (h *VehicleHandler) Stats(c echo.Context) error {
	key := cache.Key("vehicles:stats:status", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	stats, err := h.vehicles.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	h.cache.Set(key, stats)
	return c.JSON(http.StatusOK, stats)
}

// ByType returns vehicles of the given type.
func (h *VehicleHandler) ByType(c echo.Context) error {
	vehicleType := models.VehicleType(c.Param("type"))
	if !models.IsValidVehicleType(vehicleType) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vehicle type")
	}
	vehicles, err := h.vehicles.FindByType(c.Request().Context(), vehicleType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewVehicleViews(vehicles, time.Now()))
}

// Maintenance returns vehicles in maintenance or due within the soon window.
func (h *VehicleHandler) Maintenance(c echo.Context) error {
	now := time.Now()
	vehicles, err := h.vehicles.FindNeedingMaintenance(c.Request().Context(), now)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewVehicleViews(vehicles, now))
}

// ByCapacity returns vehicles within a capacity range. The upper bound is
// optional.
func (h *VehicleHandler) ByCapacity(c echo.Context) error {
	min, err := strconv.ParseFloat(c.Param("min"), 64)
	if err != nil || min < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid minimum capacity")
	}

	max := -1.0
	if raw := c.Param("max"); raw != "" {
		max, err = strconv.ParseFloat(raw, 64)
		if err != nil || max < min {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid maximum capacity")
		}
	}

	vehicles, err := h.vehicles.FindByCapacity(c.Request().Context(), min, max)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewVehicleViews(vehicles, time.Now()))
}

type assignDriverRequest struct {
	DriverID string `json:"driverId" validate:"required"`
}

// Assign pairs a driver with the vehicle. Both documents are updated.
func (h *VehicleHandler) Assign(c echo.Context) error {
	var req assignDriverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vehicle, err := h.assignment.AssignDriverToVehicle(c.Request().Context(), c.Param("id"), req.DriverID)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}

// Release frees the vehicle and its linked driver.
func (h *VehicleHandler) Release(c echo.Context) error {
	vehicle, err := h.assignment.ReleaseVehicle(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}

// SendToMaintenance moves the vehicle into the maintenance state, detaching
// any assigned driver reference.
func (h *VehicleHandler) SendToMaintenance(c echo.Context) error {
	vehicle, err := h.vehicles.SendToMaintenance(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}

// Offline marks the vehicle out of service.
func (h *VehicleHandler) Offline(c echo.Context) error {
	vehicle, err := h.vehicles.MarkOffline(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}

// UpdateMaintenance records a completed service and schedules the next one.
func (h *VehicleHandler) UpdateMaintenance(c echo.Context) error {
	vehicle, err := h.vehicles.CompleteMaintenance(c.Request().Context(), c.Param("id"), time.Now())
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewVehicleView(*vehicle, time.Now()))
}
