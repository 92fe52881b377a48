package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rastreapp/fleet-api/internal/cache"
	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/models"
)

// ShipmentHandler serves the shipment endpoints.
type ShipmentHandler struct {
	shipments  db.ShipmentCollection
	cache      *cache.Cache
	invalidate *cache.Group
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(shipments db.ShipmentCollection, listCache *cache.Cache, invalidate *cache.Group) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, cache: listCache, invalidate: invalidate}
}

// List returns a filtered, paginated page of shipments.
func (h *ShipmentHandler) List(c echo.Context) error {
	var filters models.ShipmentFilters
	if err := c.Bind(&filters); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&filters); err != nil {
		return err
	}
	filters.Normalize()

	key := cache.Key("shipments", c.QueryString())
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	shipments, total, err := h.shipments.List(c.Request().Context(), filters)
	if err != nil {
		return err
	}

	pagination := models.NewPagination(filters.Page, filters.Limit, total)
	response := ListResponse{
		Items: models.NewShipmentViews(shipments, time.Now()),
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

// GetByID returns a single shipment.
func (h *ShipmentHandler) GetByID(c echo.Context) error {
	shipment, err := h.shipments.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentView(*shipment, time.Now()))
}

// Create inserts a new shipment.
func (h *ShipmentHandler) Create(c echo.Context) error {
	var shipment models.Shipment
	if err := c.Bind(&shipment); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&shipment); err != nil {
		return err
	}

	created, err := h.shipments.Insert(c.Request().Context(), shipment)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusCreated, models.NewShipmentView(*created, time.Now()))
}

// Update applies a partial update to a shipment.
func (h *ShipmentHandler) Update(c echo.Context) error {
	var update models.ShipmentUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&update); err != nil {
		return err
	}

	shipment, err := h.shipments.Update(c.Request().Context(), c.Param("id"), update)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewShipmentView(*shipment, time.Now()))
}

// Delete removes a shipment.
func (h *ShipmentHandler) Delete(c echo.Context) error {
	if err := h.shipments.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	h.invalidate.Clear()
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "shipment deleted"})
}

// Stats returns per-status shipment counts.
func (h *ShipmentHandler) Stats(c echo.Context) error {
	key := cache.Key("shipments:stats:status", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	stats, err := h.shipments.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	h.cache.Set(key, stats)
	return c.JSON(http.StatusOK, stats)
}

// Search returns shipments matching the search term.
func (h *ShipmentHandler) Search(c echo.Context) error {
	shipments, err := h.shipments.Search(c.Request().Context(), c.Param("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentViews(shipments, time.Now()))
}

// ByStatus returns shipments with the given status.
func (h *ShipmentHandler) ByStatus(c echo.Context) error {
	status := models.ShipmentStatus(c.Param("status"))
	if !models.IsValidShipmentStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	shipments, err := h.shipments.FindByStatus(c.Request().Context(), status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentViews(shipments, time.Now()))
}

// Urgent returns all urgent-priority shipments.
func (h *ShipmentHandler) Urgent(c echo.Context) error {
	shipments, err := h.shipments.FindUrgent(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentViews(shipments, time.Now()))
}

// Delayed returns delayed shipments past their estimate.
func (h *ShipmentHandler) Delayed(c echo.Context) error {
	now := time.Now()
	shipments, err := h.shipments.FindDelayed(c.Request().Context(), now)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentViews(shipments, now))
}

type updateStatusRequest struct {
	Status models.ShipmentStatus `json:"status" validate:"required,oneof=pending in-transit delivered delayed cancelled"`
	Note   string                `json:"note"`
}

// UpdateStatus transitions a shipment to a new status, optionally appending
// a note.
func (h *ShipmentHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	shipment, err := h.shipments.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status, req.Note)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewShipmentView(*shipment, time.Now()))
}

type markDeliveredRequest struct {
	ActualDeliveryDate *time.Time `json:"actualDeliveryDate"`
}

// MarkDelivered transitions a shipment to delivered, recording the actual
// delivery date or now.
func (h *ShipmentHandler) MarkDelivered(c echo.Context) error {
	var req markDeliveredRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actual := time.Now()
	if req.ActualDeliveryDate != nil {
		actual = *req.ActualDeliveryDate
	}

	shipment, err := h.shipments.MarkDelivered(c.Request().Context(), c.Param("id"), actual)
	if err != nil {
		return err
	}

	h.invalidate.Clear()
	return c.JSON(http.StatusOK, models.NewShipmentView(*shipment, time.Now()))
}
