package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/rastreapp/fleet-api/internal/cache"
	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/models"
)

// DashboardHandler composes cross-entity snapshots for the back office
// landing page. Aggregations over independent collections run concurrently;
// one failure fails the whole snapshot rather than serving partial numbers.
type DashboardHandler struct {
	shipments db.ShipmentCollection
	vehicles  db.VehicleCollection
	drivers   db.DriverCollection
	cache     *cache.Cache
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(shipments db.ShipmentCollection, vehicles db.VehicleCollection, drivers db.DriverCollection, dashCache *cache.Cache) *DashboardHandler {
	return &DashboardHandler{shipments: shipments, vehicles: vehicles, drivers: drivers, cache: dashCache}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Stats returns the merged fleet snapshot.
func (h *DashboardHandler) Stats(c echo.Context) error {
	key := cache.Key("dashboard:stats", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	var (
		shipmentStats models.ShipmentStats
		vehicleStats  models.VehicleStats
		driverStats   models.DriverStats
	)

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		shipmentStats, err = h.shipments.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		vehicleStats, err = h.vehicles.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		driverStats, err = h.drivers.Stats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	stats := models.NewDashboardStats(shipmentStats, vehicleStats, driverStats, timestamp(time.Now()))
	h.cache.Set(key, stats)
	return c.JSON(http.StatusOK, stats)
}

// RecentShipments returns the newest shipments, default 5.
func (h *DashboardHandler) RecentShipments(c echo.Context) error {
	key := cache.Key("dashboard:recent-shipments", c.QueryString())
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	shipments, err := h.shipments.FindRecent(c.Request().Context(), queryLimit(c, 5))
	if err != nil {
		return err
	}

	views := models.NewShipmentViews(shipments, time.Now())
	h.cache.Set(key, views)
	return c.JSON(http.StatusOK, views)
}

// Performance returns the delivery performance metrics.
func (h *DashboardHandler) Performance(c echo.Context) error {
	key := cache.Key("dashboard:performance", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	ctx := c.Request().Context()
	delivered, onTime, err := h.shipments.DeliveredOnTimeCounts(ctx)
	if err != nil {
		return err
	}
	avgHours, err := h.shipments.AvgDeliveryTimeHours(ctx)
	if err != nil {
		return err
	}
	active, err := h.shipments.FindByStatus(ctx, models.ShipmentInTransit)
	if err != nil {
		return err
	}

	successRate := 0
	if delivered > 0 {
		successRate = int(math.Round(float64(onTime) / float64(delivered) * 100))
	}
	metrics := models.PerformanceMetrics{
		DeliverySuccessRate:  successRate,
		ActiveShipments:      len(active),
		AvgDeliveryTimeHours: math.Round(avgHours*10) / 10,
		LastUpdated:          timestamp(time.Now()),
	}
	h.cache.Set(key, metrics)
	return c.JSON(http.StatusOK, metrics)
}

// UrgentShipments returns the urgent-priority shipments for the alert panel.
func (h *DashboardHandler) UrgentShipments(c echo.Context) error {
	shipments, err := h.shipments.FindUrgent(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentViews(shipments, time.Now()))
}

// DelayedShipments returns the delayed shipments for the alert panel.
func (h *DashboardHandler) DelayedShipments(c echo.Context) error {
	now := time.Now()
	shipments, err := h.shipments.FindDelayed(c.Request().Context(), now)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewShipmentViews(shipments, now))
}

// VehiclesMaintenance returns vehicles in maintenance or due soon.
func (h *DashboardHandler) VehiclesMaintenance(c echo.Context) error {
	now := time.Now()
	vehicles, err := h.vehicles.FindNeedingMaintenance(c.Request().Context(), now)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewVehicleViews(vehicles, now))
}

// TopDrivers returns the highest rated drivers, default 5.
func (h *DashboardHandler) TopDrivers(c echo.Context) error {
	drivers, err := h.drivers.TopRated(c.Request().Context(), queryLimit(c, 5))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.NewDriverViews(drivers))
}

type availableResources struct {
	Vehicles    []models.VehicleView `json:"vehicles"`
	Drivers     []models.DriverView  `json:"drivers"`
	LastUpdated string               `json:"lastUpdated"`
}

// AvailableResources returns the vehicles and drivers ready for assignment.
func (h *DashboardHandler) AvailableResources(c echo.Context) error {
	var (
		vehicles []models.Vehicle
		drivers  []models.Driver
	)

	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() (err error) {
		vehicles, err = h.vehicles.FindAvailable(ctx)
		return err
	})
	g.Go(func() (err error) {
		drivers, err = h.drivers.FindAvailable(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	now := time.Now()
	return c.JSON(http.StatusOK, availableResources{
		Vehicles:    models.NewVehicleViews(vehicles, now),
		Drivers:     models.NewDriverViews(drivers),
		LastUpdated: timestamp(now),
	})
}

// ShipmentsByStatus returns the shipment status distribution.
func (h *DashboardHandler) ShipmentsByStatus(c echo.Context) error {
	key := cache.Key("dashboard:shipments-by-status", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	stats, err := h.shipments.Stats(c.Request().Context())
	if err != nil {
		return err
	}

	distribution := models.ShipmentStatusDistribution{
		Pending:     stats.Pending,
		InTransit:   stats.InTransit,
		Delivered:   stats.Delivered,
		Delayed:     stats.Delayed,
		Cancelled:   stats.Cancelled,
		Total:       stats.TotalShipments,
		LastUpdated: timestamp(time.Now()),
	}
	h.cache.Set(key, distribution)
	return c.JSON(http.StatusOK, distribution)
}

// VehiclesByType returns the vehicle type distribution.
func (h *DashboardHandler) VehiclesByType(c echo.Context) error {
	key := cache.Key("dashboard:vehicles-by-type", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	counts, err := h.vehicles.TypeCounts(c.Request().Context())
	if err != nil {
		return err
	}

	distribution := models.VehicleTypeDistribution{
		Truck:       counts[models.VehicleTruck],
		Van:         counts[models.VehicleVan],
		Trailer:     counts[models.VehicleTrailer],
		Pickup:      counts[models.VehiclePickup],
		LastUpdated: timestamp(time.Now()),
	}
	distribution.Total = distribution.Truck + distribution.Van + distribution.Trailer + distribution.Pickup
	h.cache.Set(key, distribution)
	return c.JSON(http.StatusOK, distribution)
}

// DriversByExperience returns the driver experience distribution.
func (h *DashboardHandler) DriversByExperience(c echo.Context) error {
	key := cache.Key("dashboard:drivers-by-experience", "")
	if cached, ok := h.cache.Get(key); ok {
		return c.JSON(http.StatusOK, cached)
	}

	distribution, err := h.drivers.ExperienceCounts(c.Request().Context())
	if err != nil {
		return err
	}
	distribution.LastUpdated = timestamp(time.Now())

	h.cache.Set(key, distribution)
	return c.JSON(http.StatusOK, distribution)
}
