package api

import (
	"github.com/labstack/echo/v4"

	"github.com/rastreapp/fleet-api/internal/handlers"
)

// SetupRoutes registers every API endpoint. Literal segments are declared
// alongside parameterized ones; echo matches static routes first.
func SetupRoutes(
	e *echo.Echo,
	shipments *handlers.ShipmentHandler,
	vehicles *handlers.VehicleHandler,
	drivers *handlers.DriverHandler,
	dashboard *handlers.DashboardHandler,
	health *handlers.HealthHandler,
) {
	api := e.Group("/api")

	api.GET("/health", health.Check)

	shipmentGroup := api.Group("/shipments")
	{
		shipmentGroup.GET("", shipments.List)
		shipmentGroup.POST("", shipments.Create)
		shipmentGroup.GET("/stats/status", shipments.Stats)
		shipmentGroup.GET("/search/:term", shipments.Search)
		shipmentGroup.GET("/status/:status", shipments.ByStatus)
		shipmentGroup.GET("/urgent", shipments.Urgent)
		shipmentGroup.GET("/delayed", shipments.Delayed)
		shipmentGroup.GET("/:id", shipments.GetByID)
		shipmentGroup.PUT("/:id", shipments.Update)
		shipmentGroup.DELETE("/:id", shipments.Delete)
		shipmentGroup.PUT("/:id/status", shipments.UpdateStatus)
		shipmentGroup.PUT("/:id/deliver", shipments.MarkDelivered)
	}

	vehicleGroup := api.Group("/vehicles")
	{
		vehicleGroup.GET("", vehicles.List)
		vehicleGroup.POST("", vehicles.Create)
		vehicleGroup.GET("/available", vehicles.Available)
		vehicleGroup.GET("/stats/status", vehicles.Stats)
		vehicleGroup.GET("/type/:type", vehicles.ByType)
		vehicleGroup.GET("/maintenance", vehicles.Maintenance)
		vehicleGroup.GET("/capacity/:min", vehicles.ByCapacity)
		vehicleGroup.GET("/capacity/:min/:max", vehicles.ByCapacity)
		vehicleGroup.GET("/:id", vehicles.GetByID)
		vehicleGroup.PUT("/:id", vehicles.Update)
		vehicleGroup.DELETE("/:id", vehicles.Delete)
		vehicleGroup.PUT("/:id/assign", vehicles.Assign)
		vehicleGroup.PUT("/:id/release", vehicles.Release)
		vehicleGroup.PUT("/:id/maintenance", vehicles.SendToMaintenance)
		vehicleGroup.PUT("/:id/offline", vehicles.Offline)
		vehicleGroup.PUT("/:id/maintenance/complete", vehicles.UpdateMaintenance)
	}

	driverGroup := api.Group("/drivers")
	{
		driverGroup.GET("", drivers.List)
		driverGroup.POST("", drivers.Create)
		driverGroup.GET("/available", drivers.Available)
		driverGroup.GET("/stats/status", drivers.Stats)
		driverGroup.GET("/status/:status", drivers.ByStatus)
		driverGroup.GET("/top-rated", drivers.TopRated)
		driverGroup.GET("/experienced", drivers.Experienced)
		driverGroup.GET("/search/:term", drivers.Search)
		driverGroup.GET("/:id", drivers.GetByID)
		driverGroup.PUT("/:id", drivers.Update)
		driverGroup.DELETE("/:id", drivers.Delete)
		driverGroup.PUT("/:id/assign-vehicle", drivers.AssignVehicle)
		driverGroup.PUT("/:id/release", drivers.Release)
		driverGroup.PUT("/:id/off-duty", drivers.OffDuty)
		driverGroup.PUT("/:id/suspend", drivers.Suspend)
		driverGroup.PUT("/:id/rating", drivers.Rating)
		driverGroup.PUT("/:id/record-delivery", drivers.RecordDelivery)
	}

	dashboardGroup := api.Group("/dashboard")
	{
		dashboardGroup.GET("/stats", dashboard.Stats)
		dashboardGroup.GET("/recent-shipments", dashboard.RecentShipments)
		dashboardGroup.GET("/performance", dashboard.Performance)
		dashboardGroup.GET("/urgent-shipments", dashboard.UrgentShipments)
		dashboardGroup.GET("/delayed-shipments", dashboard.DelayedShipments)
		dashboardGroup.GET("/vehicles-maintenance", dashboard.VehiclesMaintenance)
		dashboardGroup.GET("/top-drivers", dashboard.TopDrivers)
		dashboardGroup.GET("/available-resources", dashboard.AvailableResources)
		dashboardGroup.GET("/shipments-by-status", dashboard.ShipmentsByStatus)
		dashboardGroup.GET("/vehicles-by-type", dashboard.VehiclesByType)
		dashboardGroup.GET("/drivers-by-experience", dashboard.DriversByExperience)
	}
}
