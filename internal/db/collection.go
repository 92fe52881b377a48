package db

import (
	"context"
	"time"

	"github.com/rastreapp/fleet-api/internal/models"
)

// ShipmentCollection defines the interface for shipment data operations.
type ShipmentCollection interface {
	Insert(ctx context.Context, shipment models.Shipment) (*models.Shipment, error)
	FindByID(ctx context.Context, id string) (*models.Shipment, error)
	List(ctx context.Context, filters models.ShipmentFilters) ([]models.Shipment, int64, error)
	Update(ctx context.Context, id string, update models.ShipmentUpdate) (*models.Shipment, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, term string) ([]models.Shipment, error)
	FindByStatus(ctx context.Context, status models.ShipmentStatus) ([]models.Shipment, error)
	FindRecent(ctx context.Context, limit int) ([]models.Shipment, error)
	FindUrgent(ctx context.Context) ([]models.Shipment, error)
	FindDelayed(ctx context.Context, now time.Time) ([]models.Shipment, error)
	UpdateStatus(ctx context.Context, id string, status models.ShipmentStatus, note string) (*models.Shipment, error)
	MarkDelivered(ctx context.Context, id string, actual time.Time) (*models.Shipment, error)
	Stats(ctx context.Context) (models.ShipmentStats, error)
	DeliveredOnTimeCounts(ctx context.Context) (delivered int, onTime int, err error)
	AvgDeliveryTimeHours(ctx context.Context) (float64, error)
}

// VehicleCollection defines the interface for vehicle data operations.
type VehicleCollection interface {
	Insert(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context, filters models.VehicleFilters) ([]models.Vehicle, int64, error)
	Update(ctx context.Context, id string, update models.VehicleUpdate) (*models.Vehicle, error)
	Delete(ctx context.Context, id string) error
	FindAvailable(ctx context.Context) ([]models.Vehicle, error)
	FindByType(ctx context.Context, vehicleType models.VehicleType) ([]models.Vehicle, error)
	FindNeedingMaintenance(ctx context.Context, now time.Time) ([]models.Vehicle, error)
	FindByCapacity(ctx context.Context, minCapacity, maxCapacity float64) ([]models.Vehicle, error)
	AssignDriver(ctx context.Context, id, driverID string) (*models.Vehicle, error)
	Release(ctx context.Context, id string) (*models.Vehicle, error)
	SendToMaintenance(ctx context.Context, id string) (*models.Vehicle, error)
	MarkOffline(ctx context.Context, id string) (*models.Vehicle, error)
	CompleteMaintenance(ctx context.Context, id string, now time.Time) (*models.Vehicle, error)
	Stats(ctx context.Context) (models.VehicleStats, error)
	TypeCounts(ctx context.Context) (map[models.VehicleType]int, error)
}

// DriverCollection defines the interface for driver data operations.
type DriverCollection interface {
	Insert(ctx context.Context, driver models.Driver) (*models.Driver, error)
	FindByID(ctx context.Context, id string) (*models.Driver, error)
	List(ctx context.Context, filters models.DriverFilters) ([]models.Driver, int64, error)
	Update(ctx context.Context, id string, update models.DriverUpdate) (*models.Driver, error)
	Delete(ctx context.Context, id string) error
	FindAvailable(ctx context.Context) ([]models.Driver, error)
	FindByStatus(ctx context.Context, status models.DriverStatus) ([]models.Driver, error)
	TopRated(ctx context.Context, limit int) ([]models.Driver, error)
	MostExperienced(ctx context.Context, limit int) ([]models.Driver, error)
	Search(ctx context.Context, term string) ([]models.Driver, error)
	AssignVehicle(ctx context.Context, id, vehicleID string) (*models.Driver, error)
	Release(ctx context.Context, id string) (*models.Driver, error)
	MarkOffDuty(ctx context.Context, id string) (*models.Driver, error)
	Suspend(ctx context.Context, id string) (*models.Driver, error)
	UpdateRating(ctx context.Context, id string, rating float64) (*models.Driver, error)
	RecordDelivery(ctx context.Context, id string, onTime bool) (*models.Driver, error)
	Stats(ctx context.Context) (models.DriverStats, error)
	ExperienceCounts(ctx context.Context) (models.DriverExperienceDistribution, error)
}
