// Command seed drops the three collections and repopulates them with sample
// fleet data for local development.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rastreapp/fleet-api/internal/config"
	"github.com/rastreapp/fleet-api/internal/db"
	"github.com/rastreapp/fleet-api/internal/models"
)

var driversData = []models.Driver{
	{Name: "Carlos Mendoza", License: "DL-123456", Phone: "+57 300 123 4567", Email: "carlos.mendoza@rastreapp.com", Status: models.DriverAvailable, Rating: 4.8, TotalDeliveries: 245, OnTimeDeliveries: 238},
	{Name: "Ana Rodríguez", License: "DL-789012", Phone: "+57 300 987 6543", Email: "ana.rodriguez@rastreapp.com", Status: models.DriverOnDelivery, Rating: 4.9, TotalDeliveries: 189, OnTimeDeliveries: 185},
	{Name: "Luis García", License: "DL-345678", Phone: "+57 300 555 1234", Email: "luis.garcia@rastreapp.com", Status: models.DriverAvailable, Rating: 4.6, TotalDeliveries: 156, OnTimeDeliveries: 148},
	{Name: "María López", License: "DL-901234", Phone: "+57 300 777 8888", Email: "maria.lopez@rastreapp.com", Status: models.DriverOffDuty, Rating: 4.7, TotalDeliveries: 203, OnTimeDeliveries: 195},
	{Name: "Juan Pérez", License: "DL-567890", Phone: "+57 300 444 5555", Email: "juan.perez@rastreapp.com", Status: models.DriverAvailable, Rating: 4.5, TotalDeliveries: 98, OnTimeDeliveries: 92},
}

var vehiclesData = []models.Vehicle{
	{Plate: "ABC-123", Type: models.VehicleTruck, Capacity: 5000, Status: models.VehicleAvailable, LastMaintenance: date(2024, 1, 15), NextMaintenance: date(2024, 7, 15)},
	{Plate: "XYZ-789", Type: models.VehicleVan, Capacity: 1500, Status: models.VehicleInUse, LastMaintenance: date(2024, 2, 20), NextMaintenance: date(2024, 8, 20)},
	{Plate: "DEF-456", Type: models.VehicleTrailer, Capacity: 8000, Status: models.VehicleAvailable, LastMaintenance: date(2024, 3, 10), NextMaintenance: date(2024, 9, 10)},
	{Plate: "GHI-789", Type: models.VehiclePickup, Capacity: 800, Status: models.VehicleMaintenance, LastMaintenance: date(2024, 1, 30), NextMaintenance: date(2024, 7, 30)},
	{Plate: "JKL-012", Type: models.VehicleTruck, Capacity: 6000, Status: models.VehicleAvailable, LastMaintenance: date(2024, 2, 15), NextMaintenance: date(2024, 8, 15)},
}

var (
	origins      = []string{"Bogotá", "Medellín", "Cali", "Barranquilla", "Cartagena"}
	destinations = []string{"Bucaramanga", "Pereira", "Manizales", "Ibagué", "Villavicencio"}
	customers    = []models.Customer{
		{Name: "Empresa ABC", Email: "contacto@empresaabc.com", Phone: "+57 1 234 5678"},
		{Name: "Comercio XYZ", Email: "info@comercioxyz.com", Phone: "+57 1 345 6789"},
		{Name: "Distribuidora 123", Email: "ventas@distribuidora123.com", Phone: "+57 1 456 7890"},
		{Name: "Logística Pro", Email: "admin@logisticapro.com", Phone: "+57 1 567 8901"},
		{Name: "Transporte Express", Email: "servicio@transporteexpress.com", Phone: "+57 1 678 9012"},
	}
	statuses   = []models.ShipmentStatus{models.ShipmentPending, models.ShipmentInTransit, models.ShipmentDelivered, models.ShipmentDelayed, models.ShipmentCancelled}
	priorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent}
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// generateShipments builds 25 shipments, attaching a driver snapshot only to
// the ones in transit or already delivered.
func generateShipments(drivers []models.Driver, vehicles []models.Vehicle) []models.Shipment {
	shipments := make([]models.Shipment, 0, 25)
	for i := 1; i <= 25; i++ {
		status := statuses[rand.Intn(len(statuses))]
		estimated := time.Now().AddDate(0, 0, rand.Intn(7)+1)

		shipment := models.Shipment{
			TrackingNumber:    fmt.Sprintf("TRK-%06d", i),
			Origin:            origins[rand.Intn(len(origins))],
			Destination:       destinations[rand.Intn(len(destinations))],
			Status:            status,
			Priority:          priorities[rand.Intn(len(priorities))],
			Weight:            float64(rand.Intn(2000) + 100),
			Customer:          customers[rand.Intn(len(customers))],
			EstimatedDelivery: estimated,
			Route: models.Route{
				Distance:      float64(rand.Intn(500) + 50),
				EstimatedTime: float64(rand.Intn(8) + 2),
			},
			Notes: []string{},
		}

		if status == models.ShipmentDelivered {
			actual := estimated
			if rand.Float64() > 0.7 {
				actual = actual.Add(24 * time.Hour)
			}
			shipment.ActualDelivery = &actual
		}
		if status == models.ShipmentDelayed {
			shipment.Notes = []string{"Envío retrasado por condiciones climáticas"}
		}
		if status == models.ShipmentInTransit || status == models.ShipmentDelivered {
			driver := drivers[rand.Intn(len(drivers))]
			vehicle := vehicles[rand.Intn(len(vehicles))]
			id := driver.ID
			shipment.Driver = &models.DriverRef{
				ID:      &id,
				Name:    driver.Name,
				Phone:   driver.Phone,
				Vehicle: vehicle.Plate,
			}
		}

		shipments = append(shipments, shipment)
	}
	return shipments
}

func main() {
	cfg := config.Load()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("failed to disconnect from MongoDB")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.WithError(err).Fatal("failed to create indexes")
	}

	for _, name := range []string{db.ShipmentsCollection, db.VehiclesCollection, db.DriversCollection} {
		if _, err := database.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.WithError(err).WithField("collection", name).Fatal("failed to clear collection")
		}
	}
	log.Info("collections cleared")

	driverStore := &db.MongoDriverCollection{Collection: database.Collection(db.DriversCollection)}
	vehicleStore := &db.MongoVehicleCollection{Collection: database.Collection(db.VehiclesCollection)}
	shipmentStore := &db.MongoShipmentCollection{Collection: database.Collection(db.ShipmentsCollection)}

	drivers := make([]models.Driver, 0, len(driversData))
	for _, d := range driversData {
		inserted, err := driverStore.Insert(ctx, d)
		if err != nil {
			log.WithError(err).Fatal("failed to insert driver")
		}
		drivers = append(drivers, *inserted)
	}
	log.WithField("count", len(drivers)).Info("drivers inserted")

	vehicles := make([]models.Vehicle, 0, len(vehiclesData))
	for _, v := range vehiclesData {
		inserted, err := vehicleStore.Insert(ctx, v)
		if err != nil {
			log.WithError(err).Fatal("failed to insert vehicle")
		}
		vehicles = append(vehicles, *inserted)
	}
	log.WithField("count", len(vehicles)).Info("vehicles inserted")

	shipments := generateShipments(drivers, vehicles)
	for _, s := range shipments {
		if _, err := shipmentStore.Insert(ctx, s); err != nil {
			log.WithError(err).Fatal("failed to insert shipment")
		}
	}
	log.WithField("count", len(shipments)).Info("shipments inserted")

	stats, err := shipmentStore.Stats(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to read shipment stats")
	}
	log.WithFields(log.Fields{
		"total":     stats.TotalShipments,
		"pending":   stats.Pending,
		"inTransit": stats.InTransit,
		"delivered": stats.Delivered,
		"delayed":   stats.Delayed,
		"cancelled": stats.Cancelled,
	}).Info("database seeded")
}
