package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rastreapp/fleet-api/internal/models"
)

func sampleVehicle(plate string) models.Vehicle {
	return models.Vehicle{
		Plate:           plate,
		Type:            models.VehicleTruck,
		Capacity:        5000,
		LastMaintenance: time.Now().AddDate(0, -3, 0),
		NextMaintenance: time.Now().AddDate(0, 3, 0),
	}
}

func TestMongoVehicleCollection_Insert(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	created, err := vehicles.Insert(context.Background(), sampleVehicle("ABC-123"))
	require.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, created.Status)
	assert.NotZero(t, created.CreatedAt)
}

func TestMongoVehicleCollection_Insert_DuplicatePlate(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	_, err := collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "plate", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)

	vehicles := &MongoVehicleCollection{Collection: collection}

	_, err = vehicles.Insert(context.Background(), sampleVehicle("ABC-123"))
	require.NoError(t, err)

	_, err = vehicles.Insert(context.Background(), sampleVehicle("ABC-123"))
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "plate", dup.Field)
}

func TestMongoVehicleCollection_AssignAndRelease(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	created, err := vehicles.Insert(context.Background(), sampleVehicle("ABC-123"))
	require.NoError(t, err)

	driverID := primitive.NewObjectID()
	assigned, err := vehicles.AssignDriver(context.Background(), created.ID.Hex(), driverID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleInUse, assigned.Status)
	require.NotNil(t, assigned.Driver)
	assert.Equal(t, driverID, *assigned.Driver)

	released, err := vehicles.Release(context.Background(), created.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, released.Status)
	assert.Nil(t, released.Driver)
}

func TestMongoVehicleCollection_AssignDriver_BadDriverID(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	created, err := vehicles.Insert(context.Background(), sampleVehicle("ABC-123"))
	require.NoError(t, err)

	_, err = vehicles.AssignDriver(context.Background(), created.ID.Hex(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoVehicleCollection_SendToMaintenance(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	created, err := vehicles.Insert(context.Background(), sampleVehicle("ABC-123"))
	require.NoError(t, err)

	driverID := primitive.NewObjectID()
	_, err = vehicles.AssignDriver(context.Background(), created.ID.Hex(), driverID.Hex())
	require.NoError(t, err)

	inMaintenance, err := vehicles.SendToMaintenance(context.Background(), created.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleMaintenance, inMaintenance.Status)
	assert.Nil(t, inMaintenance.Driver, "maintenance must detach the driver")
}

func TestMongoVehicleCollection_CompleteMaintenance(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	v := sampleVehicle("ABC-123")
	v.Status = models.VehicleMaintenance
	created, err := vehicles.Insert(context.Background(), v)
	require.NoError(t, err)

	now := time.Now().Truncate(time.Millisecond)
	serviced, err := vehicles.CompleteMaintenance(context.Background(), created.ID.Hex(), now)
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleAvailable, serviced.Status)
	assert.WithinDuration(t, now, serviced.LastMaintenance, time.Millisecond)
	assert.WithinDuration(t, now.AddDate(0, models.MaintenanceInterval, 0), serviced.NextMaintenance, time.Millisecond)
}

func TestMongoVehicleCollection_FindNeedingMaintenance(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	due := sampleVehicle("DUE-001")
	due.NextMaintenance = time.Now().AddDate(0, 0, 10)
	_, err := vehicles.Insert(context.Background(), due)
	require.NoError(t, err)

	notDue := sampleVehicle("OK-002")
	notDue.NextMaintenance = time.Now().AddDate(0, 0, 60)
	_, err = vehicles.Insert(context.Background(), notDue)
	require.NoError(t, err)

	needing, err := vehicles.FindNeedingMaintenance(context.Background(), time.Now())
	assert.NoError(t, err)
	require.Len(t, needing, 1)
	assert.Equal(t, "DUE-001", needing[0].Plate)
}

func TestMongoVehicleCollection_FindByCapacity(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	for plate, capacity := range map[string]float64{"S-1": 800, "M-2": 1500, "L-3": 8000} {
		v := sampleVehicle(plate)
		v.Capacity = capacity
		_, err := vehicles.Insert(context.Background(), v)
		require.NoError(t, err)
	}

	bounded, err := vehicles.FindByCapacity(context.Background(), 1000, 5000)
	assert.NoError(t, err)
	require.Len(t, bounded, 1)
	assert.Equal(t, "M-2", bounded[0].Plate)

	unbounded, err := vehicles.FindByCapacity(context.Background(), 1000, -1)
	assert.NoError(t, err)
	assert.Len(t, unbounded, 2)
}

func TestMongoVehicleCollection_StatsAndTypeCounts(t *testing.T) {
	collection := testCollection(t, VehiclesCollection)
	vehicles := &MongoVehicleCollection{Collection: collection}

	empty, err := vehicles.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.VehicleStats{}, empty)

	fleet := []struct {
		plate       string
		vehicleType models.VehicleType
		status      models.VehicleStatus
	}{
		{"A-1", models.VehicleTruck, models.VehicleAvailable},
		{"B-2", models.VehicleTruck, models.VehicleInUse},
		{"C-3", models.VehicleVan, models.VehicleAvailable},
		{"D-4", models.VehiclePickup, models.VehicleMaintenance},
	}
	for _, f := range fleet {
		v := sampleVehicle(f.plate)
		v.Type = f.vehicleType
		v.Status = f.status
		_, err := vehicles.Insert(context.Background(), v)
		require.NoError(t, err)
	}

	stats, err := vehicles.Stats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4, stats.TotalVehicles)
	assert.Equal(t, 2, stats.Available)
	assert.Equal(t, 1, stats.InUse)
	assert.Equal(t, 1, stats.Maintenance)

	counts, err := vehicles.TypeCounts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, counts[models.VehicleTruck])
	assert.Equal(t, 1, counts[models.VehicleVan])
	assert.Equal(t, 1, counts[models.VehiclePickup])
	assert.Equal(t, 0, counts[models.VehicleTrailer])
}
