package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rastreapp/fleet-api/internal/models"
)

// MongoVehicleCollection implements VehicleCollection on a MongoDB
// collection.
type MongoVehicleCollection struct {
	Collection *mongo.Collection
}

// Insert saves a new vehicle, setting timestamps and defaulting status.
func (c *MongoVehicleCollection) Insert(ctx context.Context, vehicle models.Vehicle) (*models.Vehicle, error) {
	now := time.Now()
	vehicle.ID = primitive.NewObjectID()
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleAvailable
	}
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, vehicle); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "plate"}
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindByID finds a vehicle by its ID.
func (c *MongoVehicleCollection) FindByID(ctx context.Context, id string) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var vehicle models.Vehicle
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// List returns one page of vehicles matching the filters plus the total
// count of matches. Newest first.
func (c *MongoVehicleCollection) List(ctx context.Context, filters models.VehicleFilters) ([]models.Vehicle, int64, error) {
	filter := bson.M{}
	if filters.Status != "" {
		filter["status"] = filters.Status
	}
	if filters.Type != "" {
		filter["type"] = filters.Type
	}

	skip := int64((filters.Page - 1) * filters.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filters.Limit))

	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, 0, err
	}

	total, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// Update applies a partial update to a vehicle and returns the updated
// document.
func (c *MongoVehicleCollection) Update(ctx context.Context, id string, update models.VehicleUpdate) (*models.Vehicle, error) {
	set := bson.M{}
	if update.Plate != nil {
		set["plate"] = *update.Plate
	}
	if update.Type != nil {
		set["type"] = *update.Type
	}
	if update.Capacity != nil {
		set["capacity"] = *update.Capacity
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.LastMaintenance != nil {
		set["lastMaintenance"] = *update.LastMaintenance
	}
	if update.NextMaintenance != nil {
		set["nextMaintenance"] = *update.NextMaintenance
	}
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// Delete removes a vehicle by its ID.
func (c *MongoVehicleCollection) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindAvailable returns all available vehicles.
func (c *MongoVehicleCollection) FindAvailable(ctx context.Context) ([]models.Vehicle, error) {
	return c.findAll(ctx, bson.M{"status": models.VehicleAvailable})
}

// FindByType returns all vehicles of the given type.
func (c *MongoVehicleCollection) FindByType(ctx context.Context, vehicleType models.VehicleType) ([]models.Vehicle, error) {
	return c.findAll(ctx, bson.M{"type": vehicleType})
}

// FindNeedingMaintenance returns vehicles whose next maintenance falls
// within the soon window.
func (c *MongoVehicleCollection) FindNeedingMaintenance(ctx context.Context, now time.Time) ([]models.Vehicle, error) {
	deadline := now.AddDate(0, 0, models.MaintenanceSoonDays)
	return c.findAll(ctx, bson.M{"nextMaintenance": bson.M{"$lte": deadline}})
}

// FindByCapacity returns vehicles within the capacity range. A zero
// maxCapacity leaves the range unbounded above.
func (c *MongoVehicleCollection) FindByCapacity(ctx context.Context, minCapacity, maxCapacity float64) ([]models.Vehicle, error) {
	capacity := bson.M{"$gte": minCapacity}
	if maxCapacity > 0 {
		capacity["$lte"] = maxCapacity
	}
	return c.findAll(ctx, bson.M{"capacity": capacity})
}

// AssignDriver transitions a vehicle to in-use and links the driver, in a
// single write. The driver id is not checked against the drivers collection.
func (c *MongoVehicleCollection) AssignDriver(ctx context.Context, id, driverID string) (*models.Vehicle, error) {
	driverObjectID, err := primitive.ObjectIDFromHex(driverID)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"status": models.VehicleInUse,
		"driver": driverObjectID,
	}})
}

// Release transitions a vehicle back to available and unsets the driver.
func (c *MongoVehicleCollection) Release(ctx context.Context, id string) (*models.Vehicle, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"status": models.VehicleAvailable},
		"$unset": bson.M{"driver": ""},
	})
}

// SendToMaintenance transitions a vehicle to maintenance and unsets the
// driver.
func (c *MongoVehicleCollection) SendToMaintenance(ctx context.Context, id string) (*models.Vehicle, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"status": models.VehicleMaintenance},
		"$unset": bson.M{"driver": ""},
	})
}

// MarkOffline transitions a vehicle to offline and unsets the driver.
func (c *MongoVehicleCollection) MarkOffline(ctx context.Context, id string) (*models.Vehicle, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"status": models.VehicleOffline},
		"$unset": bson.M{"driver": ""},
	})
}

// CompleteMaintenance records a finished service: last maintenance now, next
// one six months out, vehicle back to available.
func (c *MongoVehicleCollection) CompleteMaintenance(ctx context.Context, id string, now time.Time) (*models.Vehicle, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"lastMaintenance": now,
		"nextMaintenance": now.AddDate(0, models.MaintenanceInterval, 0),
		"status":          models.VehicleAvailable,
	}})
}

// Stats computes per-status counts over the whole collection in a single
// pass. An empty collection yields the zero value.
func (c *MongoVehicleCollection) Stats(ctx context.Context) (models.VehicleStats, error) {
	pipeline := []bson.M{{
		"$group": bson.M{
			"_id":           nil,
			"totalVehicles": bson.M{"$sum": 1},
			"available":     statusCount(string(models.VehicleAvailable)),
			"inUse":         statusCount(string(models.VehicleInUse)),
			"maintenance":   statusCount(string(models.VehicleMaintenance)),
			"offline":       statusCount(string(models.VehicleOffline)),
		},
	}}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.VehicleStats{}, err
	}
	var results []models.VehicleStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.VehicleStats{}, err
	}
	if len(results) == 0 {
		return models.VehicleStats{}, nil
	}
	return results[0], nil
}

// TypeCounts counts vehicles per type in a single pass.
func (c *MongoVehicleCollection) TypeCounts(ctx context.Context) (map[models.VehicleType]int, error) {
	pipeline := []bson.M{{
		"$group": bson.M{
			"_id":   "$type",
			"count": bson.M{"$sum": 1},
		},
	}}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var results []struct {
		Type  models.VehicleType `bson:"_id"`
		Count int                `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	counts := make(map[models.VehicleType]int, len(results))
	for _, r := range results {
		counts[r.Type] = r.Count
	}
	return counts, nil
}

func (c *MongoVehicleCollection) findAll(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	cursor, err := c.Collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *MongoVehicleCollection) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var vehicle models.Vehicle
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&vehicle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "plate"}
		}
		return nil, err
	}
	return &vehicle, nil
}
