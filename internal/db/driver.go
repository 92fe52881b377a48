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

// MongoDriverCollection implements DriverCollection on a MongoDB collection.
type MongoDriverCollection struct {
	Collection *mongo.Collection
}

// Insert saves a new driver, setting timestamps, defaulting status and
// clamping the rating.
func (c *MongoDriverCollection) Insert(ctx context.Context, driver models.Driver) (*models.Driver, error) {
	now := time.Now()
	driver.ID = primitive.NewObjectID()
	if driver.Status == "" {
		driver.Status = models.DriverAvailable
	}
	driver.Rating = models.ClampRating(driver.Rating)
	driver.CreatedAt = now
	driver.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, driver); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "license or email"}
		}
		return nil, err
	}
	return &driver, nil
}

// FindByID finds a driver by its ID.
func (c *MongoDriverCollection) FindByID(ctx context.Context, id string) (*models.Driver, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var driver models.Driver
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &driver, nil
}

// List returns one page of drivers matching the filters plus the total count
// of matches.
func (c *MongoDriverCollection) List(ctx context.Context, filters models.DriverFilters) ([]models.Driver, int64, error) {
	filter := bson.M{}
	if filters.Status != "" {
		filter["status"] = filters.Status
	}

	skip := int64((filters.Page - 1) * filters.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: filters.SortBy, Value: sortDirection(filters.SortOrder)}}).
		SetSkip(skip).
		SetLimit(int64(filters.Limit))

	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	drivers := []models.Driver{}
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, 0, err
	}

	total, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

// Update applies a partial update to a driver and returns the updated
// document.
func (c *MongoDriverCollection) Update(ctx context.Context, id string, update models.DriverUpdate) (*models.Driver, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.License != nil {
		set["license"] = *update.License
	}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Rating != nil {
		set["rating"] = models.ClampRating(*update.Rating)
	}
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// Delete removes a driver by its ID.
func (c *MongoDriverCollection) Delete(ctx context.Context, id string) error {
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

// FindAvailable returns all available drivers.
func (c *MongoDriverCollection) FindAvailable(ctx context.Context) ([]models.Driver, error) {
	return c.findAll(ctx, bson.M{"status": models.DriverAvailable}, nil)
}

// FindByStatus returns all drivers with the given status.
func (c *MongoDriverCollection) FindByStatus(ctx context.Context, status models.DriverStatus) ([]models.Driver, error) {
	return c.findAll(ctx, bson.M{"status": status}, nil)
}

// TopRated returns the highest rated drivers.
func (c *MongoDriverCollection) TopRated(ctx context.Context, limit int) ([]models.Driver, error) {
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}}).SetLimit(int64(limit))
	return c.findAll(ctx, bson.M{}, opts)
}

// MostExperienced returns the drivers with the most deliveries.
func (c *MongoDriverCollection) MostExperienced(ctx context.Context, limit int) ([]models.Driver, error) {
	opts := options.Find().SetSort(bson.D{{Key: "totalDeliveries", Value: -1}}).SetLimit(int64(limit))
	return c.findAll(ctx, bson.M{}, opts)
}

// Search finds drivers whose name, email or license matches the term,
// case-insensitively.
func (c *MongoDriverCollection) Search(ctx context.Context, term string) ([]models.Driver, error) {
	regex := bson.M{"$regex": term, "$options": "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": regex},
		bson.M{"email": regex},
		bson.M{"license": regex},
	}}
	return c.findAll(ctx, filter, nil)
}

// AssignVehicle transitions a driver to on-delivery and links the vehicle,
// in a single write. The vehicle id is not checked against the vehicles
// collection.
func (c *MongoDriverCollection) AssignVehicle(ctx context.Context, id, vehicleID string) (*models.Driver, error) {
	vehicleObjectID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		return nil, ErrNotFound
	}
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"status":         models.DriverOnDelivery,
		"currentVehicle": vehicleObjectID,
	}})
}

// Release transitions a driver back to available and unsets the vehicle.
func (c *MongoDriverCollection) Release(ctx context.Context, id string) (*models.Driver, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"status": models.DriverAvailable},
		"$unset": bson.M{"currentVehicle": ""},
	})
}

// MarkOffDuty transitions a driver to off-duty and unsets the vehicle.
func (c *MongoDriverCollection) MarkOffDuty(ctx context.Context, id string) (*models.Driver, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"status": models.DriverOffDuty},
		"$unset": bson.M{"currentVehicle": ""},
	})
}

// Suspend transitions a driver to suspended and unsets the vehicle.
func (c *MongoDriverCollection) Suspend(ctx context.Context, id string) (*models.Driver, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$set":   bson.M{"status": models.DriverSuspended},
		"$unset": bson.M{"currentVehicle": ""},
	})
}

// UpdateRating stores a new rating, clamped to the valid range. The status
// is left unchanged.
func (c *MongoDriverCollection) UpdateRating(ctx context.Context, id string, rating float64) (*models.Driver, error) {
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"rating": models.ClampRating(rating),
	}})
}

// RecordDelivery increments the delivery counters in a single write.
func (c *MongoDriverCollection) RecordDelivery(ctx context.Context, id string, onTime bool) (*models.Driver, error) {
	inc := bson.M{"totalDeliveries": 1}
	if onTime {
		inc["onTimeDeliveries"] = 1
	}
	return c.findOneAndUpdate(ctx, id, bson.M{
		"$inc": inc,
		"$set": bson.M{},
	})
}

// Stats computes per-status counts, average rating and summed delivery
// counters over the whole collection in a single pass. The on-time rate is
// derived from the sums at read time. An empty collection yields the zero
// value.
func (c *MongoDriverCollection) Stats(ctx context.Context) (models.DriverStats, error) {
	pipeline := []bson.M{{
		"$group": bson.M{
			"_id":              nil,
			"totalDrivers":     bson.M{"$sum": 1},
			"available":        statusCount(string(models.DriverAvailable)),
			"onDelivery":       statusCount(string(models.DriverOnDelivery)),
			"offDuty":          statusCount(string(models.DriverOffDuty)),
			"suspended":        statusCount(string(models.DriverSuspended)),
			"avgRating":        bson.M{"$avg": "$rating"},
			"totalDeliveries":  bson.M{"$sum": "$totalDeliveries"},
			"onTimeDeliveries": bson.M{"$sum": "$onTimeDeliveries"},
		},
	}}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.DriverStats{}, err
	}
	var results []models.DriverStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.DriverStats{}, err
	}

	var stats models.DriverStats
	if len(results) > 0 {
		stats = results[0]
	}
	stats.ComputeRate()
	return stats, nil
}

// ExperienceCounts buckets drivers by delivery count in a single pass.
func (c *MongoDriverCollection) ExperienceCounts(ctx context.Context) (models.DriverExperienceDistribution, error) {
	bucket := func(lower, upper int) bson.M {
		conds := bson.A{bson.M{"$gte": bson.A{"$totalDeliveries", lower}}}
		if upper > 0 {
			conds = append(conds, bson.M{"$lt": bson.A{"$totalDeliveries", upper}})
		}
		return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$and": conds}, 1, 0}}}
	}

	pipeline := []bson.M{{
		"$group": bson.M{
			"_id":          nil,
			"beginner":     bucket(0, 50),
			"intermediate": bucket(50, 200),
			"advanced":     bucket(200, 500),
			"expert":       bucket(500, 0),
			"total":        bson.M{"$sum": 1},
		},
	}}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.DriverExperienceDistribution{}, err
	}
	var results []struct {
		Beginner     int `bson:"beginner"`
		Intermediate int `bson:"intermediate"`
		Advanced     int `bson:"advanced"`
		Expert       int `bson:"expert"`
		Total        int `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return models.DriverExperienceDistribution{}, err
	}
	if len(results) == 0 {
		return models.DriverExperienceDistribution{}, nil
	}
	return models.DriverExperienceDistribution{
		Beginner:     results[0].Beginner,
		Intermediate: results[0].Intermediate,
		Advanced:     results[0].Advanced,
		Expert:       results[0].Expert,
		Total:        results[0].Total,
	}, nil
}

func (c *MongoDriverCollection) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Driver, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = c.Collection.Find(ctx, filter, opts)
	} else {
		cursor, err = c.Collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	drivers := []models.Driver{}
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (c *MongoDriverCollection) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Driver, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var driver models.Driver
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&driver)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "license or email"}
		}
		return nil, err
	}
	return &driver, nil
}
