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

// MongoShipmentCollection implements ShipmentCollection on a MongoDB
// collection.
type MongoShipmentCollection struct {
	Collection *mongo.Collection
}

// Insert saves a new shipment, setting timestamps and defaulting status and
// priority.
func (c *MongoShipmentCollection) Insert(ctx context.Context, shipment models.Shipment) (*models.Shipment, error) {
	now := time.Now()
	shipment.ID = primitive.NewObjectID()
	if shipment.Status == "" {
		shipment.Status = models.ShipmentPending
	}
	if shipment.Priority == "" {
		shipment.Priority = models.PriorityMedium
	}
	if shipment.Notes == nil {
		shipment.Notes = []string{}
	}
	shipment.CreatedAt = now
	shipment.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, shipment); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "tracking number"}
		}
		return nil, err
	}
	return &shipment, nil
}

// FindByID finds a shipment by its ID.
func (c *MongoShipmentCollection) FindByID(ctx context.Context, id string) (*models.Shipment, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var shipment models.Shipment
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&shipment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &shipment, nil
}

// List returns one page of shipments matching the filters plus the total
// count of matches.
func (c *MongoShipmentCollection) List(ctx context.Context, filters models.ShipmentFilters) ([]models.Shipment, int64, error) {
	filter := bson.M{}
	if filters.Status != "" {
		filter["status"] = filters.Status
	}
	if filters.Priority != "" {
		filter["priority"] = filters.Priority
	}
	if filters.Search != "" {
		filter["$or"] = shipmentSearchClauses(filters.Search)
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
	shipments := []models.Shipment{}
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, 0, err
	}

	total, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return shipments, total, nil
}

// Update applies a partial update to a shipment and returns the updated
// document.
func (c *MongoShipmentCollection) Update(ctx context.Context, id string, update models.ShipmentUpdate) (*models.Shipment, error) {
	set := bson.M{}
	if update.TrackingNumber != nil {
		set["trackingNumber"] = *update.TrackingNumber
	}
	if update.Origin != nil {
		set["origin"] = *update.Origin
	}
	if update.Destination != nil {
		set["destination"] = *update.Destination
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Priority != nil {
		set["priority"] = *update.Priority
	}
	if update.Weight != nil {
		set["weight"] = *update.Weight
	}
	if update.Customer != nil {
		set["customer"] = *update.Customer
	}
	if update.Driver != nil {
		set["driver"] = *update.Driver
	}
	if update.EstimatedDelivery != nil {
		set["estimatedDelivery"] = *update.EstimatedDelivery
	}
	if update.Route != nil {
		set["route"] = *update.Route
	}
	return c.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

// Delete removes a shipment by its ID.
func (c *MongoShipmentCollection) Delete(ctx context.Context, id string) error {
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

// Search finds shipments whose tracking number, customer name, origin or
// destination matches the term, case-insensitively.
func (c *MongoShipmentCollection) Search(ctx context.Context, term string) ([]models.Shipment, error) {
	return c.findAll(ctx, bson.M{"$or": shipmentSearchClauses(term)}, nil)
}

// FindByStatus returns all shipments with the given status.
func (c *MongoShipmentCollection) FindByStatus(ctx context.Context, status models.ShipmentStatus) ([]models.Shipment, error) {
	return c.findAll(ctx, bson.M{"status": status}, nil)
}

// FindRecent returns the most recently created shipments.
func (c *MongoShipmentCollection) FindRecent(ctx context.Context, limit int) ([]models.Shipment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	return c.findAll(ctx, bson.M{}, opts)
}

// FindUrgent returns all shipments with urgent priority.
func (c *MongoShipmentCollection) FindUrgent(ctx context.Context) ([]models.Shipment, error) {
	return c.findAll(ctx, bson.M{"priority": models.PriorityUrgent}, nil)
}

// FindDelayed returns delayed shipments whose estimate has already passed.
func (c *MongoShipmentCollection) FindDelayed(ctx context.Context, now time.Time) ([]models.Shipment, error) {
	filter := bson.M{
		"status":            models.ShipmentDelayed,
		"estimatedDelivery": bson.M{"$lt": now},
	}
	return c.findAll(ctx, filter, nil)
}

// UpdateStatus transitions a shipment to a new status in a single write,
// appending a note when one is given.
func (c *MongoShipmentCollection) UpdateStatus(ctx context.Context, id string, status models.ShipmentStatus, note string) (*models.Shipment, error) {
	update := bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	}
	if note != "" {
		update["$push"] = bson.M{"notes": note}
	}
	return c.findOneAndUpdate(ctx, id, update)
}

// MarkDelivered transitions a shipment to delivered and records the actual
// delivery time.
func (c *MongoShipmentCollection) MarkDelivered(ctx context.Context, id string, actual time.Time) (*models.Shipment, error) {
	update := bson.M{"$set": bson.M{
		"status":         models.ShipmentDelivered,
		"actualDelivery": actual,
		"updatedAt":      time.Now(),
	}}
	return c.findOneAndUpdate(ctx, id, update)
}

// Stats computes per-status counts over the whole collection in a single
// pass. An empty collection yields the zero value.
func (c *MongoShipmentCollection) Stats(ctx context.Context) (models.ShipmentStats, error) {
	pipeline := []bson.M{{
		"$group": bson.M{
			"_id":            nil,
			"totalShipments": bson.M{"$sum": 1},
			"inTransit":      statusCount(string(models.ShipmentInTransit)),
			"delivered":      statusCount(string(models.ShipmentDelivered)),
			"pending":        statusCount(string(models.ShipmentPending)),
			"delayed":        statusCount(string(models.ShipmentDelayed)),
			"cancelled":      statusCount(string(models.ShipmentCancelled)),
		},
	}}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ShipmentStats{}, err
	}
	var results []models.ShipmentStats
	if err := cursor.All(ctx, &results); err != nil {
		return models.ShipmentStats{}, err
	}
	if len(results) == 0 {
		return models.ShipmentStats{}, nil
	}
	return results[0], nil
}

// DeliveredOnTimeCounts counts delivered shipments and how many of them
// arrived on or before their estimate, in one pass.
func (c *MongoShipmentCollection) DeliveredOnTimeCounts(ctx context.Context) (int, int, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"status":         models.ShipmentDelivered,
			"actualDelivery": bson.M{"$exists": true, "$ne": nil},
		}},
		{"$addFields": bson.M{
			"isOnTime": bson.M{"$lte": bson.A{"$actualDelivery", "$estimatedDelivery"}},
		}},
		{"$group": bson.M{
			"_id":         nil,
			"count":       bson.M{"$sum": 1},
			"onTimeCount": bson.M{"$sum": bson.M{"$cond": bson.A{"$isOnTime", 1, 0}}},
		}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	var results []struct {
		Count       int `bson:"count"`
		OnTimeCount int `bson:"onTimeCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].Count, results[0].OnTimeCount, nil
}

// AvgDeliveryTimeHours averages creation-to-delivery time over delivered
// shipments, in hours. Zero when nothing has been delivered.
func (c *MongoShipmentCollection) AvgDeliveryTimeHours(ctx context.Context) (float64, error) {
	pipeline := []bson.M{
		{"$match": bson.M{
			"status":         models.ShipmentDelivered,
			"actualDelivery": bson.M{"$exists": true},
		}},
		{"$addFields": bson.M{
			"deliveryTime": bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{"$actualDelivery", "$createdAt"}},
				1000 * 60 * 60,
			}},
		}},
		{"$group": bson.M{
			"_id":     nil,
			"avgTime": bson.M{"$avg": "$deliveryTime"},
		}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var results []struct {
		AvgTime float64 `bson:"avgTime"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].AvgTime, nil
}

func (c *MongoShipmentCollection) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Shipment, error) {
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
	shipments := []models.Shipment{}
	if err := cursor.All(ctx, &shipments); err != nil {
		return nil, err
	}
	return shipments, nil
}

func (c *MongoShipmentCollection) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Shipment, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var shipment models.Shipment
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&shipment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateKeyError{Field: "tracking number"}
		}
		return nil, err
	}
	return &shipment, nil
}

func shipmentSearchClauses(term string) bson.A {
	regex := bson.M{"$regex": term, "$options": "i"}
	return bson.A{
		bson.M{"trackingNumber": regex},
		bson.M{"customer.name": regex},
		bson.M{"origin": regex},
		bson.M{"destination": regex},
	}
}
