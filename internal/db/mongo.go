package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names for the three entity types.
const (
	ShipmentsCollection = "shipments"
	VehiclesCollection  = "vehicles"
	DriversCollection   = "drivers"
)

// ConnectMongo connects to MongoDB at the given URI and verifies the
// connection with a ping.
func ConnectMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the uniqueness constraints on the natural keys and
// the secondary indexes used for filtering and sorting.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	shipments := []mongo.IndexModel{
		{Keys: bson.D{{Key: "trackingNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "priority", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "estimatedDelivery", Value: 1}}},
	}
	if _, err := database.Collection(ShipmentsCollection).Indexes().CreateMany(ctx, shipments); err != nil {
		return fmt.Errorf("shipment indexes: %w", err)
	}

	vehicles := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plate", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "type", Value: 1}}},
		{Keys: bson.D{{Key: "nextMaintenance", Value: 1}}},
	}
	if _, err := database.Collection(VehiclesCollection).Indexes().CreateMany(ctx, vehicles); err != nil {
		return fmt.Errorf("vehicle indexes: %w", err)
	}

	drivers := []mongo.IndexModel{
		{Keys: bson.D{{Key: "license", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
	}
	if _, err := database.Collection(DriversCollection).Indexes().CreateMany(ctx, drivers); err != nil {
		return fmt.Errorf("driver indexes: %w", err)
	}

	return nil
}

// statusCount builds the conditional counter for one status value inside a
// $group stage.
func statusCount(status string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", status}}, 1, 0}}}
}

// sortDirection maps an order string to a Mongo sort direction.
func sortDirection(order string) int {
	if order == "asc" {
		return 1
	}
	return -1
}
