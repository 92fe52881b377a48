package db

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

// testCollection connects to the test database and returns a dropped, clean
// collection. Integration tests are skipped when no MongoDB is reachable.
func testCollection(t *testing.T, name string) *mongo.Collection {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := ConnectMongo(uri)
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	t.Cleanup(func() {
		client.Disconnect(context.Background())
	})

	collection := client.Database("test_rastreapp").Collection(name)
	if err := collection.Drop(context.Background()); err != nil {
		t.Fatalf("failed to drop collection: %v", err)
	}
	return collection
}
