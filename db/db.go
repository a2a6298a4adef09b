package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the repositories.
const (
	ColUsers        = "users"
	ColEvents       = "events"
	ColBoughtEvents = "boughtevents"
	ColSmartPlates  = "smartplates"
	ColContacts     = "contacts"
)

// Open connects to MongoDB and verifies the deployment with a ping.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on: the unique
// email constraint and the purchase-line (eventId, buyer) lookup.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(ColUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return err
	}

	_, err = database.Collection(ColBoughtEvents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "eventId", Value: 1},
			{Key: "userThatBought", Value: 1},
		},
		Options: options.Index().SetName("bought_event_buyer"),
	})
	return err
}
