package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection       = "users"
	MitrasCollection      = "mitras"
	PickupsCollection     = "pickups"
	VouchersCollection    = "vouchers"
	RedemptionsCollection = "redemptions"
)

var indexes = map[string][]mongo.IndexModel{
	UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "points", Value: -1}}},
	},
	MitrasCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	PickupsCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	VouchersCollection: {
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "pointsRequired", Value: 1}}},
		{Keys: bson.D{{Key: "sponsoredBy", Value: 1}}},
	},
	RedemptionsCollection: {
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "voucherId", Value: 1}}},
	},
}

// EnsureIndexes creates the indexes every repository relies on. Creating an
// existing index is a no-op, so this is safe to call at every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
