package migration

import (
	"context"
	"fmt"

	"github.com/echo-threads/backend/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var mongoIndexes = map[string][]mongo.IndexModel{
	entity.UserCollection: {
		{Keys: bson.D{{Key: "external_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	},
	entity.CommunityCollection: {
		{Keys: bson.D{{Key: "external_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "members", Value: 1}}},
	},
	entity.ThreadCollection: {
		{Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "community_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
	},
	entity.LikeCollection: {
		{
			Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	},
}

// EnsureMongoIndexes creates the collections used in transactions and their
// indexes. Creating an existing index is a no-op.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("cannot list collections: %w", err)
	}

	exists := map[string]bool{}
	for _, name := range existing {
		exists[name] = true
	}

	for collection, indexes := range mongoIndexes {
		// Collections cannot be created implicitly inside a transaction on
		// older servers.
		if !exists[collection] {
			if err := db.CreateCollection(ctx, collection); err != nil {
				return fmt.Errorf("cannot create collection %s: %w", collection, err)
			}
		}

		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("cannot create indexes of %s: %w", collection, err)
		}
	}

	return nil
}
