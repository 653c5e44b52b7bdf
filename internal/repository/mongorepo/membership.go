package mongorepo

import (
	"context"
	"errors"

	"github.com/echo-threads/backend/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// membershipRepository stores memberships as two reference arrays,
// communities.members and users.communities.
type membershipRepository struct {
	users       *mongo.Collection
	communities *mongo.Collection
}

func NewMembershipRepository(db *mongo.Database) *membershipRepository {
	return &membershipRepository{
		users:       db.Collection(entity.UserCollection),
		communities: db.Collection(entity.CommunityCollection),
	}
}

func (r *membershipRepository) Exists(ctx context.Context, userID, communityID string) (bool, error) {
	count, err := r.communities.CountDocuments(ctx, bson.M{"_id": communityID, "members": userID})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *membershipRepository) Add(ctx context.Context, userID, communityID string) error {
	if _, err := r.communities.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	); err != nil {
		return err
	}

	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"communities": communityID}},
	)
	return err
}

func (r *membershipRepository) Remove(ctx context.Context, userID, communityID string) error {
	if _, err := r.communities.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$pull": bson.M{"members": userID}},
	); err != nil {
		return err
	}

	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"communities": communityID}},
	)
	return err
}

func (r *membershipRepository) RemoveByCommunity(ctx context.Context, communityID string) error {
	if _, err := r.users.UpdateMany(ctx,
		bson.M{"communities": communityID},
		bson.M{"$pull": bson.M{"communities": communityID}},
	); err != nil {
		return err
	}

	_, err := r.communities.UpdateOne(ctx,
		bson.M{"_id": communityID},
		bson.M{"$set": bson.M{"members": []string{}}},
	)
	return err
}

func (r *membershipRepository) GetUserIDs(ctx context.Context, communityID string) ([]string, error) {
	var doc struct {
		Members []string `bson:"members"`
	}

	err := r.communities.FindOne(ctx,
		bson.M{"_id": communityID},
		options.FindOne().SetProjection(bson.M{"members": 1}),
	).Decode(&doc)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if doc.Members == nil {
		return []string{}, nil
	}
	return doc.Members, nil
}

func (r *membershipRepository) GetCommunityIDs(ctx context.Context, userID string) ([]string, error) {
	var doc struct {
		Communities []string `bson:"communities"`
	}

	err := r.users.FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"communities": 1}),
	).Decode(&doc)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	if doc.Communities == nil {
		return []string{}, nil
	}
	return doc.Communities, nil
}
