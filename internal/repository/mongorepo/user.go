package mongorepo

import (
	"context"
	"time"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type userRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{users: db.Collection(entity.UserCollection)}
}

func (r *userRepository) Upsert(ctx context.Context, e *entity.User) error {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       e.Name,
			"username":   e.Username,
			"image":      e.Image,
			"bio":        e.Bio,
			"onboarded":  e.Onboarded,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":         id,
			"created_at":  now,
			"communities": []string{},
		},
	}

	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"external_id": e.ExternalID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(e)
	return translateError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&result); err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	var result entity.User
	if err := r.users.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&result); err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	result := []entity.User{}
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.users.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func userQuery(filter repository.UserFilter) bson.M {
	query := bson.M{}
	if filter.Q != "" {
		query["$or"] = searchQuery(filter.Q)
	}

	if filter.ExcludeExternalID != "" {
		query["external_id"] = bson.M{"$ne": filter.ExcludeExternalID}
	}

	return query
}

func (r *userRepository) GetList(
	ctx context.Context, filter repository.UserFilter, offset, limit int,
) ([]entity.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetSkip(int64(offset)).SetLimit(int64(limit))
	}

	cursor, err := r.users.Find(ctx, userQuery(filter), opts)
	if err != nil {
		return nil, err
	}

	result := []entity.User{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context, filter repository.UserFilter) (int64, error) {
	return r.users.CountDocuments(ctx, userQuery(filter))
}
