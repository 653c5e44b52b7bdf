package mongorepo

import (
	"context"
	"time"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type communityRepository struct {
	communities *mongo.Collection
}

func NewCommunityRepository(db *mongo.Database) *communityRepository {
	return &communityRepository{communities: db.Collection(entity.CommunityCollection)}
}

func (r *communityRepository) Create(ctx context.Context, e *entity.Community) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = e.CreatedAt

	// $addToSet fails on a null array.
	if e.Members == nil {
		e.Members = []string{}
	}

	_, err := r.communities.InsertOne(ctx, e)
	return translateError(err)
}

func (r *communityRepository) findOne(ctx context.Context, query bson.M) (*entity.Community, error) {
	var result entity.Community
	if err := r.communities.FindOne(ctx, query).Decode(&result); err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *communityRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Community, error) {
	return r.findOne(ctx, bson.M{"external_id": externalID})
}

func (r *communityRepository) find(ctx context.Context, query bson.M, opts *options.FindOptionsBuilder) ([]entity.Community, error) {
	cursor, err := r.communities.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	result := []entity.Community{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Community, error) {
	if len(ids) == 0 {
		return []entity.Community{}, nil
	}

	return r.find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
}

func (r *communityRepository) UpdateByExternalID(
	ctx context.Context, externalID string, data repository.CommunityUpdate,
) (*entity.Community, error) {
	var result entity.Community
	err := r.communities.FindOneAndUpdate(ctx,
		bson.M{"external_id": externalID},
		bson.M{"$set": bson.M{
			"name":       data.Name,
			"username":   data.Username,
			"image":      data.Image,
			"updated_at": time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&result)
	if err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *communityRepository) DeleteByExternalID(ctx context.Context, externalID string) (*entity.Community, error) {
	var result entity.Community
	err := r.communities.FindOneAndDelete(ctx, bson.M{"external_id": externalID}).Decode(&result)
	if err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func communityQuery(filter repository.CommunityFilter) bson.M {
	query := bson.M{}
	if filter.Q != "" {
		query["$or"] = searchQuery(filter.Q)
	}
	return query
}

func (r *communityRepository) GetList(
	ctx context.Context, filter repository.CommunityFilter, offset, limit int,
) ([]entity.Community, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetSkip(int64(offset)).SetLimit(int64(limit))
	}

	return r.find(ctx, communityQuery(filter), opts)
}

func (r *communityRepository) Count(ctx context.Context, filter repository.CommunityFilter) (int64, error) {
	return r.communities.CountDocuments(ctx, communityQuery(filter))
}

func (r *communityRepository) GetByUser(ctx context.Context, userID string) ([]entity.Community, error) {
	return r.find(ctx,
		bson.M{"$or": bson.A{
			bson.M{"created_by": userID},
			bson.M{"members": userID},
		}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
}
