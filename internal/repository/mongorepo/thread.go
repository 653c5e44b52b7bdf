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

type threadRepository struct {
	threads *mongo.Collection
}

func NewThreadRepository(db *mongo.Database) *threadRepository {
	return &threadRepository{threads: db.Collection(entity.ThreadCollection)}
}

func (r *threadRepository) Create(ctx context.Context, e *entity.Thread) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = e.CreatedAt

	_, err := r.threads.InsertOne(ctx, e)
	return translateError(err)
}

func (r *threadRepository) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	var result entity.Thread
	if err := r.threads.FindOne(ctx, bson.M{"_id": id}).Decode(&result); err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func threadQuery(filter repository.ThreadFilter) bson.M {
	query := bson.M{}

	if filter.ID != "" {
		query["_id"] = filter.ID
	}

	if filter.CommunityID != "" {
		query["community_id"] = filter.CommunityID
	}

	author := bson.M{}
	if filter.AuthorID != "" {
		author["$eq"] = filter.AuthorID
	}
	if filter.ExcludeAuthorID != "" {
		author["$ne"] = filter.ExcludeAuthorID
	}
	if len(author) > 0 {
		query["author_id"] = author
	}

	if filter.ParentIDs != nil {
		query["parent_id"] = bson.M{"$in": filter.ParentIDs}
	}

	if filter.RootOnly {
		// Matches both a null and a missing parent.
		query["parent_id"] = nil
	}

	return query
}

func refProjection(field string) bson.M {
	return bson.M{
		"_id":   "$" + field + "._id",
		"name":  "$" + field + ".name",
		"image": "$" + field + ".image",
	}
}

func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         from,
			"localField":   localField,
			"foreignField": "_id",
			"as":           as,
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$" + as,
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

// threadPipeline matches, sorts and pages the threads before joining them,
// so the joins only run on the returned page.
func threadPipeline(filter repository.ThreadFilter, offset, limit int) mongo.Pipeline {
	direction := -1
	if filter.OldestFirst {
		direction = 1
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: threadQuery(filter)}},
		{{Key: "$sort", Value: bson.D{
			{Key: "created_at", Value: direction},
			{Key: "_id", Value: direction},
		}}},
	}

	if limit > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: int64(offset)}},
			bson.D{{Key: "$limit", Value: int64(limit)}},
		)
	}

	replies := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$expr": bson.M{"$eq": bson.A{"$parent_id", "$$thread_id"}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	replies = append(replies, lookupOne(entity.UserCollection, "author_id", "author")...)
	replies = append(replies, bson.D{{Key: "$project", Value: bson.M{
		"_id":    1,
		"author": refProjection("author"),
	}}})

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":     entity.ThreadCollection,
			"let":      bson.M{"thread_id": "$_id"},
			"pipeline": replies,
			"as":       "replies",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": entity.LikeCollection,
			"let":  bson.M{"thread_id": "$_id"},
			"pipeline": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{
					"$expr": bson.M{"$eq": bson.A{"$thread_id", "$$thread_id"}},
				}}},
				{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}}}},
			},
			"as": "likes",
		}}},
	)
	pipeline = append(pipeline, lookupOne(entity.UserCollection, "author_id", "author")...)
	pipeline = append(pipeline, lookupOne(entity.CommunityCollection, "community_id", "community")...)
	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.M{
		"_id":        1,
		"text":       1,
		"parent_id":  1,
		"created_at": 1,
		"replies":    1,
		"author":     refProjection("author"),
		"community": bson.M{"$cond": bson.A{
			bson.M{"$ifNull": bson.A{"$community", false}},
			refProjection("community"),
			nil,
		}},
		"likes": bson.M{"$map": bson.M{
			"input": "$likes",
			"as":    "like",
			"in":    "$$like.user_id",
		}},
	}}})

	return pipeline
}

func (r *threadRepository) GetList(
	ctx context.Context, filter repository.ThreadFilter, offset, limit int,
) ([]repository.ThreadRecord, error) {
	cursor, err := r.threads.Aggregate(ctx, threadPipeline(filter, offset, limit))
	if err != nil {
		return nil, err
	}

	records := []repository.ThreadRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *threadRepository) Count(ctx context.Context, filter repository.ThreadFilter) (int64, error) {
	return r.threads.CountDocuments(ctx, threadQuery(filter))
}

func (r *threadRepository) GetIDs(ctx context.Context, filter repository.ThreadFilter) ([]string, error) {
	cursor, err := r.threads.Find(ctx, threadQuery(filter),
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	return ids, nil
}

func (r *threadRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.threads.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}
