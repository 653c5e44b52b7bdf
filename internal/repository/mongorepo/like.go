package mongorepo

import (
	"context"
	"time"

	"github.com/echo-threads/backend/internal/entity"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type likeRepository struct {
	likes *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *likeRepository {
	return &likeRepository{likes: db.Collection(entity.LikeCollection)}
}

func (r *likeRepository) Create(ctx context.Context, e *entity.Like) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.likes.UpdateOne(ctx,
		bson.M{"thread_id": e.ThreadID, "user_id": e.UserID},
		bson.M{"$setOnInsert": bson.M{"created_at": e.CreatedAt}},
		options.UpdateOne().SetUpsert(true),
	)
	// A concurrent like of the same thread won the upsert.
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}

	return err
}

func (r *likeRepository) Delete(ctx context.Context, threadID, userID string) error {
	_, err := r.likes.DeleteOne(ctx, bson.M{"thread_id": threadID, "user_id": userID})
	return err
}

func (r *likeRepository) DeleteByThreadIDs(ctx context.Context, threadIDs []string) error {
	if len(threadIDs) == 0 {
		return nil
	}

	_, err := r.likes.DeleteMany(ctx, bson.M{"thread_id": bson.M{"$in": threadIDs}})
	return err
}
