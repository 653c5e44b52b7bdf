// Package mongorepo implements the repository interfaces on a mongodb
// database. Multi-document transactions need a replica set.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/echo-threads/backend/internal/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicated, err)
	}

	return err
}

// searchQuery matches q in name or username, case insensitive.
func searchQuery(q string) bson.A {
	pattern := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	return bson.A{
		bson.M{"name": pattern},
		bson.M{"username": pattern},
	}
}

type transactor struct {
	client *mongo.Client
}

func NewTransactor(db *mongo.Database) *transactor {
	return &transactor{client: db.Client()}
}

func (t *transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("cannot start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}
