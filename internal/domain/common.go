package domain

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/echo-threads/backend/internal/common"
	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/pubsub"
	"github.com/echo-threads/backend/pkg/xcontext"
)

const ThreadTopic = "thread"

// pagination converts a 1-based page into an offset and a limit.
func pagination(ctx context.Context, page, pageSize int) (offset int, limit int, err error) {
	if page < 1 {
		return 0, 0, errorx.New(errorx.BadRequest, "Page must be at least 1")
	}

	if pageSize < 1 {
		return 0, 0, errorx.New(errorx.BadRequest, "Page size must be at least 1")
	}

	if maxLimit := xcontext.Configs(ctx).ApiServer.MaxLimit; maxLimit > 0 && pageSize > maxLimit {
		return 0, 0, errorx.New(errorx.BadRequest, "Page size must not exceed %d", maxLimit)
	}

	if page-1 > math.MaxInt/pageSize {
		return 0, 0, errorx.New(errorx.BadRequest, "Page is out of range")
	}

	return (page - 1) * pageSize, pageSize, nil
}

func isNext(total int64, offset, count int) bool {
	return total > int64(offset+count)
}

// requestUser returns the stored user of the authenticated caller.
func requestUser(ctx context.Context, userRepo repository.UserRepository) (*entity.User, error) {
	externalID := xcontext.RequestUserID(ctx)
	if externalID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to sign in first")
	}

	user, err := userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get request user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

// collectThreadTree returns the given threads and all of their descendants.
func collectThreadTree(
	ctx context.Context, threadRepo repository.ThreadRepository, roots []string,
) ([]string, error) {
	ids := append([]string{}, roots...)
	seen := map[string]bool{}
	for _, id := range roots {
		seen[id] = true
	}

	frontier := roots
	for len(frontier) > 0 {
		children, err := threadRepo.GetIDs(ctx, repository.ThreadFilter{ParentIDs: frontier})
		if err != nil {
			return nil, err
		}

		frontier = nil
		for _, id := range children {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
			frontier = append(frontier, id)
		}
	}

	return ids, nil
}

// deleteThreads removes the threads with their likes. It must be called
// inside a transaction.
func deleteThreads(
	ctx context.Context,
	threadRepo repository.ThreadRepository,
	likeRepo repository.LikeRepository,
	ids []string,
) error {
	if err := likeRepo.DeleteByThreadIDs(ctx, ids); err != nil {
		return err
	}

	return threadRepo.DeleteByIDs(ctx, ids)
}

// asDomainError keeps errorx errors returned from a transaction and turns
// anything else into a TransactionFailure.
func asDomainError(ctx context.Context, err error, msg string) error {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx
	}

	xcontext.Logger(ctx).Errorf("%s: %v", msg, err)
	return errorx.New(errorx.TransactionFailure, msg)
}

func publishEvent(ctx context.Context, publisher pubsub.Publisher, topic, key string, event any) {
	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
		return
	}

	err = publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(key), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish event to %s: %v", topic, err)
		common.PromCounters[common.PublishFailureTotal].WithLabelValues(topic).Inc()
	}
}
