package repository

import (
	"context"

	"github.com/echo-threads/backend/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type likeRepository struct {
	gormConn
}

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{gormConn{db: db}}
}

func (r *likeRepository) Create(ctx context.Context, e *entity.Like) error {
	return r.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e).Error
}

func (r *likeRepository) Delete(ctx context.Context, threadID, userID string) error {
	return r.conn(ctx).Delete(&entity.Like{}, "thread_id=? AND user_id=?", threadID, userID).Error
}

func (r *likeRepository) DeleteByThreadIDs(ctx context.Context, threadIDs []string) error {
	if len(threadIDs) == 0 {
		return nil
	}

	return r.conn(ctx).Delete(&entity.Like{}, "thread_id IN (?)", threadIDs).Error
}
