package repository

import (
	"context"

	"github.com/echo-threads/backend/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type threadRepository struct {
	gormConn
}

func NewThreadRepository(db *gorm.DB) *threadRepository {
	return &threadRepository{gormConn{db: db}}
}

func (r *threadRepository) Create(ctx context.Context, e *entity.Thread) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(e).Error)
}

func (r *threadRepository) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	var result entity.Thread
	if err := r.conn(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *threadRepository) filter(ctx context.Context, filter ThreadFilter) *gorm.DB {
	tx := r.conn(ctx).Model(&entity.Thread{})

	if filter.ID != "" {
		tx = tx.Where("id=?", filter.ID)
	}

	if filter.CommunityID != "" {
		tx = tx.Where("community_id=?", filter.CommunityID)
	}

	if filter.AuthorID != "" {
		tx = tx.Where("author_id=?", filter.AuthorID)
	}

	if filter.ParentIDs != nil {
		tx = tx.Where("parent_id IN (?)", filter.ParentIDs)
	}

	if filter.ExcludeAuthorID != "" {
		tx = tx.Where("author_id<>?", filter.ExcludeAuthorID)
	}

	if filter.RootOnly {
		tx = tx.Where("parent_id IS NULL")
	}

	return tx
}

func selectAuthor(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "image")
}

func (r *threadRepository) GetList(
	ctx context.Context, filter ThreadFilter, offset, limit int,
) ([]ThreadRecord, error) {
	order := "created_at DESC, id DESC"
	if filter.OldestFirst {
		order = "created_at ASC, id ASC"
	}

	tx := r.filter(ctx, filter).
		Preload("Author", selectAuthor).
		Preload("Community").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "parent_id", "author_id", "created_at").Order("created_at ASC, id ASC")
		}).
		Preload("Replies.Author", selectAuthor).
		Order(order)

	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}

	var threads []entity.Thread
	if err := tx.Find(&threads).Error; err != nil {
		return nil, err
	}

	records := make([]ThreadRecord, 0, len(threads))
	for _, t := range threads {
		records = append(records, toThreadRecord(t))
	}

	return records, nil
}

func (r *threadRepository) Count(ctx context.Context, filter ThreadFilter) (int64, error) {
	var count int64
	if err := r.filter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *threadRepository) GetIDs(ctx context.Context, filter ThreadFilter) ([]string, error) {
	ids := []string{}
	if err := r.filter(ctx, filter).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *threadRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return r.conn(ctx).Where("id IN (?)", ids).Delete(&entity.Thread{}).Error
}

func toThreadRecord(t entity.Thread) ThreadRecord {
	record := ThreadRecord{
		ID:       t.ID,
		Text:     t.Text,
		ParentID: t.ParentID,
		Author: AuthorRecord{
			ID:    t.Author.ID,
			Name:  t.Author.Name,
			Image: t.Author.Image,
		},
		Replies:   make([]ReplyRecord, 0, len(t.Replies)),
		Likes:     make([]string, 0, len(t.Likes)),
		CreatedAt: t.CreatedAt,
	}

	if t.Community != nil {
		record.Community = &CommunityRecord{
			ID:    t.Community.ID,
			Name:  t.Community.Name,
			Image: t.Community.Image,
		}
	}

	for _, reply := range t.Replies {
		record.Replies = append(record.Replies, ReplyRecord{
			ID: reply.ID,
			Author: AuthorRecord{
				ID:    reply.Author.ID,
				Name:  reply.Author.Name,
				Image: reply.Author.Image,
			},
		})
	}

	for _, like := range t.Likes {
		record.Likes = append(record.Likes, like.UserID)
	}

	return record
}
