package repository

import (
	"context"

	"github.com/echo-threads/backend/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type communityRepository struct {
	gormConn
}

func NewCommunityRepository(db *gorm.DB) *communityRepository {
	return &communityRepository{gormConn{db: db}}
}

func (r *communityRepository) Create(ctx context.Context, e *entity.Community) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(e).Error)
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	var result entity.Community
	if err := r.conn(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *communityRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Community, error) {
	var result entity.Community
	if err := r.conn(ctx).Take(&result, "external_id=?", externalID).Error; err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *communityRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Community, error) {
	result := []entity.Community{}
	if len(ids) == 0 {
		return result, nil
	}

	if err := r.conn(ctx).Where("id IN (?)", ids).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) UpdateByExternalID(
	ctx context.Context, externalID string, data CommunityUpdate,
) (*entity.Community, error) {
	community, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	err = r.conn(ctx).
		Model(&entity.Community{}).
		Where("id=?", community.ID).
		Updates(map[string]any{
			"name":     data.Name,
			"username": data.Username,
			"image":    data.Image,
		}).Error
	if err != nil {
		return nil, translateError(err)
	}

	return r.GetByID(ctx, community.ID)
}

func (r *communityRepository) DeleteByExternalID(ctx context.Context, externalID string) (*entity.Community, error) {
	community, err := r.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if err := r.conn(ctx).Delete(&entity.Community{}, "id=?", community.ID).Error; err != nil {
		return nil, err
	}

	return community, nil
}

func (r *communityRepository) filter(ctx context.Context, filter CommunityFilter) *gorm.DB {
	tx := r.conn(ctx).Model(&entity.Community{})

	if filter.Q != "" {
		tx = searchCondition(tx, filter.Q)
	}

	return tx
}

func (r *communityRepository) GetList(
	ctx context.Context, filter CommunityFilter, offset, limit int,
) ([]entity.Community, error) {
	tx := r.filter(ctx, filter).Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}

	result := []entity.Community{}
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityRepository) Count(ctx context.Context, filter CommunityFilter) (int64, error) {
	var count int64
	if err := r.filter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *communityRepository) GetByUser(ctx context.Context, userID string) ([]entity.Community, error) {
	memberships := r.conn(ctx).
		Model(&entity.Membership{}).
		Select("community_id").
		Where("user_id=?", userID)

	result := []entity.Community{}
	err := r.conn(ctx).
		Where("created_by=? OR id IN (?)", userID, memberships).
		Order("created_at DESC, id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
