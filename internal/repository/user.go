package repository

import (
	"context"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	gormConn
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{gormConn{db: db}}
}

func (r *userRepository) Upsert(ctx context.Context, e *entity.User) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	err := r.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "username", "image", "bio", "onboarded", "updated_at",
			}),
		}).
		Create(e).Error
	if err != nil {
		return translateError(err)
	}

	var stored entity.User
	if err := r.conn(ctx).Select("id", "created_at").Take(&stored, "external_id=?", e.ExternalID).Error; err != nil {
		return translateError(err)
	}

	e.ID = stored.ID
	e.CreatedAt = stored.CreatedAt
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := r.conn(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.User, error) {
	var result entity.User
	if err := r.conn(ctx).Take(&result, "external_id=?", externalID).Error; err != nil {
		return nil, translateError(err)
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	result := []entity.User{}
	if len(ids) == 0 {
		return result, nil
	}

	if err := r.conn(ctx).Where("id IN (?)", ids).Order("created_at ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) filter(ctx context.Context, filter UserFilter) *gorm.DB {
	tx := r.conn(ctx).Model(&entity.User{})

	if filter.Q != "" {
		tx = searchCondition(tx, filter.Q)
	}

	if filter.ExcludeExternalID != "" {
		tx = tx.Where("external_id<>?", filter.ExcludeExternalID)
	}

	return tx
}

func (r *userRepository) GetList(
	ctx context.Context, filter UserFilter, offset, limit int,
) ([]entity.User, error) {
	tx := r.filter(ctx, filter).Order("created_at DESC, id DESC")
	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}

	result := []entity.User{}
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	var count int64
	if err := r.filter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
