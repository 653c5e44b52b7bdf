package repository

import (
	"context"

	"github.com/echo-threads/backend/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type membershipRepository struct {
	gormConn
}

func NewMembershipRepository(db *gorm.DB) *membershipRepository {
	return &membershipRepository{gormConn{db: db}}
}

func (r *membershipRepository) Exists(ctx context.Context, userID, communityID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&entity.Membership{}).
		Where("user_id=? AND community_id=?", userID, communityID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *membershipRepository) Add(ctx context.Context, userID, communityID string) error {
	return r.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Membership{UserID: userID, CommunityID: communityID}).Error
}

func (r *membershipRepository) Remove(ctx context.Context, userID, communityID string) error {
	return r.conn(ctx).
		Delete(&entity.Membership{}, "user_id=? AND community_id=?", userID, communityID).Error
}

func (r *membershipRepository) RemoveByCommunity(ctx context.Context, communityID string) error {
	return r.conn(ctx).Delete(&entity.Membership{}, "community_id=?", communityID).Error
}

func (r *membershipRepository) GetUserIDs(ctx context.Context, communityID string) ([]string, error) {
	ids := []string{}
	err := r.conn(ctx).
		Model(&entity.Membership{}).
		Where("community_id=?", communityID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *membershipRepository) GetCommunityIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.conn(ctx).
		Model(&entity.Membership{}).
		Where("user_id=?", userID).
		Order("created_at ASC").
		Pluck("community_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
