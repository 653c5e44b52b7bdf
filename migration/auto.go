package migration

import (
	"github.com/echo-threads/backend/internal/entity"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every relational table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Community{},
		&entity.Thread{},
		&entity.Like{},
		&entity.Membership{},
	)
}
