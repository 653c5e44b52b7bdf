package migration

import (
	"testing"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAutoMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))

	for _, table := range []any{
		&entity.User{}, &entity.Community{}, &entity.Thread{}, &entity.Like{}, &entity.Membership{},
	} {
		require.True(t, db.Migrator().HasTable(table))
	}

	require.True(t, db.Migrator().HasColumn(&entity.Thread{}, "parent_id"))
	require.False(t, db.Migrator().HasColumn(&entity.Community{}, "members"))
}
