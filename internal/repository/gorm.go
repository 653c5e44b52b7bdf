package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// likeEscaper escapes LIKE wildcards with '!', accepted by mysql and sqlite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// searchCondition matches q case-insensitively anywhere in name or username,
// taking the LIKE wildcards of q literally.
func searchCondition(tx *gorm.DB, q string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	return tx.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(username) LIKE ? ESCAPE '!')", pattern, pattern)
}

type gormConn struct {
	db *gorm.DB
}

// conn returns the transaction carried by ctx, or the repository handle.
func (c gormConn) conn(ctx context.Context) *gorm.DB {
	if tx := xcontext.DBTransaction(ctx); tx != nil {
		return tx.WithContext(ctx)
	}
	return c.db.WithContext(ctx)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	if isDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ErrDuplicated, err)
	}

	return err
}

func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	return false
}

type gormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *gormTransactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if xcontext.DBTransaction(ctx) != nil {
		return fn(ctx)
	}

	tx := t.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(xcontext.WithDBTransaction(ctx, tx)); err != nil {
		if rerr := tx.Rollback().Error; rerr != nil {
			xcontext.Logger(ctx).Errorf("Cannot rollback transaction: %v", rerr)
		}
		return err
	}

	return tx.Commit().Error
}
