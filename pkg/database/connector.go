package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/echo-threads/backend/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrClosed = errors.New("database connector is closed")

// Connector owns the store handles of the process. Handles are opened on the
// first call and reused afterwards; Close releases them.
type Connector struct {
	cfg config.DatabaseConfigs

	mu     sync.Mutex
	closed bool
	client *mongo.Client
	db     *gorm.DB
}

func NewConnector(cfg config.DatabaseConfigs) *Connector {
	return &Connector{cfg: cfg}
}

func (c *Connector) Driver() string {
	return c.cfg.Driver
}

// Mongo returns the configured mongo database, connecting and pinging the
// server on the first call.
func (c *Connector) Mongo(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if c.client == nil {
		if c.cfg.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
			defer cancel()
		}

		client, err := mongo.Connect(options.Client().ApplyURI(c.cfg.URI))
		if err != nil {
			return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("cannot ping mongodb: %w", err)
		}

		c.client = client
	}

	return c.client.Database(c.cfg.Database), nil
}

// Gorm returns the relational handle for the mysql and sqlite drivers.
func (c *Connector) Gorm() (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	if c.db != nil {
		return c.db, nil
	}

	var dialector gorm.Dialector
	switch c.cfg.Driver {
	case config.MySQLDriver:
		dialector = mysql.New(mysql.Config{
			DSN:                       c.cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case config.SQLiteDriver:
		dialector = sqlite.Open(c.cfg.URI)
	default:
		return nil, fmt.Errorf("driver %q is not relational", c.cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", c.cfg.Driver, err)
	}

	if c.cfg.Driver == config.SQLiteDriver {
		// Every connection of an in-memory sqlite database is a different
		// database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	c.db = db
	return c.db, nil
}

func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if c.client != nil {
		if err := c.client.Disconnect(ctx); err != nil {
			errs = append(errs, err)
		}
		c.client = nil
	}

	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, err)
		}
		c.db = nil
	}

	return errors.Join(errs...)
}
