package main

import (
	"github.com/echo-threads/backend/config"
	"github.com/echo-threads/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	if err := s.loadLogger(); err != nil {
		return err
	}

	s.loadDatabase()
	defer s.stop(s.ctx)

	if s.connector.Driver() == config.MongoDriver {
		db, err := s.connector.Mongo(s.ctx)
		if err != nil {
			return err
		}

		if err := migration.EnsureMongoIndexes(s.ctx, db); err != nil {
			return err
		}
	} else {
		db, err := s.connector.Gorm()
		if err != nil {
			return err
		}

		if err := migration.AutoMigrate(db); err != nil {
			return err
		}
	}

	s.logger.Infof("Migrated %s database", s.connector.Driver())
	return nil
}
