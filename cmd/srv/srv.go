package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/echo-threads/backend/config"
	"github.com/echo-threads/backend/internal/domain"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/echo-threads/backend/internal/repository/mongorepo"
	"github.com/echo-threads/backend/pkg/database"
	"github.com/echo-threads/backend/pkg/kafka"
	"github.com/echo-threads/backend/pkg/logger"
	"github.com/echo-threads/backend/pkg/pubsub"
	"github.com/echo-threads/backend/pkg/router"
	"github.com/echo-threads/backend/pkg/storage"
	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  interface {
		logger.Logger
		Sync() error
	}

	connector *database.Connector
	storage   storage.Storage
	publisher pubsub.Publisher
	stopFuncs []func(context.Context) error

	transactor     repository.Transactor
	userRepo       repository.UserRepository
	threadRepo     repository.ThreadRepository
	communityRepo  repository.CommunityRepository
	membershipRepo repository.MembershipRepository
	likeRepo       repository.LikeRepository

	userDomain      domain.UserDomain
	threadDomain    domain.ThreadDomain
	communityDomain domain.CommunityDomain
	fileDomain      domain.FileDomain
	webhookDomain   domain.WebhookDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.configs = cfg
	return nil
}

func (s *srv) loadLogger() error {
	l, err := logger.NewLogger(s.configs.Log.Level, s.configs.Log.JSON)
	if err != nil {
		return err
	}

	s.logger = l
	s.ctx = context.Background()
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
	return nil
}

func (s *srv) loadDatabase() {
	s.connector = database.NewConnector(s.configs.Database)
	s.stopFuncs = append(s.stopFuncs, s.connector.Close)
}

func (s *srv) loadRepos() error {
	if s.connector.Driver() == config.MongoDriver {
		db, err := s.connector.Mongo(s.ctx)
		if err != nil {
			return err
		}

		s.transactor = mongorepo.NewTransactor(db)
		s.userRepo = mongorepo.NewUserRepository(db)
		s.threadRepo = mongorepo.NewThreadRepository(db)
		s.communityRepo = mongorepo.NewCommunityRepository(db)
		s.membershipRepo = mongorepo.NewMembershipRepository(db)
		s.likeRepo = mongorepo.NewLikeRepository(db)
		return nil
	}

	db, err := s.connector.Gorm()
	if err != nil {
		return err
	}

	s.transactor = repository.NewGormTransactor(db)
	s.userRepo = repository.NewUserRepository(db)
	s.threadRepo = repository.NewThreadRepository(db)
	s.communityRepo = repository.NewCommunityRepository(db)
	s.membershipRepo = repository.NewMembershipRepository(db)
	s.likeRepo = repository.NewLikeRepository(db)
	return nil
}

func (s *srv) loadStorage() error {
	stg, err := storage.NewS3Storage(s.configs.Storage)
	if err != nil {
		return err
	}

	s.storage = stg
	return nil
}

func (s *srv) loadPublisher() error {
	if s.configs.Kafka.Addr == "" {
		s.logger.Warnf("Kafka address is not configured, events are dropped")
		s.publisher = pubsub.NewNopPublisher()
		return nil
	}

	publisher, err := kafka.NewPublisher(s.configs.Kafka.ClientID, strings.Split(s.configs.Kafka.Addr, ","))
	if err != nil {
		return fmt.Errorf("cannot connect to kafka: %w", err)
	}

	s.publisher = publisher
	s.stopFuncs = append(s.stopFuncs, publisher.Stop)
	return nil
}

func (s *srv) loadDomains() {
	s.userDomain = domain.NewUserDomain(s.userRepo, s.communityRepo, s.membershipRepo)
	s.threadDomain = domain.NewThreadDomain(
		s.threadRepo, s.userRepo, s.communityRepo, s.likeRepo, s.transactor, s.publisher)
	s.communityDomain = domain.NewCommunityDomain(
		s.communityRepo, s.userRepo, s.membershipRepo, s.threadRepo, s.likeRepo, s.transactor)
	s.fileDomain = domain.NewFileDomain(s.storage)
	s.webhookDomain = domain.NewWebhookDomain(s.userDomain, s.communityDomain)
}

// stop releases every resource in the reverse order of creation.
func (s *srv) stop(ctx context.Context) {
	for i := len(s.stopFuncs) - 1; i >= 0; i-- {
		if err := s.stopFuncs[i](ctx); err != nil {
			s.logger.Errorf("Cannot release resource: %v", err)
		}
	}

	_ = s.logger.Sync()
}
