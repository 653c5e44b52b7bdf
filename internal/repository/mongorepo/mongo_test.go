package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/echo-threads/backend/config"
	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/echo-threads/backend/migration"
	"github.com/echo-threads/backend/pkg/database"
	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var mongoURI string

func TestMain(m *testing.M) {
	if !testutil.EnableIntegrationTest() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7", mongodb.WithReplicaSet("rs0"))
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("failed to obtain connection string: %s", err)
	}
	mongoURI = directConnection(uri)

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

// directConnection skips the replica set discovery, whose member address is
// only resolvable inside the container network.
func directConnection(uri string) string {
	if strings.Contains(uri, "?") {
		return uri + "&directConnection=true"
	}
	return strings.TrimSuffix(uri, "/") + "/?directConnection=true"
}

type mongoSuite struct {
	suite.Suite

	ctx       context.Context
	connector *database.Connector
	db        *mongo.Database

	userRepo       *userRepository
	communityRepo  *communityRepository
	threadRepo     *threadRepository
	likeRepo       *likeRepository
	membershipRepo *membershipRepository
	tx             *transactor
}

func TestMongoRepositories(t *testing.T) {
	if !testutil.EnableIntegrationTest() {
		t.Skip("set RUN_INTEGRATION_TEST to run mongodb tests")
	}

	suite.Run(t, new(mongoSuite))
}

func (s *mongoSuite) SetupTest() {
	s.ctx = context.Background()
	s.connector = database.NewConnector(config.DatabaseConfigs{
		Driver:         config.MongoDriver,
		URI:            mongoURI,
		Database:       fmt.Sprintf("echo_test_%d", time.Now().UnixNano()),
		ConnectTimeout: 30 * time.Second,
	})

	db, err := s.connector.Mongo(s.ctx)
	s.Require().NoError(err)
	s.db = db

	again, err := s.connector.Mongo(s.ctx)
	s.Require().NoError(err)
	s.Require().Same(db.Client(), again.Client())

	s.Require().NoError(migration.EnsureMongoIndexes(s.ctx, db))

	s.userRepo = NewUserRepository(db)
	s.communityRepo = NewCommunityRepository(db)
	s.threadRepo = NewThreadRepository(db)
	s.likeRepo = NewLikeRepository(db)
	s.membershipRepo = NewMembershipRepository(db)
	s.tx = NewTransactor(db)

	s.insertFixtures()
}

func (s *mongoSuite) TearDownTest() {
	s.Require().NoError(s.db.Drop(s.ctx))
	s.Require().NoError(s.connector.Close(s.ctx))
}

func (s *mongoSuite) insertFixtures() {
	for _, u := range testutil.Users {
		u := u
		s.Require().NoError(s.userRepo.Upsert(s.ctx, &u))
	}

	for _, c := range testutil.Communities {
		c := c
		s.Require().NoError(s.communityRepo.Create(s.ctx, &c))
	}

	for _, m := range testutil.Memberships {
		s.Require().NoError(s.membershipRepo.Add(s.ctx, m.UserID, m.CommunityID))
	}

	for _, t := range testutil.AllThreads() {
		t := t
		s.Require().NoError(s.threadRepo.Create(s.ctx, &t))
	}

	for _, l := range testutil.Likes {
		l := l
		s.Require().NoError(s.likeRepo.Create(s.ctx, &l))
	}
}

func ids(records []repository.ThreadRecord) []string {
	result := []string{}
	for _, r := range records {
		result = append(result, r.ID)
	}
	return result
}

func (s *mongoSuite) TestThreadPagination() {
	filter := repository.ThreadFilter{CommunityID: testutil.Community1.ID, RootOnly: true}

	page1, err := s.threadRepo.GetList(s.ctx, filter, 0, 5)
	s.Require().NoError(err)
	s.Require().Equal([]string{"thread7", "thread6", "thread5", "thread4", "thread3"}, ids(page1))

	page2, err := s.threadRepo.GetList(s.ctx, filter, 5, 5)
	s.Require().NoError(err)
	s.Require().Equal([]string{"thread2", "thread1"}, ids(page2))

	count, err := s.threadRepo.Count(s.ctx, filter)
	s.Require().NoError(err)
	s.Require().Equal(int64(7), count)

	count, err = s.threadRepo.Count(s.ctx, repository.ThreadFilter{RootOnly: true})
	s.Require().NoError(err)
	s.Require().Equal(int64(8), count)
}

func (s *mongoSuite) TestThreadEnrichment() {
	threads, err := s.threadRepo.GetList(s.ctx, repository.ThreadFilter{ID: "thread7"}, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(threads, 1)

	thread := threads[0]
	s.Require().Equal(repository.AuthorRecord{
		ID:    testutil.User1.ID,
		Name:  testutil.User1.Name,
		Image: testutil.User1.Image,
	}, thread.Author)
	s.Require().NotNil(thread.Community)
	s.Require().Equal(testutil.Community1.Name, thread.Community.Name)
	s.Require().Equal([]string{testutil.User2.ID, testutil.User3.ID}, thread.Likes)
	s.Require().Len(thread.Replies, 2)
	s.Require().Equal("reply1", thread.Replies[0].ID)
	s.Require().Equal("Bob", thread.Replies[0].Author.Name)

	personal, err := s.threadRepo.GetList(s.ctx, repository.ThreadFilter{ID: testutil.PersonalThread.ID}, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(personal, 1)
	s.Require().Nil(personal[0].Community)
	s.Require().Empty(personal[0].Replies)
	s.Require().Empty(personal[0].Likes)
}

func (s *mongoSuite) TestMembership() {
	ok, err := s.membershipRepo.Exists(s.ctx, testutil.User3.ID, testutil.Community1.ID)
	s.Require().NoError(err)
	s.Require().False(ok)

	s.Require().NoError(s.membershipRepo.Add(s.ctx, testutil.User3.ID, testutil.Community1.ID))
	s.Require().NoError(s.membershipRepo.Add(s.ctx, testutil.User3.ID, testutil.Community1.ID))

	members, err := s.membershipRepo.GetUserIDs(s.ctx, testutil.Community1.ID)
	s.Require().NoError(err)
	s.Require().Equal([]string{"user1", "user2", "user3"}, members)

	s.Require().NoError(s.membershipRepo.RemoveByCommunity(s.ctx, testutil.Community1.ID))

	for _, u := range testutil.Users {
		communities, err := s.membershipRepo.GetCommunityIDs(s.ctx, u.ID)
		s.Require().NoError(err)
		s.Require().NotContains(communities, testutil.Community1.ID)
	}
}

func (s *mongoSuite) TestCommunityUpdateAndDelete() {
	c, err := s.communityRepo.UpdateByExternalID(s.ctx, testutil.Community1.ExternalID, repository.CommunityUpdate{
		Name: "Gopher Club", Username: "gopherclub", Image: "https://img/club.png",
	})
	s.Require().NoError(err)
	s.Require().Equal("Gopher Club", c.Name)

	_, err = s.communityRepo.UpdateByExternalID(s.ctx, "invalid", repository.CommunityUpdate{})
	s.Require().ErrorIs(err, repository.ErrNotFound)

	err = s.communityRepo.Create(s.ctx, &entity.Community{
		Base:       entity.Base{ID: "community3"},
		ExternalID: testutil.Community1.ExternalID,
	})
	s.Require().ErrorIs(err, repository.ErrDuplicated)

	deleted, err := s.communityRepo.DeleteByExternalID(s.ctx, testutil.Community2.ExternalID)
	s.Require().NoError(err)
	s.Require().Equal(testutil.Community2.ID, deleted.ID)

	communities, err := s.communityRepo.GetByUser(s.ctx, testutil.User2.ID)
	s.Require().NoError(err)
	s.Require().Len(communities, 1)
	s.Require().Equal(testutil.Community1.ID, communities[0].ID)
}

func (s *mongoSuite) TestTransactionRollback() {
	errAbort := errors.New("abort")
	err := s.tx.WithTransaction(s.ctx, func(ctx context.Context) error {
		if err := s.communityRepo.Create(ctx, &entity.Community{
			Base:       entity.Base{ID: "community3"},
			ExternalID: "ext_community3",
			CreatedBy:  testutil.User3.ID,
		}); err != nil {
			return err
		}
		if err := s.membershipRepo.Add(ctx, testutil.User3.ID, "community3"); err != nil {
			return err
		}
		return errAbort
	})
	s.Require().ErrorIs(err, errAbort)

	_, err = s.communityRepo.GetByID(s.ctx, "community3")
	s.Require().ErrorIs(err, repository.ErrNotFound)

	communities, err := s.membershipRepo.GetCommunityIDs(s.ctx, testutil.User3.ID)
	s.Require().NoError(err)
	s.Require().Empty(communities)
}

func (s *mongoSuite) TestUserUpsertAndSearch() {
	user := &entity.User{ExternalID: testutil.User1.ExternalID, Name: "Alice Liddell", Username: "alice"}
	s.Require().NoError(s.userRepo.Upsert(s.ctx, user))
	s.Require().Equal(testutil.User1.ID, user.ID)

	users, err := s.userRepo.GetList(s.ctx, repository.UserFilter{Q: "LIDDELL"}, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(users, 1)

	count, err := s.userRepo.Count(s.ctx, repository.UserFilter{ExcludeExternalID: testutil.User1.ExternalID})
	s.Require().NoError(err)
	s.Require().Equal(int64(2), count)
}

func (s *mongoSuite) TestLikeIdempotent() {
	like := &entity.Like{ThreadID: "thread8", UserID: testutil.User1.ID}
	s.Require().NoError(s.likeRepo.Create(s.ctx, like))
	s.Require().NoError(s.likeRepo.Create(s.ctx, like))

	threads, err := s.threadRepo.GetList(s.ctx, repository.ThreadFilter{ID: "thread8"}, 0, 0)
	s.Require().NoError(err)
	s.Require().Equal([]string{testutil.User1.ID}, threads[0].Likes)
}

func TestDirectConnection(t *testing.T) {
	require.Equal(t, "mongodb://localhost:1234/?directConnection=true", directConnection("mongodb://localhost:1234"))
	require.Equal(t, "mongodb://localhost:1234/?rs=rs0&directConnection=true", directConnection("mongodb://localhost:1234/?rs=rs0"))
}
