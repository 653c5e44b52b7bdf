package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/pubsub"
	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testDomains struct {
	db        *gorm.DB
	publisher *testutil.RecordPublisher

	threadRepo     repository.ThreadRepository
	userRepo       repository.UserRepository
	communityRepo  repository.CommunityRepository
	membershipRepo repository.MembershipRepository
	likeRepo       repository.LikeRepository
	transactor     repository.Transactor

	thread    ThreadDomain
	community CommunityDomain
	user      UserDomain
	webhook   WebhookDomain
}

func newTestDomains(t *testing.T) *testDomains {
	t.Helper()

	d := &testDomains{
		db:        testutil.CreateFixtureDb(),
		publisher: &testutil.RecordPublisher{},
	}
	d.threadRepo = repository.NewThreadRepository(d.db)
	d.userRepo = repository.NewUserRepository(d.db)
	d.communityRepo = repository.NewCommunityRepository(d.db)
	d.membershipRepo = repository.NewMembershipRepository(d.db)
	d.likeRepo = repository.NewLikeRepository(d.db)
	d.transactor = repository.NewGormTransactor(d.db)
	d.build(d.publisher)

	return d
}

func (d *testDomains) build(publisher pubsub.Publisher) {
	d.thread = NewThreadDomain(d.threadRepo, d.userRepo, d.communityRepo, d.likeRepo, d.transactor, publisher)
	d.community = NewCommunityDomain(d.communityRepo, d.userRepo, d.membershipRepo, d.threadRepo, d.likeRepo, d.transactor)
	d.user = NewUserDomain(d.userRepo, d.communityRepo, d.membershipRepo)
	d.webhook = NewWebhookDomain(d.user, d.community)
}

func (d *testDomains) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()

	var count int64
	tx := d.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&count).Error)
	return count
}

func (d *testDomains) memberIDs(t *testing.T, communityID string) []string {
	t.Helper()

	ids, err := d.membershipRepo.GetUserIDs(testutil.MockContext(), communityID)
	require.NoError(t, err)
	return ids
}

func (d *testDomains) threadExists(t *testing.T, id string) bool {
	return d.count(t, &entity.Thread{}, "id=?", id) > 0
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	require.Error(t, err)
	require.Truef(t, errorx.Is(err, code), "want code %d, got %v", code, err)
}

// failingLikeRepository fails every bulk delete of likes.
type failingLikeRepository struct {
	repository.LikeRepository
}

func (failingLikeRepository) DeleteByThreadIDs(ctx context.Context, ids []string) error {
	return errors.New("disk is full")
}
