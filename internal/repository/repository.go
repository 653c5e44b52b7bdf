package repository

import (
	"context"
	"errors"
	"time"

	"github.com/echo-threads/backend/internal/entity"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicated = errors.New("record already exists")
)

// Transactor runs fn in a store transaction. Repositories called with the
// context passed to fn take part in the transaction. The transaction commits
// when fn returns nil and rolls back otherwise. A nested call joins the outer
// transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type AuthorRecord struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Image string `bson:"image"`
}

type CommunityRecord struct {
	ID    string `bson:"_id"`
	Name  string `bson:"name"`
	Image string `bson:"image"`
}

type ReplyRecord struct {
	ID     string       `bson:"_id"`
	Author AuthorRecord `bson:"author"`
}

// ThreadRecord is a thread joined with its author, community, likes and one
// level of replies.
type ThreadRecord struct {
	ID        string           `bson:"_id"`
	Text      string           `bson:"text"`
	ParentID  *string          `bson:"parent_id"`
	Author    AuthorRecord     `bson:"author"`
	Community *CommunityRecord `bson:"community"`
	Replies   []ReplyRecord    `bson:"replies"`
	Likes     []string         `bson:"likes"`
	CreatedAt time.Time        `bson:"created_at"`
}

type ThreadFilter struct {
	ID              string
	CommunityID     string
	AuthorID        string
	ParentIDs       []string
	ExcludeAuthorID string
	RootOnly        bool

	// OldestFirst sorts by creation time ascending. Threads are returned
	// newest first otherwise.
	OldestFirst bool
}

type ThreadRepository interface {
	Create(ctx context.Context, e *entity.Thread) error
	GetByID(ctx context.Context, id string) (*entity.Thread, error)
	// GetList returns the matched threads. A non-positive limit means no
	// limit.
	GetList(ctx context.Context, filter ThreadFilter, offset, limit int) ([]ThreadRecord, error)
	Count(ctx context.Context, filter ThreadFilter) (int64, error)
	GetIDs(ctx context.Context, filter ThreadFilter) ([]string, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

type UserFilter struct {
	// Q matches name or username, case insensitive.
	Q                 string
	ExcludeExternalID string
}

type UserRepository interface {
	// Upsert inserts the user or updates the profile of the user with the same
	// external id. The ID of e is set to the stored id.
	Upsert(ctx context.Context, e *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetList(ctx context.Context, filter UserFilter, offset, limit int) ([]entity.User, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
}

type CommunityFilter struct {
	// Q matches name or username, case insensitive.
	Q string
}

type CommunityUpdate struct {
	Name     string
	Username string
	Image    string
}

type CommunityRepository interface {
	Create(ctx context.Context, e *entity.Community) error
	GetByID(ctx context.Context, id string) (*entity.Community, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.Community, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Community, error)
	// UpdateByExternalID returns the community after the update.
	UpdateByExternalID(ctx context.Context, externalID string, data CommunityUpdate) (*entity.Community, error)
	// DeleteByExternalID returns the deleted community.
	DeleteByExternalID(ctx context.Context, externalID string) (*entity.Community, error)
	GetList(ctx context.Context, filter CommunityFilter, offset, limit int) ([]entity.Community, error)
	Count(ctx context.Context, filter CommunityFilter) (int64, error)
	// GetByUser returns the communities created by or joined by the user.
	GetByUser(ctx context.Context, userID string) ([]entity.Community, error)
}

// MembershipRepository keeps community members and user communities in sync.
type MembershipRepository interface {
	Exists(ctx context.Context, userID, communityID string) (bool, error)
	Add(ctx context.Context, userID, communityID string) error
	Remove(ctx context.Context, userID, communityID string) error
	RemoveByCommunity(ctx context.Context, communityID string) error
	GetUserIDs(ctx context.Context, communityID string) ([]string, error)
	GetCommunityIDs(ctx context.Context, userID string) ([]string, error)
}

type LikeRepository interface {
	// Create does nothing if the user already liked the thread.
	Create(ctx context.Context, e *entity.Like) error
	Delete(ctx context.Context, threadID, userID string) error
	DeleteByThreadIDs(ctx context.Context, threadIDs []string) error
}
