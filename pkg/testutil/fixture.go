package testutil

import (
	"fmt"
	"time"

	"github.com/echo-threads/backend/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var fixtureTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return fixtureTime.Add(time.Duration(minutes) * time.Minute)
}

func ptr(s string) *string {
	return &s
}

var (
	User1 = entity.User{
		Base:       entity.Base{ID: "user1", CreatedAt: at(0)},
		ExternalID: "ext_user1",
		Name:       "Alice",
		Username:   "alice",
		Image:      "https://img/alice.png",
		Onboarded:  true,
	}
	User2 = entity.User{
		Base:       entity.Base{ID: "user2", CreatedAt: at(1)},
		ExternalID: "ext_user2",
		Name:       "Bob",
		Username:   "bob",
		Image:      "https://img/bob.png",
		Onboarded:  true,
	}
	User3 = entity.User{
		Base:       entity.Base{ID: "user3", CreatedAt: at(2)},
		ExternalID: "ext_user3",
		Name:       "Carol",
		Username:   "carol",
		Image:      "https://img/carol.png",
		Onboarded:  true,
	}
	Users = []entity.User{User1, User2, User3}

	Community1 = entity.Community{
		Base:       entity.Base{ID: "community1", CreatedAt: at(3)},
		ExternalID: "ext_community1",
		Name:       "Gophers",
		Username:   "gophers",
		Image:      "https://img/gophers.png",
		CreatedBy:  User1.ID,
	}
	Community2 = entity.Community{
		Base:       entity.Base{ID: "community2", CreatedAt: at(4)},
		ExternalID: "ext_community2",
		Name:       "Rustaceans",
		Username:   "rustaceans",
		Image:      "https://img/rust.png",
		CreatedBy:  User2.ID,
	}
	Communities = []entity.Community{Community1, Community2}

	// Memberships: community1 has user1 and user2, community2 has user2.
	Memberships = []entity.Membership{
		{UserID: User1.ID, CommunityID: Community1.ID, CreatedAt: at(3)},
		{UserID: User2.ID, CommunityID: Community1.ID, CreatedAt: at(5)},
		{UserID: User2.ID, CommunityID: Community2.ID, CreatedAt: at(4)},
	}

	// CommunityThreads are 7 root threads of User1 in Community1, the last
	// one being the newest.
	CommunityThreads = func() []entity.Thread {
		threads := make([]entity.Thread, 0, 7)
		for i := 1; i <= 7; i++ {
			threads = append(threads, entity.Thread{
				Base:        entity.Base{ID: fmt.Sprintf("thread%d", i), CreatedAt: at(10 + i)},
				Text:        fmt.Sprintf("community thread %d", i),
				AuthorID:    User1.ID,
				CommunityID: ptr(Community1.ID),
			})
		}
		return threads
	}()

	// PersonalThread is a root thread of User2 outside any community.
	PersonalThread = entity.Thread{
		Base:     entity.Base{ID: "thread8", CreatedAt: at(20)},
		Text:     "personal thread",
		AuthorID: User2.ID,
	}

	// Reply1 and Reply2 answer thread7; Reply3 answers Reply1.
	Reply1 = entity.Thread{
		Base:     entity.Base{ID: "reply1", CreatedAt: at(30)},
		Text:     "first reply",
		AuthorID: User2.ID,
		ParentID: ptr("thread7"),
	}
	Reply2 = entity.Thread{
		Base:     entity.Base{ID: "reply2", CreatedAt: at(31)},
		Text:     "second reply",
		AuthorID: User3.ID,
		ParentID: ptr("thread7"),
	}
	Reply3 = entity.Thread{
		Base:     entity.Base{ID: "reply3", CreatedAt: at(32)},
		Text:     "nested reply",
		AuthorID: User1.ID,
		ParentID: ptr("reply1"),
	}

	// Likes: thread7 is liked by user2 and user3, reply1 by user1.
	Likes = []entity.Like{
		{ThreadID: "thread7", UserID: User2.ID, CreatedAt: at(40)},
		{ThreadID: "thread7", UserID: User3.ID, CreatedAt: at(41)},
		{ThreadID: "reply1", UserID: User1.ID, CreatedAt: at(42)},
	}
)

func AllThreads() []entity.Thread {
	threads := append([]entity.Thread{}, CommunityThreads...)
	return append(threads, PersonalThread, Reply1, Reply2, Reply3)
}

// CreateFixtureDb returns a migrated in-memory database filled with the
// fixtures of this package.
func CreateFixtureDb() *gorm.DB {
	db := NewDatabaseTest()

	insert(db, Users)
	insert(db, Communities)
	insert(db, Memberships)
	insert(db, AllThreads())
	insert(db, Likes)

	return db
}

func insert[T any](db *gorm.DB, records []T) {
	if len(records) == 0 {
		return
	}

	if err := db.Omit(clause.Associations).Create(&records).Error; err != nil {
		panic(err)
	}
}
