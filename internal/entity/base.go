package entity

import "time"

// Collection (and table) names.
const (
	UserCollection       = "users"
	ThreadCollection     = "threads"
	CommunityCollection  = "communities"
	LikeCollection       = "likes"
	MembershipCollection = "memberships"
)

type Base struct {
	ID        string    `bson:"_id" gorm:"primarykey"`
	CreatedAt time.Time `bson:"created_at" gorm:"index"`
	UpdatedAt time.Time `bson:"updated_at"`
}
