package entity

import "time"

type Like struct {
	ThreadID  string    `bson:"thread_id" gorm:"primaryKey"`
	UserID    string    `bson:"user_id" gorm:"primaryKey"`
	CreatedAt time.Time `bson:"created_at"`
}
