package entity

import "time"

type Membership struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	CommunityID string    `gorm:"primaryKey;index"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	CreatedAt time.Time
}
