package entity

type Thread struct {
	Base `bson:",inline"`

	Text     string `bson:"text" gorm:"type:text"`
	AuthorID string `bson:"author_id" gorm:"index"`
	Author   User   `bson:"-" gorm:"foreignKey:AuthorID"`

	// ParentID is nil for root threads.
	ParentID    *string    `bson:"parent_id" gorm:"index"`
	CommunityID *string    `bson:"community_id" gorm:"index"`
	Community   *Community `bson:"-" gorm:"foreignKey:CommunityID"`

	Replies []Thread `bson:"-" gorm:"foreignKey:ParentID"`
	Likes   []Like   `bson:"-" gorm:"foreignKey:ThreadID"`
}

func (t *Thread) IsRoot() bool {
	return t.ParentID == nil
}
