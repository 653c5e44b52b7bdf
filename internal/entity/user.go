package entity

type User struct {
	Base `bson:",inline"`

	// ExternalID is the id of the user at the identity provider.
	ExternalID string `bson:"external_id" gorm:"unique"`
	Name       string `bson:"name"`
	Username   string `bson:"username" gorm:"index"`
	Image      string `bson:"image"`
	Bio        string `bson:"bio"`
	Onboarded  bool   `bson:"onboarded"`

	// Communities is only stored by the document backend. The relational
	// backend keeps memberships in their own table.
	Communities []string `bson:"communities" gorm:"-"`
}
