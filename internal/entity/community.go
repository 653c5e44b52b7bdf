package entity

type Community struct {
	Base `bson:",inline"`

	// ExternalID is the id of the organization at the identity provider.
	ExternalID    string `bson:"external_id" gorm:"unique"`
	Name          string `bson:"name"`
	Username      string `bson:"username" gorm:"index"`
	Image         string `bson:"image"`
	Bio           string `bson:"bio"`
	CreatedBy     string `bson:"created_by" gorm:"index"`
	CreatedByUser User   `bson:"-" gorm:"foreignKey:CreatedBy"`

	// Members is only stored by the document backend.
	Members []string `bson:"members" gorm:"-"`
}
