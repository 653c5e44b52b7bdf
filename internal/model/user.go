package model

type GetUserRequest struct {
	// UserID is the identity-provider id. The caller is used when empty.
	UserID string `json:"user_id" form:"user_id"`
}

type GetUserResponse struct {
	User        User            `json:"user"`
	Communities []CommunityInfo `json:"communities"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Image    string `json:"image" validate:"omitempty,url"`
	Bio      string `json:"bio" validate:"max=1000"`
}

type UpdateUserResponse struct {
	User User `json:"user"`
}

// SyncUserRequest carries the profile of a user as the identity provider
// knows it.
type SyncUserRequest struct {
	ExternalID string
	Name       string
	Username   string
	Image      string
}

type SyncUserResponse struct {
	User User `json:"user"`
}

type SearchUsersRequest struct {
	Q        string `json:"q" form:"q"`
	Page     int    `json:"page" form:"page,default=1"`
	PageSize int    `json:"page_size" form:"page_size,default=20"`
}

type SearchUsersResponse struct {
	Users  []User `json:"users"`
	IsNext bool   `json:"is_next"`
}

type GetUserCommunitiesRequest struct {
	UserID string `json:"user_id" form:"user_id" validate:"required"`
}

type GetUserCommunitiesResponse struct {
	Communities []CommunityInfo `json:"communities"`
}
