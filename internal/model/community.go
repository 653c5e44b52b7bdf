package model

// Community mutations are keyed by the identity-provider ids of the
// organization and of the users.

type CreateCommunityRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Username    string `json:"username"`
	Image       string `json:"image"`
	Bio         string `json:"bio"`
	CreatedByID string `json:"created_by_id" validate:"required"`
}

type CreateCommunityResponse struct {
	Community Community `json:"community"`
}

type AddMemberRequest struct {
	CommunityID string `json:"community_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
}

type AddMemberResponse struct {
	Community Community `json:"community"`
}

type RemoveMemberRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	CommunityID string `json:"community_id" validate:"required"`
}

type RemoveMemberResponse struct {
	Success bool `json:"success"`
}

type UpdateCommunityRequest struct {
	CommunityID string `json:"community_id" validate:"required"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Image       string `json:"image"`
}

type UpdateCommunityResponse struct {
	Community Community `json:"community"`
}

type DeleteCommunityRequest struct {
	CommunityID string `json:"community_id" validate:"required"`
}

type DeleteCommunityResponse struct {
	Community Community `json:"community"`
}

type GetCommunityRequest struct {
	CommunityID string `json:"community_id" form:"community_id" validate:"required"`
}

type GetCommunityResponse struct {
	Community Community `json:"community"`
}

type SearchCommunitiesRequest struct {
	Q        string `json:"q" form:"q"`
	Page     int    `json:"page" form:"page,default=1"`
	PageSize int    `json:"page_size" form:"page_size,default=20"`
}

type SearchCommunitiesResponse struct {
	Communities []Community `json:"communities"`
	IsNext      bool        `json:"is_next"`
}

type CountCommunityThreadsRequest struct {
	CommunityID string `json:"community_id" form:"community_id" validate:"required"`
}

type CountCommunityThreadsResponse struct {
	Count int64 `json:"count"`
}
