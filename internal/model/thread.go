package model

type GetThreadsRequest struct {
	Page     int `json:"page" form:"page,default=1"`
	PageSize int `json:"page_size" form:"page_size,default=20"`
}

type GetThreadsResponse struct {
	Threads []Thread `json:"threads"`
	IsNext  bool     `json:"is_next"`
}

type GetCommunityThreadsRequest struct {
	CommunityID string `json:"community_id" form:"community_id" validate:"required"`
	Page        int    `json:"page" form:"page,default=1"`
	PageSize    int    `json:"page_size" form:"page_size,default=20"`
}

type GetCommunityThreadsResponse struct {
	Threads []Thread `json:"threads"`
	IsNext  bool     `json:"is_next"`
}

type GetUserThreadsRequest struct {
	UserID   string `json:"user_id" form:"user_id" validate:"required"`
	Page     int    `json:"page" form:"page,default=1"`
	PageSize int    `json:"page_size" form:"page_size,default=20"`
}

type GetUserThreadsResponse struct {
	Threads []Thread `json:"threads"`
	IsNext  bool     `json:"is_next"`
}

type GetThreadRequest struct {
	ThreadID string `json:"thread_id" form:"thread_id" validate:"required"`
}

type GetThreadResponse struct {
	Thread  Thread   `json:"thread"`
	Replies []Thread `json:"replies"`
}

type CreateThreadRequest struct {
	Text string `json:"text" validate:"required"`
	// CommunityExternalID is the identity-provider id of the organization the
	// thread is posted in, if any.
	CommunityExternalID string `json:"community_external_id"`
	Path                string `json:"path"`
}

type CreateThreadResponse struct {
	Thread Thread `json:"thread"`
}

type AddCommentRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
	Text     string `json:"text" validate:"required"`
	Path     string `json:"path"`
}

type AddCommentResponse struct {
	Thread Thread `json:"thread"`
}

type DeleteThreadRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
	Path     string `json:"path"`
}

type DeleteThreadResponse struct{}

type LikeThreadRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
}

type LikeThreadResponse struct {
	Likes []string `json:"likes"`
}

type UnlikeThreadRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
}

type UnlikeThreadResponse struct {
	Likes []string `json:"likes"`
}

type GetActivityRequest struct {
	Page     int `json:"page" form:"page,default=1"`
	PageSize int `json:"page_size" form:"page_size,default=20"`
}

type GetActivityResponse struct {
	Replies []Thread `json:"replies"`
	IsNext  bool     `json:"is_next"`
}

// ThreadEvent is published on the thread topic after every thread mutation.
type ThreadEvent struct {
	Type        string `json:"type"`
	ThreadID    string `json:"thread_id"`
	ParentID    string `json:"parent_id,omitempty"`
	CommunityID string `json:"community_id,omitempty"`
	UserID      string `json:"user_id"`
	Path        string `json:"path,omitempty"`
	CreatedAt   string `json:"created_at"`
}
