package model

type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type CommunityInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Reply struct {
	ID     string `json:"id"`
	Author Author `json:"author"`
}

type Thread struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	ParentID  string         `json:"parent_id,omitempty"`
	Author    Author         `json:"author"`
	Community *CommunityInfo `json:"community"`
	Replies   []Reply        `json:"replies"`
	Likes     []string       `json:"likes"`
	CreatedAt string         `json:"created_at"`
}

type User struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	Image      string `json:"image"`
	Bio        string `json:"bio"`
	Onboarded  bool   `json:"onboarded"`
	CreatedAt  string `json:"created_at"`
}

type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

type Community struct {
	ID         string   `json:"id"`
	ExternalID string   `json:"external_id"`
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	Image      string   `json:"image"`
	Bio        string   `json:"bio"`
	CreatedBy  *Member  `json:"created_by,omitempty"`
	Members    []Member `json:"members"`
	CreatedAt  string   `json:"created_at"`
}
