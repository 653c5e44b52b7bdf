package model

type IdentityWebhookRequest struct {
	Type   string         `json:"type" validate:"required"`
	Object string         `json:"object"`
	Data   map[string]any `json:"data"`
}

type IdentityWebhookResponse struct {
	Message string `json:"message"`
}
