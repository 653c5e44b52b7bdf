package model

// UploadImageRequest is a multipart form with the file in the "image" field.
type UploadImageRequest struct{}

type UploadImageResponse struct {
	Url   string            `json:"url"`
	Sizes map[string]string `json:"sizes"`
}
