package models

import (
	"time"
)

// UploadType scopes an upload's size cap and allowed MIME set
type UploadType string

const (
	UploadTypeAvatar  UploadType = "avatar"
	UploadTypeLogo    UploadType = "logo"
	UploadTypeContent UploadType = "content"
)

// PresignedUploadResult is returned to the dashboard for a validated upload
type PresignedUploadResult struct {
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
