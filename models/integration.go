package models

import (
	"time"
)

// IntegrationType represents the external service an integration connects to
type IntegrationType string

const (
	IntegrationTypeGitHub IntegrationType = "github"
)

// Integration is a stored connection to an external service, scoped to one
// organization. An integration with no access token can only reach public
// resources on the remote service.
type Integration struct {
	ID                   string          `db:"id"                     json:"id"`
	OrgID                OrgID           `db:"organization_id"        json:"organization_id"`
	Type                 IntegrationType `db:"type"                   json:"type"`
	EncryptedAccessToken *string         `db:"encrypted_access_token" json:"-"`
	DisplayName          string          `db:"display_name"           json:"display_name"`
	Enabled              bool            `db:"enabled"                json:"enabled"`
	CreatedBy            string          `db:"created_by"             json:"created_by"`
	CreatedAt            time.Time       `db:"created_at"             json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"             json:"updated_at"`
}

// HasToken reports whether the integration holds a stored access token
func (i *Integration) HasToken() bool {
	return i.EncryptedAccessToken != nil && *i.EncryptedAccessToken != ""
}
