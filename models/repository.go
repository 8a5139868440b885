package models

import (
	"time"
)

// Repository is a unit of content source scoped to one integration
type Repository struct {
	ID            string    `db:"id"             json:"id"`
	IntegrationID string    `db:"integration_id" json:"integration_id"`
	OrgID         OrgID     `db:"organization_id" json:"organization_id"`
	Owner         string    `db:"owner"          json:"owner"`
	Name          string    `db:"name"           json:"name"`
	DefaultBranch *string   `db:"default_branch" json:"default_branch,omitempty"`
	Enabled       bool      `db:"enabled"        json:"enabled"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}

// FullName returns the owner/name key used to deduplicate repositories in listings
func (r *Repository) FullName() string {
	return r.Owner + "/" + r.Name
}
