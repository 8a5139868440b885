package models

import (
	"time"
)

// OutputType is the kind of content artifact a generation run produces
type OutputType string

const (
	OutputTypeChangelog    OutputType = "changelog"
	OutputTypeLinkedInPost OutputType = "linkedin_post"
	OutputTypeTwitterPost  OutputType = "twitter_post"
)

// SupportedOutputTypes lists every output type in the order default rows are created
var SupportedOutputTypes = []OutputType{
	OutputTypeChangelog,
	OutputTypeLinkedInPost,
	OutputTypeTwitterPost,
}

// Output is a per-integration toggle for one output type. Three rows are
// created alongside every integration, with changelog enabled by default.
type Output struct {
	ID            string     `db:"id"              json:"id"`
	IntegrationID string     `db:"integration_id"  json:"integration_id"`
	OrgID         OrgID      `db:"organization_id" json:"organization_id"`
	Type          OutputType `db:"type"            json:"type"`
	Enabled       bool       `db:"enabled"         json:"enabled"`
	CreatedAt     time.Time  `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"      json:"updated_at"`
}
