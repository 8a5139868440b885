package models

import (
	"time"

	"github.com/lib/pq"
)

// PostStatus is the publication state of a content artifact
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a generated content artifact. Exactly one post is created per
// successful generation run; subsequent edits go through the update path.
type Post struct {
	ID           string         `db:"id"              json:"id"`
	OrgID        OrgID          `db:"organization_id" json:"organization_id"`
	Title        string         `db:"title"           json:"title"`
	Content      string         `db:"content"         json:"content"`
	ContentType  OutputType     `db:"content_type"    json:"content_type"`
	Status       PostStatus     `db:"status"          json:"status"`
	TriggerID    *string        `db:"trigger_id"      json:"trigger_id,omitempty"`
	SourceRepos  pq.StringArray `db:"source_repos"    json:"source_repos"`
	LookbackDays int            `db:"lookback_days"   json:"lookback_days"`
	CreatedAt    time.Time      `db:"created_at"      json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"      json:"updated_at"`
}
