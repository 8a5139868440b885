package models

import (
	"time"

	"github.com/lib/pq"
)

// TriggerSourceType represents what causes a trigger to fire
type TriggerSourceType string

const (
	TriggerSourceTypeCron          TriggerSourceType = "cron"
	TriggerSourceTypeGitHubWebhook TriggerSourceType = "github_webhook"
	TriggerSourceTypeLinearWebhook TriggerSourceType = "linear_webhook"
	TriggerSourceTypeManual        TriggerSourceType = "manual"
)

// Trigger defines when and what content to generate. A disabled trigger must
// never hold a live external-scheduler handle, and every target repository
// must belong to an integration owned by the same organization.
type Trigger struct {
	ID                  string            `db:"id"                    json:"id"`
	OrgID               OrgID             `db:"organization_id"       json:"organization_id"`
	Name                string            `db:"name"                  json:"name"`
	SourceType          TriggerSourceType `db:"source_type"           json:"source_type"`
	CronExpression      *string           `db:"cron_expression"       json:"cron_expression,omitempty"`
	EventTypes          pq.StringArray    `db:"event_types"           json:"event_types"`
	TargetRepositoryIDs pq.StringArray    `db:"target_repository_ids" json:"target_repository_ids"`
	OutputType          OutputType        `db:"output_type"           json:"output_type"`
	Tone                string            `db:"tone"                  json:"tone"`
	LookbackDays        int               `db:"lookback_days"         json:"lookback_days"`
	Enabled             bool              `db:"enabled"               json:"enabled"`
	ScheduleID          *string           `db:"schedule_id"           json:"-"`
	CreatedAt           time.Time         `db:"created_at"            json:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at"            json:"updated_at"`
}

// HasScheduleHandle reports whether the trigger holds a remote scheduler handle
func (t *Trigger) HasScheduleHandle() bool {
	return t.ScheduleID != nil && *t.ScheduleID != ""
}
