package models

import (
	"time"
)

// NotificationSettings holds per-organization notification preferences.
// One boolean per event type, editable by organization owners only.
type NotificationSettings struct {
	ID             string    `db:"id"               json:"id"`
	OrgID          OrgID     `db:"organization_id"  json:"organization_id"`
	EmailOnSuccess bool      `db:"email_on_success" json:"email_on_success"`
	EmailOnFailure bool      `db:"email_on_failure" json:"email_on_failure"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"       json:"updated_at"`
}

// DefaultNotificationSettings returns the preferences applied before an
// organization has saved any of its own.
func DefaultNotificationSettings(orgID OrgID) *NotificationSettings {
	return &NotificationSettings{
		OrgID:          orgID,
		EmailOnSuccess: true,
		EmailOnFailure: true,
	}
}
