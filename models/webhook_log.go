package models

import (
	"encoding/json"
	"time"
)

// WebhookLogStatus is the outcome recorded on a webhook log entry
type WebhookLogStatus string

const (
	WebhookLogStatusSuccess WebhookLogStatus = "success"
	WebhookLogStatusFailed  WebhookLogStatus = "failed"
	WebhookLogStatusPending WebhookLogStatus = "pending"
)

// WebhookLogMaxEntries is the fixed capacity of each webhook log list
const WebhookLogMaxEntries = 200

// WebhookLogEntry is one trigger-execution record. Entries are immutable once
// written; the log is a capped, TTL-bound ring, not a table.
type WebhookLogEntry struct {
	ID              string           `json:"id"`
	OrgID           OrgID            `json:"organization_id"`
	IntegrationID   string           `json:"integration_id"`
	IntegrationType IntegrationType  `json:"integration_type"`
	Title           string           `json:"title"`
	Status          WebhookLogStatus `json:"status"`
	StatusCode      int              `json:"status_code"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	Payload         json.RawMessage  `json:"payload,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// WebhookLogPage is an in-memory page over the capped log list
type WebhookLogPage struct {
	Entries    []*WebhookLogEntry `json:"entries"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int                `json:"total_count"`
}
