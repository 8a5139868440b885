package models

import (
	"time"
)

// OrgID is the identifier type for organizations
type OrgID string

// PlanTier represents the billing plan of an organization
type PlanTier string

const (
	PlanTierFree PlanTier = "free"
	PlanTierPro  PlanTier = "pro"
)

// WebhookLogRetentionDays returns how long webhook log entries are kept for this plan
func (p PlanTier) WebhookLogRetentionDays() int {
	if p == PlanTierPro {
		return 30
	}
	return 7
}

type Organization struct {
	ID        OrgID     `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Plan      PlanTier  `db:"plan"       json:"plan"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MembershipRole represents a user's role within an organization
type MembershipRole string

const (
	MembershipRoleOwner  MembershipRole = "owner"
	MembershipRoleMember MembershipRole = "member"
)

type OrganizationMembership struct {
	ID        string         `db:"id"              json:"id"`
	OrgID     OrgID          `db:"organization_id" json:"organization_id"`
	UserID    string         `db:"user_id"         json:"user_id"`
	Role      MembershipRole `db:"role"            json:"role"`
	CreatedAt time.Time      `db:"created_at"      json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"      json:"updated_at"`
}
