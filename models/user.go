package models

import (
	"time"
)

type User struct {
	ID             string    `db:"id"               json:"id"`
	AuthProvider   string    `db:"auth_provider"    json:"auth_provider"`
	AuthProviderID string    `db:"auth_provider_id" json:"auth_provider_id"`
	Email          string    `db:"email"            json:"email"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"       json:"updated_at"`
}

// OrgTransferAction is what should happen to an organization when its owner account is deleted
type OrgTransferAction string

const (
	OrgTransferActionTransfer OrgTransferAction = "transfer"
	OrgTransferActionDelete   OrgTransferAction = "delete"
)

// OrgTransfer describes the fate of one organization during account deletion
type OrgTransfer struct {
	OrgID  OrgID             `json:"orgId"`
	Action OrgTransferAction `json:"action"`
}
