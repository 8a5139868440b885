package appctx

import (
	"context"

	"github.com/taqh/notra-sub001/models"
)

// Context keys for storing request-scoped entities
type contextKey string

const (
	UserContextKey         contextKey = "user"
	OrganizationContextKey contextKey = "organization"
	MembershipContextKey   contextKey = "membership"
)

// SetUser adds the user entity to the request context
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// GetUser extracts the user entity from the request context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// SetOrganization adds the organization entity to the request context
func SetOrganization(ctx context.Context, org *models.Organization) context.Context {
	return context.WithValue(ctx, OrganizationContextKey, org)
}

// GetOrganization extracts the organization entity from the request context
func GetOrganization(ctx context.Context) (*models.Organization, bool) {
	org, ok := ctx.Value(OrganizationContextKey).(*models.Organization)
	return org, ok
}

// SetMembership adds the caller's organization membership to the request context
func SetMembership(ctx context.Context, membership *models.OrganizationMembership) context.Context {
	return context.WithValue(ctx, MembershipContextKey, membership)
}

// GetMembership extracts the caller's organization membership from the request context
func GetMembership(ctx context.Context) (*models.OrganizationMembership, bool) {
	membership, ok := ctx.Value(MembershipContextKey).(*models.OrganizationMembership)
	return membership, ok
}
