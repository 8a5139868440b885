package services

import (
	"context"

	"github.com/samber/mo"

	"github.com/taqh/notra-sub001/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID, email string) (*models.User, error)
	// DeleteUserWithTransfers removes a user account, transferring or deleting
	// each organization the user owns according to the transfer list.
	DeleteUserWithTransfers(ctx context.Context, user *models.User, transfers []models.OrgTransfer) error
}

// OrganizationsService defines the interface for organization-related operations
type OrganizationsService interface {
	CreateOrganization(ctx context.Context, name string, owner *models.User) (*models.Organization, error)
	GetOrganizationByID(ctx context.Context, id models.OrgID) (mo.Option[*models.Organization], error)
	GetMembership(
		ctx context.Context,
		organizationID models.OrgID,
		userID string,
	) (mo.Option[*models.OrganizationMembership], error)
	GetMembershipsByOrganizationID(
		ctx context.Context,
		organizationID models.OrgID,
	) ([]*models.OrganizationMembership, error)
}

// IntegrationsService defines the interface for integration management
type IntegrationsService interface {
	CreateIntegration(
		ctx context.Context,
		organizationID models.OrgID,
		createdBy, accessToken, owner, repo string,
	) (*models.Integration, error)
	GetIntegrationByID(
		ctx context.Context,
		organizationID models.OrgID,
		id string,
	) (mo.Option[*models.Integration], error)
	ListIntegrations(ctx context.Context, organizationID models.OrgID) ([]*models.IntegrationWithRepositories, error)
	UpdateIntegration(
		ctx context.Context,
		organizationID models.OrgID,
		id string,
		enabled *bool,
		displayName *string,
	) (*models.Integration, error)
	DeleteIntegration(ctx context.Context, organizationID models.OrgID, id string) error
	UpdateDefaultBranch(ctx context.Context, organizationID models.OrgID, integrationID, branch string) error
	GetRepositoriesByIDs(
		ctx context.Context,
		organizationID models.OrgID,
		ids []string,
	) ([]*models.Repository, error)
	DecryptAccessToken(integration *models.Integration) (string, error)
}

// TriggersService defines the interface for trigger definition management
type TriggersService interface {
	CreateTrigger(ctx context.Context, trigger *models.Trigger) (*models.Trigger, error)
	GetTriggerByID(ctx context.Context, organizationID models.OrgID, id string) (mo.Option[*models.Trigger], error)
	ListTriggers(ctx context.Context, organizationID models.OrgID) ([]*models.Trigger, error)
	UpdateTrigger(ctx context.Context, trigger *models.Trigger) (*models.Trigger, error)
	SetTriggerEnabled(ctx context.Context, organizationID models.OrgID, id string, enabled bool) (*models.Trigger, error)
	DeleteTrigger(ctx context.Context, organizationID models.OrgID, id string) error
	// DisableTriggersTargetingIntegration disables every cron trigger whose
	// targets include the integration's repositories, tearing down remote
	// schedules best-effort. Returns the number of triggers disabled.
	DisableTriggersTargetingIntegration(ctx context.Context, organizationID models.OrgID, integrationID string) (int, error)
}

// PostsService defines the interface for content artifact management
type PostsService interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, organizationID models.OrgID, id string) (mo.Option[*models.Post], error)
	ListPosts(ctx context.Context, organizationID models.OrgID) ([]*models.Post, error)
	UpdatePostContent(
		ctx context.Context,
		organizationID models.OrgID,
		id, title, content string,
	) (*models.Post, error)
}

// NotificationSettingsService defines the interface for notification preferences
type NotificationSettingsService interface {
	GetNotificationSettings(ctx context.Context, organizationID models.OrgID) (*models.NotificationSettings, error)
	UpdateNotificationSettings(
		ctx context.Context,
		organizationID models.OrgID,
		emailOnSuccess, emailOnFailure bool,
	) (*models.NotificationSettings, error)
}

// WebhookLogsService defines the interface for the capped run log
type WebhookLogsService interface {
	AppendEntry(ctx context.Context, org *models.Organization, entry *models.WebhookLogEntry) error
	ListEntries(
		ctx context.Context,
		organizationID models.OrgID,
		integrationType models.IntegrationType,
		integrationID string,
		page, pageSize int,
	) (*models.WebhookLogPage, error)
}

// NotificationsService dispatches run-outcome notifications
type NotificationsService interface {
	// NotifyRunOutcome emails the organization's members about a finished run,
	// honoring per-organization preferences. Failures are logged, never returned.
	NotifyRunOutcome(
		ctx context.Context,
		org *models.Organization,
		trigger *models.Trigger,
		result *models.GenerationResult,
	)
}

// GenerationService runs content generation for one trigger execution
type GenerationService interface {
	Generate(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResult, error)
}

// UploadsService validates and presigns object-storage uploads
type UploadsService interface {
	CreatePresignedUpload(
		ctx context.Context,
		organizationID models.OrgID,
		uploadType, fileName, fileType string,
		fileSize int64,
	) (*models.PresignedUploadResult, error)
}

// TransactionManager runs a function inside a database transaction carried
// through the context; repository calls made with that context join it.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
