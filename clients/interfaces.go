package clients

import (
	"context"
	"time"
)

// GitHubClient defines the interface for GitHub API operations
type GitHubClient interface {
	// GetAuthenticatedUser validates an access token and returns the login it belongs to
	GetAuthenticatedUser(ctx context.Context, accessToken string) (*GitHubUser, error)
	// GetRepository fetches repository metadata. An empty accessToken limits access to public repositories.
	GetRepository(ctx context.Context, accessToken, owner, repo string) (*GitHubRepository, error)
	// BranchExists checks whether a branch exists on the remote repository
	BranchExists(ctx context.Context, accessToken, owner, repo, branch string) (bool, error)
	// ListCommits returns commits on a repository since the given time
	ListCommits(ctx context.Context, accessToken, owner, repo string, since time.Time) ([]GitHubCommit, error)
	// ListMergedPullRequests returns pull requests merged since the given time
	ListMergedPullRequests(ctx context.Context, accessToken, owner, repo string, since time.Time) ([]GitHubPullRequest, error)
}

// SchedulerClient defines the interface to the managed cron/queue service
type SchedulerClient interface {
	// CreateSchedule registers a remote cron schedule and returns its handle
	CreateSchedule(ctx context.Context, triggerID, cronExpression, destinationURL string) (string, error)
	// DeleteSchedule removes a remote cron schedule by handle
	DeleteSchedule(ctx context.Context, scheduleID string) error
	// PublishRunNow enqueues an immediate run and returns the remote run/message ID
	PublishRunNow(ctx context.Context, triggerID, destinationURL string, manual bool) (string, error)
}

// AgentClient runs a bounded tool-loop against the LLM gateway. Internals of
// the hosted model are out of scope; callers rely only on the step budget and
// on tools being restricted to the provided set.
type AgentClient interface {
	RunAgent(ctx context.Context, params RunAgentParams) (*AgentResult, error)
}

// EmailClient defines the interface for sending transactional email
type EmailClient interface {
	SendEmail(ctx context.Context, params SendEmailParams) (string, error)
}

// StorageClient defines the interface for presigned object-storage uploads
type StorageClient interface {
	// PresignUpload returns a presigned PUT URL and the public URL of the object
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
	// DeleteObjectsWithPrefix removes every object under a key prefix; used
	// for best-effort cleanup. Upload keys embed a random ULID, so
	// owner-scoped cleanup works by prefix.
	DeleteObjectsWithPrefix(ctx context.Context, prefix string) error
}
