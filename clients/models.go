package clients

import (
	"fmt"
	"time"
)

// GitHubUser represents the authenticated GitHub user
type GitHubUser struct {
	Login string
	Name  string
	Email string
}

// GitHubRepository represents a GitHub repository
type GitHubRepository struct {
	Owner         string
	Name          string
	DefaultBranch string
	Private       bool
	Description   string
}

// GitHubCommit represents one commit returned by the commits listing API
type GitHubCommit struct {
	SHA         string
	Message     string
	AuthorLogin string
	AuthoredAt  time.Time
}

// GitHubPullRequest represents one merged pull request
type GitHubPullRequest struct {
	Number   int
	Title    string
	Body     string
	MergedAt time.Time
}

// RateLimitError is returned when the upstream data source throttles us.
// Callers treat it as transient and surface the retry hint instead of failing
// the run permanently.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by upstream API, retry after %ds", e.RetryAfterSeconds)
}

// BranchNotFoundError is returned when a branch check misses. It is surfaced
// to the HTTP boundary as a 400, distinct from generic failures.
type BranchNotFoundError struct {
	Owner  string
	Repo   string
	Branch string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %q not found on %s/%s", e.Branch, e.Owner, e.Repo)
}

// AgentTool is one tool exposed to the agent loop. Handler receives the raw
// JSON input and returns the tool result serialized back to the model.
type AgentTool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     func(input []byte) (string, error)
}

// RunAgentParams configures one bounded agent run
type RunAgentParams struct {
	System   string
	Prompt   string
	Tools    []AgentTool
	MaxSteps int
}

// AgentToolCall records one tool invocation made during an agent run
type AgentToolCall struct {
	Name  string
	Input []byte
}

// AgentResult is the outcome of one agent run
type AgentResult struct {
	ToolCalls    []AgentToolCall
	FinalText    string
	InputTokens  int64
	OutputTokens int64
}

// SendEmailParams configures one transactional email send
type SendEmailParams struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// PresignedUpload is a presigned PUT URL plus the object's public URL
type PresignedUpload struct {
	UploadURL string
	PublicURL string
	Key       string
	ExpiresAt time.Time
}
