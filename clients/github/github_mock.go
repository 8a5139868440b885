package github

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/clients"
)

// MockGitHubClient is a testify mock for clients.GitHubClient
type MockGitHubClient struct {
	mock.Mock
}

func (m *MockGitHubClient) GetAuthenticatedUser(ctx context.Context, accessToken string) (*clients.GitHubUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.GitHubUser), args.Error(1)
}

func (m *MockGitHubClient) GetRepository(
	ctx context.Context,
	accessToken, owner, repo string,
) (*clients.GitHubRepository, error) {
	args := m.Called(ctx, accessToken, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.GitHubRepository), args.Error(1)
}

func (m *MockGitHubClient) BranchExists(ctx context.Context, accessToken, owner, repo, branch string) (bool, error) {
	args := m.Called(ctx, accessToken, owner, repo, branch)
	return args.Bool(0), args.Error(1)
}

func (m *MockGitHubClient) ListCommits(
	ctx context.Context,
	accessToken, owner, repo string,
	since time.Time,
) ([]clients.GitHubCommit, error) {
	args := m.Called(ctx, accessToken, owner, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.GitHubCommit), args.Error(1)
}

func (m *MockGitHubClient) ListMergedPullRequests(
	ctx context.Context,
	accessToken, owner, repo string,
	since time.Time,
) ([]clients.GitHubPullRequest, error) {
	args := m.Called(ctx, accessToken, owner, repo, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.GitHubPullRequest), args.Error(1)
}
