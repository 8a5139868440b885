package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taqh/notra-sub001/clients"
)

const apiBaseURL = "https://api.github.com"

// GitHubClient implements the clients.GitHubClient interface
type GitHubClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewGitHubClient creates a new GitHub REST API client
func NewGitHubClient() clients.GitHubClient {
	return &GitHubClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiBaseURL,
	}
}

type userResponse struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type repositoryResponse struct {
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Description   string `json:"description"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
}

type pullRequestResponse struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	MergedAt *time.Time `json:"merged_at"`
}

// GetAuthenticatedUser validates an access token against the GitHub API
func (c *GitHubClient) GetAuthenticatedUser(ctx context.Context, accessToken string) (*clients.GitHubUser, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	var user userResponse
	if err := c.doGet(ctx, accessToken, "/user", &user); err != nil {
		return nil, err
	}

	return &clients.GitHubUser{
		Login: user.Login,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// GetRepository fetches repository metadata. With an empty token only public
// repositories are reachable.
func (c *GitHubClient) GetRepository(
	ctx context.Context,
	accessToken, owner, repo string,
) (*clients.GitHubRepository, error) {
	var repository repositoryResponse
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	if err := c.doGet(ctx, accessToken, path, &repository); err != nil {
		return nil, err
	}

	return &clients.GitHubRepository{
		Owner:         repository.Owner.Login,
		Name:          repository.Name,
		DefaultBranch: repository.DefaultBranch,
		Private:       repository.Private,
		Description:   repository.Description,
	}, nil
}

// BranchExists checks whether a branch exists on the remote repository
func (c *GitHubClient) BranchExists(ctx context.Context, accessToken, owner, repo, branch string) (bool, error) {
	path := fmt.Sprintf(
		"/repos/%s/%s/branches/%s",
		url.PathEscape(owner),
		url.PathEscape(repo),
		url.PathEscape(branch),
	)

	resp, err := c.rawGet(ctx, accessToken, path)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		if rateErr := rateLimitErrorFromResponse(resp); rateErr != nil {
			return false, rateErr
		}
		return false, fmt.Errorf("GitHub API error: status %d, body: %s", resp.StatusCode, string(body))
	}
}

// ListCommits returns commits on a repository since the given time
func (c *GitHubClient) ListCommits(
	ctx context.Context,
	accessToken, owner, repo string,
	since time.Time,
) ([]clients.GitHubCommit, error) {
	path := fmt.Sprintf(
		"/repos/%s/%s/commits?per_page=100&since=%s",
		url.PathEscape(owner),
		url.PathEscape(repo),
		url.QueryEscape(since.UTC().Format(time.RFC3339)),
	)

	var raw []commitResponse
	if err := c.doGet(ctx, accessToken, path, &raw); err != nil {
		return nil, err
	}

	commits := make([]clients.GitHubCommit, 0, len(raw))
	for _, cr := range raw {
		commits = append(commits, clients.GitHubCommit{
			SHA:         cr.SHA,
			Message:     cr.Commit.Message,
			AuthorLogin: cr.Author.Login,
			AuthoredAt:  cr.Commit.Author.Date,
		})
	}
	return commits, nil
}

// ListMergedPullRequests returns pull requests merged since the given time
func (c *GitHubClient) ListMergedPullRequests(
	ctx context.Context,
	accessToken, owner, repo string,
	since time.Time,
) ([]clients.GitHubPullRequest, error) {
	path := fmt.Sprintf(
		"/repos/%s/%s/pulls?state=closed&sort=updated&direction=desc&per_page=100",
		url.PathEscape(owner),
		url.PathEscape(repo),
	)

	var raw []pullRequestResponse
	if err := c.doGet(ctx, accessToken, path, &raw); err != nil {
		return nil, err
	}

	prs := make([]clients.GitHubPullRequest, 0, len(raw))
	for _, pr := range raw {
		if pr.MergedAt == nil || pr.MergedAt.Before(since) {
			continue
		}
		prs = append(prs, clients.GitHubPullRequest{
			Number:   pr.Number,
			Title:    pr.Title,
			Body:     pr.Body,
			MergedAt: *pr.MergedAt,
		})
	}
	return prs, nil
}

func (c *GitHubClient) rawGet(ctx context.Context, accessToken, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call GitHub API: %w", err)
	}
	return resp, nil
}

func (c *GitHubClient) doGet(ctx context.Context, accessToken, path string, out any) error {
	resp, err := c.rawGet(ctx, accessToken, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if rateErr := rateLimitErrorFromResponse(resp); rateErr != nil {
			return rateErr
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("GitHub resource not found: %s", path)
		}
		return fmt.Errorf("GitHub API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// rateLimitErrorFromResponse detects primary and secondary rate limiting.
// GitHub signals it with 403/429 plus either Retry-After or an exhausted
// X-RateLimit-Remaining, with X-RateLimit-Reset holding the reset epoch.
func rateLimitErrorFromResponse(resp *http.Response) *clients.RateLimitError {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			return &clients.RateLimitError{RetryAfterSeconds: seconds}
		}
	}

	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		retryAfterSeconds := 60
		if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
			if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
				if delta := time.Until(time.Unix(epoch, 0)); delta > 0 {
					retryAfterSeconds = int(delta.Seconds()) + 1
				}
			}
		}
		return &clients.RateLimitError{RetryAfterSeconds: retryAfterSeconds}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &clients.RateLimitError{RetryAfterSeconds: 60}
	}
	return nil
}
