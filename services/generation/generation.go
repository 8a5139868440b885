package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services"
)

// ReasonNoContentCreated marks runs where the agent finished without calling
// the create tool. Text-only agent output is never treated as a usable result.
const ReasonNoContentCreated = "NoContentCreated"

const maxAgentSteps = 12

// Token prices in USD, per token
var (
	inputTokenPrice  = decimal.RequireFromString("0.000003")
	outputTokenPrice = decimal.RequireFromString("0.000015")
)

type handlerFunc func(tone models.Tone, activity string) (system string, prompt string)

type GenerationService struct {
	integrationsService services.IntegrationsService
	postsService        services.PostsService
	githubClient        clients.GitHubClient
	agentClient         clients.AgentClient
	handlers            map[models.OutputType]handlerFunc
}

func NewGenerationService(
	integrationsService services.IntegrationsService,
	postsService services.PostsService,
	githubClient clients.GitHubClient,
	agentClient clients.AgentClient,
) *GenerationService {
	s := &GenerationService{
		integrationsService: integrationsService,
		postsService:        postsService,
		githubClient:        githubClient,
		agentClient:         agentClient,
	}
	s.handlers = map[models.OutputType]handlerFunc{
		models.OutputTypeChangelog:    changelogPrompts,
		models.OutputTypeLinkedInPost: linkedInPrompts,
		models.OutputTypeTwitterPost:  twitterPrompts,
	}
	return s
}

// runState is the result accumulator threaded through the tool closures of a
// single run. It makes the create tool idempotent and carries rate-limit
// signals out of the agent loop.
type runState struct {
	created      bool
	postID       string
	title        string
	rateLimitErr *clients.RateLimitError
}

// allowedRepo pairs a repository with the decrypted token of its integration
type allowedRepo struct {
	repo  *models.Repository
	token string
}

// Generate runs one trigger execution end to end. It returns an error only
// for infrastructure failures; domain outcomes, including failures, are
// encoded in the result status.
func (s *GenerationService) Generate(
	ctx context.Context,
	req *models.GenerationRequest,
) (*models.GenerationResult, error) {
	log.Printf("📋 Starting generation for trigger: %s (%s)", req.TriggerID, req.OutputType)

	handler, ok := s.handlers[req.OutputType]
	if !ok {
		log.Printf("⚠️ Unsupported output type requested: %s", req.OutputType)
		return &models.GenerationResult{
			Status: models.GenerationStatusUnsupported,
			Reason: fmt.Sprintf("unsupported output type: %s", req.OutputType),
			Cost:   decimal.Zero,
		}, nil
	}

	if len(req.Repositories) == 0 {
		return &models.GenerationResult{
			Status: models.GenerationStatusFailed,
			Reason: "trigger has no target repositories",
			Cost:   decimal.Zero,
		}, nil
	}

	allowList, err := s.buildAllowList(req)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository access: %w", err)
	}

	tone := models.ResolveTone(req.Tone)

	activity, err := s.collectActivity(ctx, allowList, req.LookbackDays)
	if err != nil {
		var rateLimitErr *clients.RateLimitError
		if errors.As(err, &rateLimitErr) {
			log.Printf("⚠️ Rate limited while collecting activity for trigger %s", req.TriggerID)
			return &models.GenerationResult{
				Status:            models.GenerationStatusRateLimited,
				Reason:            rateLimitErr.Error(),
				RetryAfterSeconds: rateLimitErr.RetryAfterSeconds,
				Cost:              decimal.Zero,
			}, nil
		}
		return &models.GenerationResult{
			Status: models.GenerationStatusFailed,
			Reason: fmt.Sprintf("failed to collect repository activity: %v", err),
			Cost:   decimal.Zero,
		}, nil
	}

	state := &runState{}
	system, prompt := handler(tone, activity)

	agentResult, err := s.agentClient.RunAgent(ctx, clients.RunAgentParams{
		System:   system,
		Prompt:   prompt,
		Tools:    s.buildTools(ctx, req, allowList, state),
		MaxSteps: maxAgentSteps,
	})

	cost := decimal.Zero
	if agentResult != nil {
		cost = runCost(agentResult.InputTokens, agentResult.OutputTokens)
	}

	if err != nil {
		if state.rateLimitErr != nil {
			return &models.GenerationResult{
				Status:            models.GenerationStatusRateLimited,
				Reason:            state.rateLimitErr.Error(),
				RetryAfterSeconds: state.rateLimitErr.RetryAfterSeconds,
				Cost:              cost,
			}, nil
		}
		return &models.GenerationResult{
			Status: models.GenerationStatusFailed,
			Reason: fmt.Sprintf("agent run failed: %v", err),
			Cost:   cost,
		}, nil
	}

	if !state.created {
		log.Printf("⚠️ Agent finished without creating content for trigger: %s", req.TriggerID)
		return &models.GenerationResult{
			Status: models.GenerationStatusFailed,
			Reason: ReasonNoContentCreated,
			Cost:   cost,
		}, nil
	}

	log.Printf("📋 Completed successfully - generated post %s for trigger: %s", state.postID, req.TriggerID)
	return &models.GenerationResult{
		Status: models.GenerationStatusCompleted,
		PostID: state.postID,
		Title:  state.title,
		Cost:   cost,
	}, nil
}

func runCost(inputTokens, outputTokens int64) decimal.Decimal {
	return decimal.NewFromInt(inputTokens).Mul(inputTokenPrice).
		Add(decimal.NewFromInt(outputTokens).Mul(outputTokenPrice))
}

// buildAllowList maps "owner/name" to the repository and the decrypted token
// of its integration. Tools only ever see repositories from this map.
func (s *GenerationService) buildAllowList(req *models.GenerationRequest) (map[string]allowedRepo, error) {
	integrationsByID := make(map[string]*models.Integration, len(req.Integrations))
	for _, integration := range req.Integrations {
		integrationsByID[integration.ID] = integration
	}

	allowList := make(map[string]allowedRepo, len(req.Repositories))
	for _, repo := range req.Repositories {
		integration, ok := integrationsByID[repo.IntegrationID]
		if !ok {
			return nil, fmt.Errorf("repository %s has no matching integration", repo.ID)
		}
		token, err := s.integrationsService.DecryptAccessToken(integration)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt token for integration %s: %w", integration.ID, err)
		}
		allowList[repo.FullName()] = allowedRepo{repo: repo, token: token}
	}

	return allowList, nil
}

// collectActivity summarizes recent commits and merged pull requests across
// the allow-listed repositories for the prompt.
func (s *GenerationService) collectActivity(
	ctx context.Context,
	allowList map[string]allowedRepo,
	lookbackDays int,
) (string, error) {
	since := time.Now().AddDate(0, 0, -lookbackDays)

	var b strings.Builder
	for fullName, entry := range allowList {
		commits, err := s.githubClient.ListCommits(ctx, entry.token, entry.repo.Owner, entry.repo.Name, since)
		if err != nil {
			return "", err
		}
		pullRequests, err := s.githubClient.ListMergedPullRequests(
			ctx, entry.token, entry.repo.Owner, entry.repo.Name, since)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "Repository %s (%d commits, %d merged pull requests in the last %d days):\n",
			fullName, len(commits), len(pullRequests), lookbackDays)
		for _, pr := range pullRequests {
			fmt.Fprintf(&b, "- PR #%d: %s\n", pr.Number, pr.Title)
		}
		for _, commit := range commits {
			fmt.Fprintf(&b, "- commit %.7s: %s\n", commit.SHA, firstLine(commit.Message))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func firstLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}

// buildTools assembles the bounded tool set for one run. Read tools are
// closed over the allow-list; content tools are closed over the run state.
func (s *GenerationService) buildTools(
	ctx context.Context,
	req *models.GenerationRequest,
	allowList map[string]allowedRepo,
	state *runState,
) []clients.AgentTool {
	return []clients.AgentTool{
		s.listCommitsTool(ctx, allowList, req.LookbackDays, state),
		s.listPullRequestsTool(ctx, allowList, req.LookbackDays, state),
		s.createContentTool(ctx, req, state),
		s.updateContentTool(ctx, req, state),
		s.viewContentTool(ctx, req),
	}
}

func resolveAllowedRepo(allowList map[string]allowedRepo, fullName string) (allowedRepo, error) {
	entry, ok := allowList[fullName]
	if !ok {
		return allowedRepo{}, fmt.Errorf("repository %q is not available to this run", fullName)
	}
	return entry, nil
}

func (s *GenerationService) listCommitsTool(
	ctx context.Context,
	allowList map[string]allowedRepo,
	lookbackDays int,
	state *runState,
) clients.AgentTool {
	return clients.AgentTool{
		Name:        "list_commits",
		Description: "List recent commits on one of the run's repositories.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"repository": map[string]any{
					"type":        "string",
					"description": "Repository in owner/name form",
				},
			},
			"required": []string{"repository"},
		},
		Handler: func(input []byte) (string, error) {
			var args struct {
				Repository string `json:"repository"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid tool input: %w", err)
			}
			entry, err := resolveAllowedRepo(allowList, args.Repository)
			if err != nil {
				return "", err
			}

			since := time.Now().AddDate(0, 0, -lookbackDays)
			commits, err := s.githubClient.ListCommits(ctx, entry.token, entry.repo.Owner, entry.repo.Name, since)
			if err != nil {
				var rateLimitErr *clients.RateLimitError
				if errors.As(err, &rateLimitErr) {
					state.rateLimitErr = rateLimitErr
				}
				return "", err
			}

			out, err := json.Marshal(commits)
			if err != nil {
				return "", fmt.Errorf("failed to encode commits: %w", err)
			}
			return string(out), nil
		},
	}
}

func (s *GenerationService) listPullRequestsTool(
	ctx context.Context,
	allowList map[string]allowedRepo,
	lookbackDays int,
	state *runState,
) clients.AgentTool {
	return clients.AgentTool{
		Name:        "list_pull_requests",
		Description: "List recently merged pull requests on one of the run's repositories.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"repository": map[string]any{
					"type":        "string",
					"description": "Repository in owner/name form",
				},
			},
			"required": []string{"repository"},
		},
		Handler: func(input []byte) (string, error) {
			var args struct {
				Repository string `json:"repository"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid tool input: %w", err)
			}
			entry, err := resolveAllowedRepo(allowList, args.Repository)
			if err != nil {
				return "", err
			}

			since := time.Now().AddDate(0, 0, -lookbackDays)
			pullRequests, err := s.githubClient.ListMergedPullRequests(
				ctx, entry.token, entry.repo.Owner, entry.repo.Name, since)
			if err != nil {
				var rateLimitErr *clients.RateLimitError
				if errors.As(err, &rateLimitErr) {
					state.rateLimitErr = rateLimitErr
				}
				return "", err
			}

			out, err := json.Marshal(pullRequests)
			if err != nil {
				return "", fmt.Errorf("failed to encode pull requests: %w", err)
			}
			return string(out), nil
		},
	}
}

// createContentTool persists the generated artifact. A second invocation in
// the same run returns already_created with the first post's id instead of
// creating a duplicate.
func (s *GenerationService) createContentTool(
	ctx context.Context,
	req *models.GenerationRequest,
	state *runState,
) clients.AgentTool {
	return clients.AgentTool{
		Name:        "create_content",
		Description: "Save the generated content as a draft. Call this exactly once with the final title and content.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":   map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"title", "content"},
		},
		Handler: func(input []byte) (string, error) {
			var args struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid tool input: %w", err)
			}

			if state.created {
				out, _ := json.Marshal(map[string]string{
					"status":  "already_created",
					"post_id": state.postID,
				})
				return string(out), nil
			}

			sourceRepos := make([]string, 0, len(req.Repositories))
			for _, repo := range req.Repositories {
				sourceRepos = append(sourceRepos, repo.FullName())
			}

			triggerID := req.TriggerID
			post, err := s.postsService.CreatePost(ctx, &models.Post{
				OrgID:        req.OrgID,
				Title:        args.Title,
				Content:      args.Content,
				ContentType:  req.OutputType,
				Status:       models.PostStatusDraft,
				TriggerID:    &triggerID,
				SourceRepos:  sourceRepos,
				LookbackDays: req.LookbackDays,
			})
			if err != nil {
				return "", fmt.Errorf("failed to create post: %w", err)
			}

			state.created = true
			state.postID = post.ID
			state.title = post.Title

			out, _ := json.Marshal(map[string]string{
				"status":  "created",
				"post_id": post.ID,
			})
			return string(out), nil
		},
	}
}

func (s *GenerationService) updateContentTool(
	ctx context.Context,
	req *models.GenerationRequest,
	state *runState,
) clients.AgentTool {
	return clients.AgentTool{
		Name:        "update_content",
		Description: "Revise the draft created earlier in this run.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"post_id": map[string]any{"type": "string"},
				"title":   map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"post_id", "title", "content"},
		},
		Handler: func(input []byte) (string, error) {
			var args struct {
				PostID  string `json:"post_id"`
				Title   string `json:"title"`
				Content string `json:"content"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid tool input: %w", err)
			}
			if !state.created || args.PostID != state.postID {
				return "", fmt.Errorf("post %q was not created by this run", args.PostID)
			}

			post, err := s.postsService.UpdatePostContent(ctx, req.OrgID, args.PostID, args.Title, args.Content)
			if err != nil {
				return "", fmt.Errorf("failed to update post: %w", err)
			}
			state.title = post.Title

			out, _ := json.Marshal(map[string]string{
				"status":  "updated",
				"post_id": post.ID,
			})
			return string(out), nil
		},
	}
}

func (s *GenerationService) viewContentTool(
	ctx context.Context,
	req *models.GenerationRequest,
) clients.AgentTool {
	return clients.AgentTool{
		Name:        "view_content",
		Description: "Read back a draft saved earlier in this run.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"post_id": map[string]any{"type": "string"},
			},
			"required": []string{"post_id"},
		},
		Handler: func(input []byte) (string, error) {
			var args struct {
				PostID string `json:"post_id"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid tool input: %w", err)
			}

			maybePost, err := s.postsService.GetPostByID(ctx, req.OrgID, args.PostID)
			if err != nil {
				return "", fmt.Errorf("failed to get post: %w", err)
			}
			post, exists := maybePost.Get()
			if !exists {
				return "", fmt.Errorf("post not found: %s", args.PostID)
			}

			out, err := json.Marshal(map[string]string{
				"title":   post.Title,
				"content": post.Content,
			})
			if err != nil {
				return "", fmt.Errorf("failed to encode post: %w", err)
			}
			return string(out), nil
		},
	}
}
