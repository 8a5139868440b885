package integrations

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/samber/mo"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services"
)

// ErrInvalidToken is returned when the supplied access token fails validation
// against the external API.
var ErrInvalidToken = errors.New("access token is invalid")

// ErrRepositoryUnreachable is returned when a tokenless integration targets a
// repository that is not publicly reachable.
var ErrRepositoryUnreachable = errors.New("repository is not publicly reachable")

// ErrMultiRepoBranchEdit is returned when a default-branch edit targets an
// integration with more than one repository.
var ErrMultiRepoBranchEdit = errors.New("default branch can only be edited on single-repository integrations")

type IntegrationsService struct {
	integrationsRepo *db.PostgresIntegrationsRepository
	reposRepo        *db.PostgresRepositoriesRepository
	outputsRepo      *db.PostgresOutputsRepository
	triggersService  services.TriggersService
	githubClient     clients.GitHubClient
	tokenCipher      *core.TokenCipher
	txManager        services.TransactionManager
}

func NewIntegrationsService(
	integrationsRepo *db.PostgresIntegrationsRepository,
	reposRepo *db.PostgresRepositoriesRepository,
	outputsRepo *db.PostgresOutputsRepository,
	triggersService services.TriggersService,
	githubClient clients.GitHubClient,
	tokenCipher *core.TokenCipher,
	txManager services.TransactionManager,
) *IntegrationsService {
	return &IntegrationsService{
		integrationsRepo: integrationsRepo,
		reposRepo:        reposRepo,
		outputsRepo:      outputsRepo,
		triggersService:  triggersService,
		githubClient:     githubClient,
		tokenCipher:      tokenCipher,
		txManager:        txManager,
	}
}

// CreateIntegration validates the connection against GitHub and persists the
// integration together with its first repository and the three default output
// rows. A missing token restricts the integration to public repositories.
func (s *IntegrationsService) CreateIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	createdBy, accessToken, owner, repo string,
) (*models.Integration, error) {
	log.Printf("📋 Starting to create integration for org: %s, repo: %s/%s", organizationID, owner, repo)

	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("repository owner and name cannot be empty")
	}

	var encryptedToken *string
	if accessToken != "" {
		if _, err := s.githubClient.GetAuthenticatedUser(ctx, accessToken); err != nil {
			log.Printf("❌ Token validation failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		encrypted, err := s.tokenCipher.Encrypt(accessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt token: %w", err)
		}
		encryptedToken = &encrypted
	}

	// Fetch repository metadata; without a token this doubles as the
	// public-reachability check.
	remoteRepo, err := s.githubClient.GetRepository(ctx, accessToken, owner, repo)
	if err != nil {
		if accessToken == "" {
			log.Printf("❌ Public repository check failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrRepositoryUnreachable, err)
		}
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}

	integration := &models.Integration{
		ID:                   core.NewID("oi"),
		OrgID:                organizationID,
		Type:                 models.IntegrationTypeGitHub,
		EncryptedAccessToken: encryptedToken,
		DisplayName:          owner + "/" + repo,
		Enabled:              true,
		CreatedBy:            createdBy,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.integrationsRepo.CreateIntegration(txCtx, integration); err != nil {
			return err
		}

		defaultBranch := remoteRepo.DefaultBranch
		repository := &models.Repository{
			ID:            core.NewID("rp"),
			IntegrationID: integration.ID,
			OrgID:         organizationID,
			Owner:         remoteRepo.Owner,
			Name:          remoteRepo.Name,
			DefaultBranch: &defaultBranch,
			Enabled:       true,
		}
		if err := s.reposRepo.CreateRepository(txCtx, repository); err != nil {
			return err
		}

		for _, outputType := range models.SupportedOutputTypes {
			output := &models.Output{
				ID:            core.NewID("op"),
				IntegrationID: integration.ID,
				OrgID:         organizationID,
				Type:          outputType,
				Enabled:       outputType == models.OutputTypeChangelog,
			}
			if err := s.outputsRepo.CreateOutput(txCtx, output); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create integration: %w", err)
	}

	log.Printf("📋 Completed successfully - created integration: %s", integration.ID)
	return integration, nil
}

func (s *IntegrationsService) GetIntegrationByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Integration], error) {
	if id == "" {
		return mo.None[*models.Integration](), fmt.Errorf("integration ID cannot be empty")
	}
	if !core.IsValidULID(id) {
		return mo.None[*models.Integration](), fmt.Errorf("integration ID must be a valid ULID")
	}
	return s.integrationsRepo.GetIntegrationByID(ctx, organizationID, id)
}

// ListIntegrations returns every integration with its repositories
// (deduplicated by owner/name) and output toggles.
func (s *IntegrationsService) ListIntegrations(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.IntegrationWithRepositories, error) {
	log.Printf("📋 Starting to list integrations for org: %s", organizationID)

	integrations, err := s.integrationsRepo.GetIntegrationsByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	result := make([]*models.IntegrationWithRepositories, 0, len(integrations))
	for _, integration := range integrations {
		repos, err := s.reposRepo.GetRepositoriesByIntegrationID(ctx, organizationID, integration.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}

		outputs, err := s.outputsRepo.GetOutputsByIntegrationID(ctx, organizationID, integration.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list outputs: %w", err)
		}

		result = append(result, &models.IntegrationWithRepositories{
			Integration:  integration,
			Repositories: dedupeRepositories(repos),
			Outputs:      outputs,
		})
	}

	log.Printf("📋 Completed successfully - found %d integrations", len(result))
	return result, nil
}

// dedupeRepositories keeps the first repository for each owner/name key
func dedupeRepositories(repos []*models.Repository) []*models.Repository {
	seen := make(map[string]bool, len(repos))
	deduped := make([]*models.Repository, 0, len(repos))
	for _, repo := range repos {
		key := repo.FullName()
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, repo)
	}
	return deduped
}

func (s *IntegrationsService) UpdateIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
	enabled *bool,
	displayName *string,
) (*models.Integration, error) {
	log.Printf("📋 Starting to update integration: %s", id)

	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("integration ID must be a valid ULID")
	}

	maybeIntegration, err := s.integrationsRepo.UpdateIntegration(ctx, organizationID, id, enabled, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to update integration: %w", err)
	}
	integration, exists := maybeIntegration.Get()
	if !exists {
		return nil, fmt.Errorf("integration not found: %w", core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - updated integration: %s", id)
	return integration, nil
}

// DeleteIntegration removes an integration. Cron triggers targeting any of
// its repositories are disabled first, with their remote schedules torn down
// best-effort.
func (s *IntegrationsService) DeleteIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) error {
	log.Printf("📋 Starting to delete integration: %s for org: %s", id, organizationID)

	if !core.IsValidULID(id) {
		return fmt.Errorf("integration ID must be a valid ULID")
	}

	maybeIntegration, err := s.integrationsRepo.GetIntegrationByID(ctx, organizationID, id)
	if err != nil {
		return fmt.Errorf("failed to get integration: %w", err)
	}
	if _, exists := maybeIntegration.Get(); !exists {
		return fmt.Errorf("integration not found: %w", core.ErrNotFound)
	}

	disabled, err := s.triggersService.DisableTriggersTargetingIntegration(ctx, organizationID, id)
	if err != nil {
		return fmt.Errorf("failed to disable dependent triggers: %w", err)
	}
	if disabled > 0 {
		log.Printf("📋 Disabled %d triggers targeting integration: %s", disabled, id)
	}

	if err := s.integrationsRepo.DeleteIntegration(ctx, organizationID, id); err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	log.Printf("📋 Completed successfully - deleted integration: %s", id)
	return nil
}

// UpdateDefaultBranch changes the default branch of a single-repository
// integration after verifying the branch exists on the remote host.
func (s *IntegrationsService) UpdateDefaultBranch(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID, branch string,
) error {
	log.Printf("📋 Starting to update default branch for integration: %s", integrationID)

	if branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}

	maybeIntegration, err := s.integrationsRepo.GetIntegrationByID(ctx, organizationID, integrationID)
	if err != nil {
		return fmt.Errorf("failed to get integration: %w", err)
	}
	integration, exists := maybeIntegration.Get()
	if !exists {
		return fmt.Errorf("integration not found: %w", core.ErrNotFound)
	}

	repos, err := s.reposRepo.GetRepositoriesByIntegrationID(ctx, organizationID, integrationID)
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}
	if len(repos) != 1 {
		return ErrMultiRepoBranchEdit
	}
	repo := repos[0]

	accessToken, err := s.DecryptAccessToken(integration)
	if err != nil {
		return fmt.Errorf("failed to decrypt token: %w", err)
	}

	exists, err = s.githubClient.BranchExists(ctx, accessToken, repo.Owner, repo.Name, branch)
	if err != nil {
		return fmt.Errorf("failed to check branch: %w", err)
	}
	if !exists {
		return &clients.BranchNotFoundError{Owner: repo.Owner, Repo: repo.Name, Branch: branch}
	}

	if _, err := s.reposRepo.UpdateDefaultBranch(ctx, organizationID, repo.ID, branch); err != nil {
		return fmt.Errorf("failed to update default branch: %w", err)
	}

	log.Printf("📋 Completed successfully - updated default branch for integration: %s", integrationID)
	return nil
}

func (s *IntegrationsService) GetRepositoriesByIDs(
	ctx context.Context,
	organizationID models.OrgID,
	ids []string,
) ([]*models.Repository, error) {
	return s.reposRepo.GetRepositoriesByIDs(ctx, organizationID, ids)
}

// DecryptAccessToken returns the integration's plaintext token, or "" when
// the integration is public-only.
func (s *IntegrationsService) DecryptAccessToken(integration *models.Integration) (string, error) {
	if !integration.HasToken() {
		return "", nil
	}
	return s.tokenCipher.Decrypt(*integration.EncryptedAccessToken)
}
