package integrations

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taqh/notra-sub001/clients"
	githubclient "github.com/taqh/notra-sub001/clients/github"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
	triggerssvc "github.com/taqh/notra-sub001/services/triggers"
	"github.com/taqh/notra-sub001/services/txmanager"
	"github.com/taqh/notra-sub001/testutils"
)

type integrationsTestEnv struct {
	service   *IntegrationsService
	github    *githubclient.MockGitHubClient
	triggers  *triggerssvc.MockTriggersService
	org       *models.Organization
	cipher    *core.TokenCipher
	reposRepo *db.PostgresRepositoriesRepository
}

func setupIntegrationsTest(t *testing.T) *integrationsTestEnv {
	conn, schema := testutils.SetupTestDB(t)

	orgsRepo := db.NewPostgresOrganizationsRepository(conn, schema)
	integrationsRepo := db.NewPostgresIntegrationsRepository(conn, schema)
	reposRepo := db.NewPostgresRepositoriesRepository(conn, schema)
	outputsRepo := db.NewPostgresOutputsRepository(conn, schema)

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	cipher, err := core.NewTokenCipher(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)

	github := new(githubclient.MockGitHubClient)
	triggers := new(triggerssvc.MockTriggersService)
	service := NewIntegrationsService(
		integrationsRepo, reposRepo, outputsRepo,
		triggers, github, cipher, txmanager.NewTransactionManager(conn),
	)

	return &integrationsTestEnv{
		service:   service,
		github:    github,
		triggers:  triggers,
		org:       testutils.CreateTestOrganization(t, orgsRepo),
		cipher:    cipher,
		reposRepo: reposRepo,
	}
}

func TestCreateIntegration(t *testing.T) {
	t.Run("valid token creates integration, repository and outputs", func(t *testing.T) {
		env := setupIntegrationsTest(t)

		env.github.On("GetAuthenticatedUser", mock.Anything, "ghp_valid").
			Return(&clients.GitHubUser{Login: "octocat"}, nil)
		env.github.On("GetRepository", mock.Anything, "ghp_valid", "acme", "platform").
			Return(&clients.GitHubRepository{Owner: "acme", Name: "platform", DefaultBranch: "main"}, nil)

		integration, err := env.service.CreateIntegration(
			context.Background(), env.org.ID, "u_creator", "ghp_valid", "acme", "platform")

		require.NoError(t, err)
		assert.True(t, core.IsValidULID(integration.ID))
		assert.Equal(t, "acme/platform", integration.DisplayName)
		assert.True(t, integration.Enabled)
		require.True(t, integration.HasToken())

		// Stored token round-trips through the cipher
		plaintext, err := env.cipher.Decrypt(*integration.EncryptedAccessToken)
		require.NoError(t, err)
		assert.Equal(t, "ghp_valid", plaintext)

		listed, err := env.service.ListIntegrations(context.Background(), env.org.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Len(t, listed[0].Repositories, 1)
		assert.Equal(t, "acme/platform", listed[0].Repositories[0].FullName())
		require.NotNil(t, listed[0].Repositories[0].DefaultBranch)
		assert.Equal(t, "main", *listed[0].Repositories[0].DefaultBranch)

		// Three output toggles, changelog enabled by default
		require.Len(t, listed[0].Outputs, len(models.SupportedOutputTypes))
		for _, output := range listed[0].Outputs {
			assert.Equal(t, output.Type == models.OutputTypeChangelog, output.Enabled)
		}
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		env := setupIntegrationsTest(t)

		env.github.On("GetAuthenticatedUser", mock.Anything, "ghp_bad").
			Return(nil, fmt.Errorf("401 unauthorized"))

		_, err := env.service.CreateIntegration(
			context.Background(), env.org.ID, "u_creator", "ghp_bad", "acme", "platform")

		require.ErrorIs(t, err, ErrInvalidToken)
		env.github.AssertNotCalled(t, "GetRepository", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tokenless integration requires a public repository", func(t *testing.T) {
		env := setupIntegrationsTest(t)

		env.github.On("GetRepository", mock.Anything, "", "acme", "private-repo").
			Return(nil, fmt.Errorf("404 not found"))

		_, err := env.service.CreateIntegration(
			context.Background(), env.org.ID, "u_creator", "", "acme", "private-repo")

		require.ErrorIs(t, err, ErrRepositoryUnreachable)
	})

	t.Run("tokenless integration against a public repository stores no token", func(t *testing.T) {
		env := setupIntegrationsTest(t)

		env.github.On("GetRepository", mock.Anything, "", "acme", "oss").
			Return(&clients.GitHubRepository{Owner: "acme", Name: "oss", DefaultBranch: "main"}, nil)

		integration, err := env.service.CreateIntegration(
			context.Background(), env.org.ID, "u_creator", "", "acme", "oss")

		require.NoError(t, err)
		assert.False(t, integration.HasToken())
		env.github.AssertNotCalled(t, "GetAuthenticatedUser", mock.Anything, mock.Anything)

		token, err := env.service.DecryptAccessToken(integration)
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestDeleteIntegration(t *testing.T) {
	t.Run("disables dependent triggers before deleting", func(t *testing.T) {
		env := setupIntegrationsTest(t)

		env.github.On("GetRepository", mock.Anything, "", "acme", "oss").
			Return(&clients.GitHubRepository{Owner: "acme", Name: "oss", DefaultBranch: "main"}, nil)
		integration, err := env.service.CreateIntegration(
			context.Background(), env.org.ID, "u_creator", "", "acme", "oss")
		require.NoError(t, err)

		env.triggers.On("DisableTriggersTargetingIntegration", mock.Anything, env.org.ID, integration.ID).
			Return(2, nil)

		err = env.service.DeleteIntegration(context.Background(), env.org.ID, integration.ID)

		require.NoError(t, err)
		env.triggers.AssertExpectations(t)

		maybeIntegration, err := env.service.GetIntegrationByID(context.Background(), env.org.ID, integration.ID)
		require.NoError(t, err)
		_, exists := maybeIntegration.Get()
		assert.False(t, exists)
	})

	t.Run("unknown integration maps to not found", func(t *testing.T) {
		env := setupIntegrationsTest(t)

		err := env.service.DeleteIntegration(context.Background(), env.org.ID, core.NewID("oi"))

		require.ErrorIs(t, err, core.ErrNotFound)
		env.triggers.AssertNotCalled(t, "DisableTriggersTargetingIntegration", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateDefaultBranch(t *testing.T) {
	setupWithRepo := func(t *testing.T) (*integrationsTestEnv, *models.Integration) {
		env := setupIntegrationsTest(t)
		env.github.On("GetRepository", mock.Anything, "", "acme", "oss").
			Return(&clients.GitHubRepository{Owner: "acme", Name: "oss", DefaultBranch: "main"}, nil)
		integration, err := env.service.CreateIntegration(
			context.Background(), env.org.ID, "u_creator", "", "acme", "oss")
		require.NoError(t, err)
		return env, integration
	}

	t.Run("existing branch is stored", func(t *testing.T) {
		env, integration := setupWithRepo(t)

		env.github.On("BranchExists", mock.Anything, "", "acme", "oss", "develop").Return(true, nil)

		err := env.service.UpdateDefaultBranch(context.Background(), env.org.ID, integration.ID, "develop")

		require.NoError(t, err)
		listed, err := env.service.ListIntegrations(context.Background(), env.org.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.NotNil(t, listed[0].Repositories[0].DefaultBranch)
		assert.Equal(t, "develop", *listed[0].Repositories[0].DefaultBranch)
	})

	t.Run("missing branch yields BranchNotFoundError", func(t *testing.T) {
		env, integration := setupWithRepo(t)

		env.github.On("BranchExists", mock.Anything, "", "acme", "oss", "ghost").Return(false, nil)

		err := env.service.UpdateDefaultBranch(context.Background(), env.org.ID, integration.ID, "ghost")

		var branchErr *clients.BranchNotFoundError
		require.ErrorAs(t, err, &branchErr)
		assert.Equal(t, "ghost", branchErr.Branch)
	})

	t.Run("multi-repository integration cannot edit the branch", func(t *testing.T) {
		env, integration := setupWithRepo(t)
		testutils.CreateTestRepository(t, env.reposRepo, env.org.ID, integration.ID, "acme", "second")

		err := env.service.UpdateDefaultBranch(context.Background(), env.org.ID, integration.ID, "develop")

		require.ErrorIs(t, err, ErrMultiRepoBranchEdit)
		env.github.AssertNotCalled(t, "BranchExists", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty branch is rejected", func(t *testing.T) {
		env, integration := setupWithRepo(t)

		err := env.service.UpdateDefaultBranch(context.Background(), env.org.ID, integration.ID, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "branch cannot be empty")
	})
}
