package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
)

// LoadTestConfig loads the database settings tests run against from
// environment variables, trying the usual .env locations first.
func LoadTestConfig() (databaseURL, databaseSchema string, err error) {
	_ = godotenv.Load("../../.env.test") // from a service package
	_ = godotenv.Load("../.env.test")
	_ = godotenv.Load(".env.test")
	_ = godotenv.Load()

	databaseURL = os.Getenv("DB_URL")
	if databaseURL == "" {
		return "", "", fmt.Errorf("DB_URL is not set")
	}

	databaseSchema = os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		return "", "", fmt.Errorf("DB_SCHEMA is not set")
	}

	return databaseURL, databaseSchema, nil
}

// SetupTestDB connects to the configured test database, skipping the test
// when none is configured. The connection is closed on test cleanup.
func SetupTestDB(t *testing.T) (*sqlx.DB, string) {
	databaseURL, databaseSchema, err := LoadTestConfig()
	if err != nil {
		t.Skipf("Skipping database test: %v", err)
	}

	conn, err := db.NewConnection(databaseURL)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() { _ = conn.Close() })

	return conn, databaseSchema
}

// CreateTestOrganization creates an organization row and removes it on cleanup
func CreateTestOrganization(t *testing.T, orgsRepo *db.PostgresOrganizationsRepository) *models.Organization {
	org := &models.Organization{
		ID:   models.OrgID(core.NewID("org")),
		Name: fmt.Sprintf("Test Org %s", core.NewID("x")),
		Plan: models.PlanTierFree,
	}
	err := orgsRepo.CreateOrganization(context.Background(), org)
	require.NoError(t, err, "Failed to create test organization")
	t.Cleanup(func() {
		_ = orgsRepo.DeleteOrganization(context.Background(), org.ID)
	})
	return org
}

// CreateTestIntegration creates a GitHub integration row owned by the organization
func CreateTestIntegration(
	t *testing.T,
	integrationsRepo *db.PostgresIntegrationsRepository,
	orgID models.OrgID,
) *models.Integration {
	integration := &models.Integration{
		ID:          core.NewID("oi"),
		OrgID:       orgID,
		Type:        models.IntegrationTypeGitHub,
		DisplayName: "test integration",
		Enabled:     true,
		CreatedBy:   "test",
	}
	err := integrationsRepo.CreateIntegration(context.Background(), integration)
	require.NoError(t, err, "Failed to create test integration")
	return integration
}

// CreateTestRepository creates a repository row under the given integration
func CreateTestRepository(
	t *testing.T,
	reposRepo *db.PostgresRepositoriesRepository,
	orgID models.OrgID,
	integrationID, owner, name string,
) *models.Repository {
	repository := &models.Repository{
		ID:            core.NewID("rp"),
		IntegrationID: integrationID,
		OrgID:         orgID,
		Owner:         owner,
		Name:          name,
		Enabled:       true,
	}
	err := reposRepo.CreateRepository(context.Background(), repository)
	require.NoError(t, err, "Failed to create test repository")
	return repository
}
