package integrations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockIntegrationsService is a mock implementation of the IntegrationsService interface
type MockIntegrationsService struct {
	mock.Mock
}

func (m *MockIntegrationsService) CreateIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	createdBy, accessToken, owner, repo string,
) (*models.Integration, error) {
	args := m.Called(ctx, organizationID, createdBy, accessToken, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) GetIntegrationByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Integration], error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(mo.Option[*models.Integration]), args.Error(1)
}

func (m *MockIntegrationsService) ListIntegrations(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.IntegrationWithRepositories, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.IntegrationWithRepositories), args.Error(1)
}

func (m *MockIntegrationsService) UpdateIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
	enabled *bool,
	displayName *string,
) (*models.Integration, error) {
	args := m.Called(ctx, organizationID, id, enabled, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) DeleteIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockIntegrationsService) UpdateDefaultBranch(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID, branch string,
) error {
	args := m.Called(ctx, organizationID, integrationID, branch)
	return args.Error(0)
}

func (m *MockIntegrationsService) GetRepositoriesByIDs(
	ctx context.Context,
	organizationID models.OrgID,
	ids []string,
) ([]*models.Repository, error) {
	args := m.Called(ctx, organizationID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Repository), args.Error(1)
}

func (m *MockIntegrationsService) DecryptAccessToken(integration *models.Integration) (string, error) {
	args := m.Called(integration)
	return args.String(0), args.Error(1)
}
