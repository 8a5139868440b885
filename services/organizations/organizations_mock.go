package organizations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockOrganizationsService is a mock implementation of the OrganizationsService interface
type MockOrganizationsService struct {
	mock.Mock
}

func (m *MockOrganizationsService) CreateOrganization(
	ctx context.Context,
	name string,
	owner *models.User,
) (*models.Organization, error) {
	args := m.Called(ctx, name, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationsService) GetOrganizationByID(
	ctx context.Context,
	id models.OrgID,
) (mo.Option[*models.Organization], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Organization]), args.Error(1)
}

func (m *MockOrganizationsService) GetMembership(
	ctx context.Context,
	organizationID models.OrgID,
	userID string,
) (mo.Option[*models.OrganizationMembership], error) {
	args := m.Called(ctx, organizationID, userID)
	return args.Get(0).(mo.Option[*models.OrganizationMembership]), args.Error(1)
}

func (m *MockOrganizationsService) GetMembershipsByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.OrganizationMembership, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrganizationMembership), args.Error(1)
}
