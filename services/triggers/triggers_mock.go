package triggers

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockTriggersService is a mock implementation of the TriggersService interface
type MockTriggersService struct {
	mock.Mock
}

func (m *MockTriggersService) CreateTrigger(ctx context.Context, trigger *models.Trigger) (*models.Trigger, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) GetTriggerByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Trigger], error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(mo.Option[*models.Trigger]), args.Error(1)
}

func (m *MockTriggersService) ListTriggers(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.Trigger, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) UpdateTrigger(ctx context.Context, trigger *models.Trigger) (*models.Trigger, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) SetTriggerEnabled(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
	enabled bool,
) (*models.Trigger, error) {
	args := m.Called(ctx, organizationID, id, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trigger), args.Error(1)
}

func (m *MockTriggersService) DeleteTrigger(ctx context.Context, organizationID models.OrgID, id string) error {
	args := m.Called(ctx, organizationID, id)
	return args.Error(0)
}

func (m *MockTriggersService) DisableTriggersTargetingIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID string,
) (int, error) {
	args := m.Called(ctx, organizationID, integrationID)
	return args.Int(0), args.Error(1)
}
