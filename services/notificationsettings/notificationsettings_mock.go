package notificationsettings

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockNotificationSettingsService is a mock implementation of the NotificationSettingsService interface
type MockNotificationSettingsService struct {
	mock.Mock
}

func (m *MockNotificationSettingsService) GetNotificationSettings(
	ctx context.Context,
	organizationID models.OrgID,
) (*models.NotificationSettings, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationSettings), args.Error(1)
}

func (m *MockNotificationSettingsService) UpdateNotificationSettings(
	ctx context.Context,
	organizationID models.OrgID,
	emailOnSuccess, emailOnFailure bool,
) (*models.NotificationSettings, error) {
	args := m.Called(ctx, organizationID, emailOnSuccess, emailOnFailure)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationSettings), args.Error(1)
}
