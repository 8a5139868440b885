package notifications

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockNotificationsService is a mock implementation of the NotificationsService interface
type MockNotificationsService struct {
	mock.Mock
}

func (m *MockNotificationsService) NotifyRunOutcome(
	ctx context.Context,
	org *models.Organization,
	trigger *models.Trigger,
	result *models.GenerationResult,
) {
	m.Called(ctx, org, trigger, result)
}
