package webhooklogs

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockWebhookLogsService is a mock implementation of the WebhookLogsService interface
type MockWebhookLogsService struct {
	mock.Mock
}

func (m *MockWebhookLogsService) AppendEntry(
	ctx context.Context,
	org *models.Organization,
	entry *models.WebhookLogEntry,
) error {
	args := m.Called(ctx, org, entry)
	return args.Error(0)
}

func (m *MockWebhookLogsService) ListEntries(
	ctx context.Context,
	organizationID models.OrgID,
	integrationType models.IntegrationType,
	integrationID string,
	page, pageSize int,
) (*models.WebhookLogPage, error) {
	args := m.Called(ctx, organizationID, integrationType, integrationID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebhookLogPage), args.Error(1)
}

// MockLogStore is a mock implementation of the LogStore interface
type MockLogStore struct {
	mock.Mock
}

func (m *MockLogStore) AppendEntry(
	ctx context.Context,
	entry *models.WebhookLogEntry,
	retentionDays int,
) error {
	args := m.Called(ctx, entry, retentionDays)
	return args.Error(0)
}

func (m *MockLogStore) ListEntries(
	ctx context.Context,
	orgID models.OrgID,
	integrationType models.IntegrationType,
	integrationID string,
) ([]*models.WebhookLogEntry, error) {
	args := m.Called(ctx, orgID, integrationType, integrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WebhookLogEntry), args.Error(1)
}
