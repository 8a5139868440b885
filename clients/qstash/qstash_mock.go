package qstash

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSchedulerClient is a testify mock for clients.SchedulerClient
type MockSchedulerClient struct {
	mock.Mock
}

func (m *MockSchedulerClient) CreateSchedule(
	ctx context.Context,
	triggerID, cronExpression, destinationURL string,
) (string, error) {
	args := m.Called(ctx, triggerID, cronExpression, destinationURL)
	return args.String(0), args.Error(1)
}

func (m *MockSchedulerClient) DeleteSchedule(ctx context.Context, scheduleID string) error {
	args := m.Called(ctx, scheduleID)
	return args.Error(0)
}

func (m *MockSchedulerClient) PublishRunNow(
	ctx context.Context,
	triggerID, destinationURL string,
	manual bool,
) (string, error) {
	args := m.Called(ctx, triggerID, destinationURL, manual)
	return args.String(0), args.Error(1)
}
