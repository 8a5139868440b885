package anthropic

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/clients"
)

// MockAgentClient is a testify mock for clients.AgentClient
type MockAgentClient struct {
	mock.Mock
}

func (m *MockAgentClient) RunAgent(
	ctx context.Context,
	params clients.RunAgentParams,
) (*clients.AgentResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.AgentResult), args.Error(1)
}
