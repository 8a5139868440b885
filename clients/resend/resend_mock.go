package resend

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/clients"
)

// MockEmailClient is a testify mock for clients.EmailClient
type MockEmailClient struct {
	mock.Mock
}

func (m *MockEmailClient) SendEmail(ctx context.Context, params clients.SendEmailParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}
