package generation

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockGenerationService is a mock implementation of the GenerationService interface
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(
	ctx context.Context,
	req *models.GenerationRequest,
) (*models.GenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GenerationResult), args.Error(1)
}
