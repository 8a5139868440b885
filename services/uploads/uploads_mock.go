package uploads

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockUploadsService is a mock implementation of the UploadsService interface
type MockUploadsService struct {
	mock.Mock
}

func (m *MockUploadsService) CreatePresignedUpload(
	ctx context.Context,
	organizationID models.OrgID,
	uploadType, fileName, fileType string,
	fileSize int64,
) (*models.PresignedUploadResult, error) {
	args := m.Called(ctx, organizationID, uploadType, fileName, fileType, fileSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PresignedUploadResult), args.Error(1)
}
