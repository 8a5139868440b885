package s3

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/clients"
)

// MockStorageClient is a testify mock for clients.StorageClient
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) PresignUpload(
	ctx context.Context,
	key, contentType string,
) (*clients.PresignedUpload, error) {
	args := m.Called(ctx, key, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.PresignedUpload), args.Error(1)
}

func (m *MockStorageClient) DeleteObjectsWithPrefix(ctx context.Context, prefix string) error {
	args := m.Called(ctx, prefix)
	return args.Error(0)
}
