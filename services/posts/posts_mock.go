package posts

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"github.com/taqh/notra-sub001/models"
)

// MockPostsService is a mock implementation of the PostsService interface
type MockPostsService struct {
	mock.Mock
}

func (m *MockPostsService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	args := m.Called(ctx, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostsService) GetPostByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Post], error) {
	args := m.Called(ctx, organizationID, id)
	return args.Get(0).(mo.Option[*models.Post]), args.Error(1)
}

func (m *MockPostsService) ListPosts(ctx context.Context, organizationID models.OrgID) ([]*models.Post, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostsService) UpdatePostContent(
	ctx context.Context,
	organizationID models.OrgID,
	id, title, content string,
) (*models.Post, error) {
	args := m.Called(ctx, organizationID, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}
