package posts

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
)

type PostsService struct {
	postsRepo *db.PostgresPostsRepository
}

func NewPostsService(postsRepo *db.PostgresPostsRepository) *PostsService {
	return &PostsService{postsRepo: postsRepo}
}

func (s *PostsService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.OrgID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}
	if post.Title == "" {
		return nil, fmt.Errorf("post title cannot be empty")
	}
	if post.Content == "" {
		return nil, fmt.Errorf("post content cannot be empty")
	}

	post.ID = core.NewID("ps")
	if post.Status == "" {
		post.Status = models.PostStatusDraft
	}

	if err := s.postsRepo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("➕ Created post: %s (%s)", post.ID, post.ContentType)
	return post, nil
}

func (s *PostsService) GetPostByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Post], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.Post](), fmt.Errorf("post ID must be a valid ULID")
	}
	return s.postsRepo.GetPostByID(ctx, organizationID, id)
}

func (s *PostsService) ListPosts(ctx context.Context, organizationID models.OrgID) ([]*models.Post, error) {
	return s.postsRepo.GetPostsByOrganizationID(ctx, organizationID)
}

func (s *PostsService) UpdatePostContent(
	ctx context.Context,
	organizationID models.OrgID,
	id, title, content string,
) (*models.Post, error) {
	if !core.IsValidULID(id) {
		return nil, fmt.Errorf("post ID must be a valid ULID")
	}
	if title == "" || content == "" {
		return nil, fmt.Errorf("post title and content cannot be empty")
	}

	maybePost, err := s.postsRepo.UpdatePostContent(ctx, organizationID, id, title, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	post, exists := maybePost.Get()
	if !exists {
		return nil, fmt.Errorf("post not found: %w", core.ErrNotFound)
	}

	return post, nil
}
