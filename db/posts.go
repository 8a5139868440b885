package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "github.com/taqh/notra-sub001/db/tx"
	"github.com/taqh/notra-sub001/models"
)

type PostgresPostsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for posts table
var postsColumns = []string{
	"id",
	"organization_id",
	"title",
	"content",
	"content_type",
	"status",
	"trigger_id",
	"source_repos",
	"lookback_days",
	"created_at",
	"updated_at",
}

func NewPostgresPostsRepository(db *sqlx.DB, schema string) *PostgresPostsRepository {
	return &PostgresPostsRepository{db: db, schema: schema}
}

func (r *PostgresPostsRepository) CreatePost(ctx context.Context, post *models.Post) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.posts (
			id, organization_id, title, content, content_type, status, trigger_id,
			source_repos, lookback_days, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		post.ID,
		post.OrgID,
		post.Title,
		post.Content,
		post.ContentType,
		post.Status,
		post.TriggerID,
		post.SourceRepos,
		post.LookbackDays,
	).StructScan(post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *PostgresPostsRepository) GetPostByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Post], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.posts
		WHERE id = $1 AND organization_id = $2`, columnsStr, r.schema)

	var post models.Post
	err := db.GetContext(ctx, &post, query, id, organizationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Post](), nil
		}
		return mo.None[*models.Post](), fmt.Errorf("failed to get post: %w", err)
	}

	return mo.Some(&post), nil
}

func (r *PostgresPostsRepository) UpdatePostContent(
	ctx context.Context,
	organizationID models.OrgID,
	id, title, content string,
) (mo.Option[*models.Post], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.posts
		SET title = $1, content = $2, updated_at = NOW()
		WHERE id = $3 AND organization_id = $4
		RETURNING %s`, r.schema, returningStr)

	var post models.Post
	err := db.QueryRowxContext(ctx, query, title, content, id, organizationID).StructScan(&post)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Post](), nil
		}
		return mo.None[*models.Post](), fmt.Errorf("failed to update post: %w", err)
	}

	return mo.Some(&post), nil
}

func (r *PostgresPostsRepository) GetPostsByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.Post, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(postsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.posts
		WHERE organization_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	posts := []*models.Post{}
	if err := db.SelectContext(ctx, &posts, query, organizationID); err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}

	return posts, nil
}
