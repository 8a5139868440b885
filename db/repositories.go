package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	dbtx "github.com/taqh/notra-sub001/db/tx"
	"github.com/taqh/notra-sub001/models"
)

type PostgresRepositoriesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for repositories table
var repositoriesColumns = []string{
	"id",
	"integration_id",
	"organization_id",
	"owner",
	"name",
	"default_branch",
	"enabled",
	"created_at",
	"updated_at",
}

func NewPostgresRepositoriesRepository(db *sqlx.DB, schema string) *PostgresRepositoriesRepository {
	return &PostgresRepositoriesRepository{db: db, schema: schema}
}

func (r *PostgresRepositoriesRepository) CreateRepository(
	ctx context.Context,
	repository *models.Repository,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.repositories (
			id, integration_id, organization_id, owner, name, default_branch, enabled, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		repository.ID,
		repository.IntegrationID,
		repository.OrgID,
		repository.Owner,
		repository.Name,
		repository.DefaultBranch,
		repository.Enabled,
	).StructScan(repository)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}

	return nil
}

func (r *PostgresRepositoriesRepository) GetRepositoryByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Repository], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE id = $1 AND organization_id = $2`, columnsStr, r.schema)

	var repository models.Repository
	err := db.GetContext(ctx, &repository, query, id, organizationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to get repository: %w", err)
	}

	return mo.Some(&repository), nil
}

func (r *PostgresRepositoriesRepository) GetRepositoriesByIntegrationID(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID string,
) ([]*models.Repository, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE integration_id = $1 AND organization_id = $2
		ORDER BY owner ASC, name ASC`, columnsStr, r.schema)

	repositories := []*models.Repository{}
	if err := db.SelectContext(ctx, &repositories, query, integrationID, organizationID); err != nil {
		return nil, fmt.Errorf("failed to get repositories: %w", err)
	}

	return repositories, nil
}

func (r *PostgresRepositoriesRepository) GetRepositoriesByIDs(
	ctx context.Context,
	organizationID models.OrgID,
	ids []string,
) ([]*models.Repository, error) {
	if len(ids) == 0 {
		return []*models.Repository{}, nil
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.repositories
		WHERE organization_id = $1 AND id = ANY($2)
		ORDER BY owner ASC, name ASC`, columnsStr, r.schema)

	repositories := []*models.Repository{}
	if err := db.SelectContext(ctx, &repositories, query, organizationID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get repositories: %w", err)
	}

	return repositories, nil
}

func (r *PostgresRepositoriesRepository) UpdateDefaultBranch(
	ctx context.Context,
	organizationID models.OrgID,
	id, branch string,
) (mo.Option[*models.Repository], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(repositoriesColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.repositories
		SET default_branch = $1, updated_at = NOW()
		WHERE id = $2 AND organization_id = $3
		RETURNING %s`, r.schema, returningStr)

	var repository models.Repository
	err := db.QueryRowxContext(ctx, query, branch, id, organizationID).StructScan(&repository)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Repository](), nil
		}
		return mo.None[*models.Repository](), fmt.Errorf("failed to update default branch: %w", err)
	}

	return mo.Some(&repository), nil
}
