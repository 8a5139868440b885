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

type PostgresIntegrationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for integrations table
var integrationsColumns = []string{
	"id",
	"organization_id",
	"type",
	"encrypted_access_token",
	"display_name",
	"enabled",
	"created_by",
	"created_at",
	"updated_at",
}

func NewPostgresIntegrationsRepository(db *sqlx.DB, schema string) *PostgresIntegrationsRepository {
	return &PostgresIntegrationsRepository{db: db, schema: schema}
}

func (r *PostgresIntegrationsRepository) CreateIntegration(
	ctx context.Context,
	integration *models.Integration,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(integrationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.integrations (
			id, organization_id, type, encrypted_access_token, display_name, enabled, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		integration.ID,
		integration.OrgID,
		integration.Type,
		integration.EncryptedAccessToken,
		integration.DisplayName,
		integration.Enabled,
		integration.CreatedBy,
	).StructScan(integration)
	if err != nil {
		return fmt.Errorf("failed to create integration: %w", err)
	}

	return nil
}

func (r *PostgresIntegrationsRepository) GetIntegrationByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(integrationsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.integrations
		WHERE id = $1 AND organization_id = $2`, columnsStr, r.schema)

	var integration models.Integration
	err := db.GetContext(ctx, &integration, query, id, organizationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to get integration: %w", err)
	}

	return mo.Some(&integration), nil
}

func (r *PostgresIntegrationsRepository) GetIntegrationsByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.Integration, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(integrationsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.integrations
		WHERE organization_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	integrations := []*models.Integration{}
	if err := db.SelectContext(ctx, &integrations, query, organizationID); err != nil {
		return nil, fmt.Errorf("failed to get integrations: %w", err)
	}

	return integrations, nil
}

func (r *PostgresIntegrationsRepository) UpdateIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
	enabled *bool,
	displayName *string,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(integrationsColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.integrations
		SET enabled = COALESCE($1, enabled),
			display_name = COALESCE($2, display_name),
			updated_at = NOW()
		WHERE id = $3 AND organization_id = $4
		RETURNING %s`, r.schema, returningStr)

	var integration models.Integration
	err := db.QueryRowxContext(ctx, query, enabled, displayName, id, organizationID).StructScan(&integration)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to update integration: %w", err)
	}

	return mo.Some(&integration), nil
}

func (r *PostgresIntegrationsRepository) DeleteIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) error {
	if organizationID == "" {
		return fmt.Errorf("organization ID cannot be empty")
	}
	if id == "" {
		return fmt.Errorf("integration ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.integrations
		WHERE id = $1 AND organization_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("integration not found")
	}

	return nil
}
