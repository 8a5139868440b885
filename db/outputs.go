package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	dbtx "github.com/taqh/notra-sub001/db/tx"
	"github.com/taqh/notra-sub001/models"
)

type PostgresOutputsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for outputs table
var outputsColumns = []string{
	"id",
	"integration_id",
	"organization_id",
	"type",
	"enabled",
	"created_at",
	"updated_at",
}

func NewPostgresOutputsRepository(db *sqlx.DB, schema string) *PostgresOutputsRepository {
	return &PostgresOutputsRepository{db: db, schema: schema}
}

func (r *PostgresOutputsRepository) CreateOutput(ctx context.Context, output *models.Output) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(outputsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.outputs (id, integration_id, organization_id, type, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		output.ID,
		output.IntegrationID,
		output.OrgID,
		output.Type,
		output.Enabled,
	).StructScan(output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	return nil
}

func (r *PostgresOutputsRepository) GetOutputsByIntegrationID(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID string,
) ([]*models.Output, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(outputsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.outputs
		WHERE integration_id = $1 AND organization_id = $2
		ORDER BY type ASC`, columnsStr, r.schema)

	outputs := []*models.Output{}
	if err := db.SelectContext(ctx, &outputs, query, integrationID, organizationID); err != nil {
		return nil, fmt.Errorf("failed to get outputs: %w", err)
	}

	return outputs, nil
}

func (r *PostgresOutputsRepository) SetOutputEnabled(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID string,
	outputType models.OutputType,
	enabled bool,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.outputs
		SET enabled = $1, updated_at = NOW()
		WHERE integration_id = $2 AND organization_id = $3 AND type = $4`, r.schema)

	result, err := db.ExecContext(ctx, query, enabled, integrationID, organizationID, outputType)
	if err != nil {
		return fmt.Errorf("failed to update output: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("output not found")
	}

	return nil
}
