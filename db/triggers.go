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

type PostgresTriggersRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for triggers table
var triggersColumns = []string{
	"id",
	"organization_id",
	"name",
	"source_type",
	"cron_expression",
	"event_types",
	"target_repository_ids",
	"output_type",
	"tone",
	"lookback_days",
	"enabled",
	"schedule_id",
	"created_at",
	"updated_at",
}

func NewPostgresTriggersRepository(db *sqlx.DB, schema string) *PostgresTriggersRepository {
	return &PostgresTriggersRepository{db: db, schema: schema}
}

func (r *PostgresTriggersRepository) CreateTrigger(ctx context.Context, trigger *models.Trigger) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.triggers (
			id, organization_id, name, source_type, cron_expression, event_types,
			target_repository_ids, output_type, tone, lookback_days, enabled, schedule_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		trigger.ID,
		trigger.OrgID,
		trigger.Name,
		trigger.SourceType,
		trigger.CronExpression,
		trigger.EventTypes,
		trigger.TargetRepositoryIDs,
		trigger.OutputType,
		trigger.Tone,
		trigger.LookbackDays,
		trigger.Enabled,
		trigger.ScheduleID,
	).StructScan(trigger)
	if err != nil {
		return fmt.Errorf("failed to create trigger: %w", err)
	}

	return nil
}

func (r *PostgresTriggersRepository) GetTriggerByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Trigger], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.triggers
		WHERE id = $1 AND organization_id = $2`, columnsStr, r.schema)

	var trigger models.Trigger
	err := db.GetContext(ctx, &trigger, query, id, organizationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Trigger](), nil
		}
		return mo.None[*models.Trigger](), fmt.Errorf("failed to get trigger: %w", err)
	}

	return mo.Some(&trigger), nil
}

func (r *PostgresTriggersRepository) GetTriggersByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.Trigger, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.triggers
		WHERE organization_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	triggers := []*models.Trigger{}
	if err := db.SelectContext(ctx, &triggers, query, organizationID); err != nil {
		return nil, fmt.Errorf("failed to get triggers: %w", err)
	}

	return triggers, nil
}

// GetCronTriggersTargetingRepositories returns cron triggers whose target
// list intersects the given repository IDs. Used by the integration
// cascade-delete path.
func (r *PostgresTriggersRepository) GetCronTriggersTargetingRepositories(
	ctx context.Context,
	organizationID models.OrgID,
	repositoryIDs []string,
) ([]*models.Trigger, error) {
	if len(repositoryIDs) == 0 {
		return []*models.Trigger{}, nil
	}

	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.triggers
		WHERE organization_id = $1
			AND source_type = $2
			AND target_repository_ids && $3
		ORDER BY created_at DESC`, columnsStr, r.schema)

	triggers := []*models.Trigger{}
	err := db.SelectContext(
		ctx,
		&triggers,
		query,
		organizationID,
		models.TriggerSourceTypeCron,
		pq.Array(repositoryIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get triggers targeting repositories: %w", err)
	}

	return triggers, nil
}

// SetTriggerEnabled flips the enabled flag and stores (or clears) the remote
// scheduler handle in the same statement, keeping the two in lockstep.
func (r *PostgresTriggersRepository) SetTriggerEnabled(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
	enabled bool,
	scheduleID *string,
) (mo.Option[*models.Trigger], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.triggers
		SET enabled = $1, schedule_id = $2, updated_at = NOW()
		WHERE id = $3 AND organization_id = $4
		RETURNING %s`, r.schema, returningStr)

	var trigger models.Trigger
	err := db.QueryRowxContext(ctx, query, enabled, scheduleID, id, organizationID).StructScan(&trigger)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Trigger](), nil
		}
		return mo.None[*models.Trigger](), fmt.Errorf("failed to update trigger: %w", err)
	}

	return mo.Some(&trigger), nil
}

func (r *PostgresTriggersRepository) UpdateTrigger(ctx context.Context, trigger *models.Trigger) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(triggersColumns, ", ")

	query := fmt.Sprintf(`
		UPDATE %s.triggers
		SET name = $1, cron_expression = $2, event_types = $3, target_repository_ids = $4,
			output_type = $5, tone = $6, lookback_days = $7, updated_at = NOW()
		WHERE id = $8 AND organization_id = $9
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		trigger.Name,
		trigger.CronExpression,
		trigger.EventTypes,
		trigger.TargetRepositoryIDs,
		trigger.OutputType,
		trigger.Tone,
		trigger.LookbackDays,
		trigger.ID,
		trigger.OrgID,
	).StructScan(trigger)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("trigger not found")
		}
		return fmt.Errorf("failed to update trigger: %w", err)
	}

	return nil
}

func (r *PostgresTriggersRepository) DeleteTrigger(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.triggers
		WHERE id = $1 AND organization_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trigger not found")
	}

	return nil
}
