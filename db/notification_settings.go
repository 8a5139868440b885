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

	"github.com/taqh/notra-sub001/core"
	dbtx "github.com/taqh/notra-sub001/db/tx"
	"github.com/taqh/notra-sub001/models"
)

type PostgresNotificationSettingsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for notification_settings table
var notificationSettingsColumns = []string{
	"id",
	"organization_id",
	"email_on_success",
	"email_on_failure",
	"created_at",
	"updated_at",
}

func NewPostgresNotificationSettingsRepository(
	db *sqlx.DB,
	schema string,
) *PostgresNotificationSettingsRepository {
	return &PostgresNotificationSettingsRepository{db: db, schema: schema}
}

func (r *PostgresNotificationSettingsRepository) GetByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) (mo.Option[*models.NotificationSettings], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(notificationSettingsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.notification_settings
		WHERE organization_id = $1`, columnsStr, r.schema)

	var settings models.NotificationSettings
	err := db.GetContext(ctx, &settings, query, organizationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.NotificationSettings](), nil
		}
		return mo.None[*models.NotificationSettings](), fmt.Errorf("failed to get notification settings: %w", err)
	}

	return mo.Some(&settings), nil
}

func (r *PostgresNotificationSettingsRepository) Upsert(
	ctx context.Context,
	organizationID models.OrgID,
	emailOnSuccess, emailOnFailure bool,
) (*models.NotificationSettings, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	id := core.NewID("ns")
	returningStr := strings.Join(notificationSettingsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.notification_settings (
			id, organization_id, email_on_success, email_on_failure
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id)
		DO UPDATE SET
			email_on_success = EXCLUDED.email_on_success,
			email_on_failure = EXCLUDED.email_on_failure,
			updated_at = NOW()
		RETURNING %s
	`, r.schema, returningStr)

	var settings models.NotificationSettings
	err := db.QueryRowxContext(ctx, query, id, organizationID, emailOnSuccess, emailOnFailure).
		StructScan(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert notification settings: %w", err)
	}

	return &settings, nil
}
