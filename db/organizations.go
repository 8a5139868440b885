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

type PostgresOrganizationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for organizations table
var organizationsColumns = []string{
	"id",
	"name",
	"plan",
	"created_at",
	"updated_at",
}

// Column names for organization_memberships table
var membershipsColumns = []string{
	"id",
	"organization_id",
	"user_id",
	"role",
	"created_at",
	"updated_at",
}

func NewPostgresOrganizationsRepository(db *sqlx.DB, schema string) *PostgresOrganizationsRepository {
	return &PostgresOrganizationsRepository{db: db, schema: schema}
}

func (r *PostgresOrganizationsRepository) CreateOrganization(
	ctx context.Context,
	org *models.Organization,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(organizationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.organizations (id, name, plan, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	if err := db.QueryRowxContext(ctx, query, org.ID, org.Name, org.Plan).StructScan(org); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

func (r *PostgresOrganizationsRepository) GetOrganizationByID(
	ctx context.Context,
	id models.OrgID,
) (mo.Option[*models.Organization], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(organizationsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organizations
		WHERE id = $1`, columnsStr, r.schema)

	var org models.Organization
	err := db.GetContext(ctx, &org, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.Organization](), nil
		}
		return mo.None[*models.Organization](), fmt.Errorf("failed to get organization: %w", err)
	}

	return mo.Some(&org), nil
}

func (r *PostgresOrganizationsRepository) DeleteOrganization(ctx context.Context, id models.OrgID) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.organizations WHERE id = $1`, r.schema)

	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("organization not found")
	}

	return nil
}

func (r *PostgresOrganizationsRepository) CreateMembership(
	ctx context.Context,
	membership *models.OrganizationMembership,
) error {
	db := dbtx.GetTransactional(ctx, r.db)
	returningStr := strings.Join(membershipsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.organization_memberships (id, organization_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING %s`, r.schema, returningStr)

	err := db.QueryRowxContext(ctx, query, membership.ID, membership.OrgID, membership.UserID, membership.Role).
		StructScan(membership)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	return nil
}

func (r *PostgresOrganizationsRepository) GetMembership(
	ctx context.Context,
	organizationID models.OrgID,
	userID string,
) (mo.Option[*models.OrganizationMembership], error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(membershipsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organization_memberships
		WHERE organization_id = $1 AND user_id = $2`, columnsStr, r.schema)

	var membership models.OrganizationMembership
	err := db.GetContext(ctx, &membership, query, organizationID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return mo.None[*models.OrganizationMembership](), nil
		}
		return mo.None[*models.OrganizationMembership](), fmt.Errorf("failed to get membership: %w", err)
	}

	return mo.Some(&membership), nil
}

func (r *PostgresOrganizationsRepository) GetMembershipsByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.OrganizationMembership, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(membershipsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organization_memberships
		WHERE organization_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	memberships := []*models.OrganizationMembership{}
	if err := db.SelectContext(ctx, &memberships, query, organizationID); err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	return memberships, nil
}

func (r *PostgresOrganizationsRepository) GetMembershipsByUserID(
	ctx context.Context,
	userID string,
) ([]*models.OrganizationMembership, error) {
	db := dbtx.GetTransactional(ctx, r.db)
	columnsStr := strings.Join(membershipsColumns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organization_memberships
		WHERE user_id = $1
		ORDER BY created_at ASC`, columnsStr, r.schema)

	memberships := []*models.OrganizationMembership{}
	if err := db.SelectContext(ctx, &memberships, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get memberships: %w", err)
	}

	return memberships, nil
}

func (r *PostgresOrganizationsRepository) UpdateMembershipRole(
	ctx context.Context,
	organizationID models.OrgID,
	userID string,
	role models.MembershipRole,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.organization_memberships
		SET role = $1, updated_at = NOW()
		WHERE organization_id = $2 AND user_id = $3`, r.schema)

	result, err := db.ExecContext(ctx, query, role, organizationID, userID)
	if err != nil {
		return fmt.Errorf("failed to update membership role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("membership not found")
	}

	return nil
}

func (r *PostgresOrganizationsRepository) DeleteMembership(
	ctx context.Context,
	organizationID models.OrgID,
	userID string,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		DELETE FROM %s.organization_memberships
		WHERE organization_id = $1 AND user_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, organizationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("membership not found")
	}

	return nil
}
