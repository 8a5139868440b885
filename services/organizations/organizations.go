package organizations

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
)

type OrganizationsService struct {
	orgsRepo *db.PostgresOrganizationsRepository
}

func NewOrganizationsService(orgsRepo *db.PostgresOrganizationsRepository) *OrganizationsService {
	return &OrganizationsService{orgsRepo: orgsRepo}
}

func (s *OrganizationsService) CreateOrganization(
	ctx context.Context,
	name string,
	owner *models.User,
) (*models.Organization, error) {
	log.Printf("📋 Starting to create organization %q for user: %s", name, owner.ID)

	if name == "" {
		return nil, fmt.Errorf("organization name cannot be empty")
	}

	org := &models.Organization{
		ID:   models.OrgID(core.NewID("org")),
		Name: name,
		Plan: models.PlanTierFree,
	}
	if err := s.orgsRepo.CreateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	membership := &models.OrganizationMembership{
		ID:     core.NewID("om"),
		OrgID:  org.ID,
		UserID: owner.ID,
		Role:   models.MembershipRoleOwner,
	}
	if err := s.orgsRepo.CreateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	log.Printf("📋 Completed successfully - created organization: %s", org.ID)
	return org, nil
}

func (s *OrganizationsService) GetOrganizationByID(
	ctx context.Context,
	id models.OrgID,
) (mo.Option[*models.Organization], error) {
	if id == "" {
		return mo.None[*models.Organization](), fmt.Errorf("organization ID cannot be empty")
	}
	return s.orgsRepo.GetOrganizationByID(ctx, id)
}

func (s *OrganizationsService) GetMembership(
	ctx context.Context,
	organizationID models.OrgID,
	userID string,
) (mo.Option[*models.OrganizationMembership], error) {
	if organizationID == "" {
		return mo.None[*models.OrganizationMembership](), fmt.Errorf("organization ID cannot be empty")
	}
	if userID == "" {
		return mo.None[*models.OrganizationMembership](), fmt.Errorf("user ID cannot be empty")
	}
	return s.orgsRepo.GetMembership(ctx, organizationID, userID)
}

func (s *OrganizationsService) GetMembershipsByOrganizationID(
	ctx context.Context,
	organizationID models.OrgID,
) ([]*models.OrganizationMembership, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}
	return s.orgsRepo.GetMembershipsByOrganizationID(ctx, organizationID)
}
