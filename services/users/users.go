package users

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services"
)

// ErrNotOwner is returned when the caller is not the owner of an organization
// they are trying to transfer or delete.
var ErrNotOwner = errors.New("caller is not the organization owner")

// ErrNoTransferTarget is returned when an ownership transfer is requested but
// the organization has no other member to receive it.
var ErrNoTransferTarget = errors.New("organization has no member to transfer ownership to")

type UsersService struct {
	usersRepo     *db.PostgresUsersRepository
	orgsRepo      *db.PostgresOrganizationsRepository
	txManager     services.TransactionManager
	storageClient clients.StorageClient
}

func NewUsersService(
	usersRepo *db.PostgresUsersRepository,
	orgsRepo *db.PostgresOrganizationsRepository,
	txManager services.TransactionManager,
	storageClient clients.StorageClient,
) *UsersService {
	return &UsersService{
		usersRepo:     usersRepo,
		orgsRepo:      orgsRepo,
		txManager:     txManager,
		storageClient: storageClient,
	}
}

// GetOrCreateUser looks up a user by auth provider identity, creating the
// user together with a personal organization on first login.
func (s *UsersService) GetOrCreateUser(
	ctx context.Context,
	authProvider, authProviderID, email string,
) (*models.User, error) {
	log.Printf("📋 Starting to get or create user: %s/%s", authProvider, authProviderID)

	if authProvider == "" || authProviderID == "" {
		return nil, fmt.Errorf("auth provider and auth provider ID cannot be empty")
	}

	maybeUser, err := s.usersRepo.GetUserByAuthProvider(ctx, authProvider, authProviderID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user, exists := maybeUser.Get(); exists {
		log.Printf("📋 Completed successfully - found existing user: %s", user.ID)
		return user, nil
	}

	var user *models.User
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// Re-check under lock so two concurrent first logins create one row
		maybeUser, err := s.usersRepo.GetUserByAuthProvider(txCtx, authProvider, authProviderID, true)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if existing, exists := maybeUser.Get(); exists {
			user = existing
			return nil
		}

		user = &models.User{
			ID:             core.NewID("u"),
			AuthProvider:   authProvider,
			AuthProviderID: authProviderID,
			Email:          email,
		}
		if err := s.usersRepo.CreateUser(txCtx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		org := &models.Organization{
			ID:   models.OrgID(core.NewID("org")),
			Name: "Personal",
			Plan: models.PlanTierFree,
		}
		if err := s.orgsRepo.CreateOrganization(txCtx, org); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}

		membership := &models.OrganizationMembership{
			ID:     core.NewID("om"),
			OrgID:  org.ID,
			UserID: user.ID,
			Role:   models.MembershipRoleOwner,
		}
		if err := s.orgsRepo.CreateMembership(txCtx, membership); err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - created user: %s", user.ID)
	return user, nil
}

// DeleteUserWithTransfers removes a user account. Each owned organization is
// either transferred to its oldest other member or deleted, per the transfer
// list; each entry is applied atomically. Storage cleanup happens after the
// final commit and is best-effort.
func (s *UsersService) DeleteUserWithTransfers(
	ctx context.Context,
	user *models.User,
	transfers []models.OrgTransfer,
) error {
	log.Printf("📋 Starting to delete user %s with %d org transfers", user.ID, len(transfers))

	deletedOrgIDs := []models.OrgID{}

	for _, transfer := range transfers {
		transfer := transfer
		err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			maybeMembership, err := s.orgsRepo.GetMembership(txCtx, transfer.OrgID, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get membership: %w", err)
			}
			membership, exists := maybeMembership.Get()
			if !exists || membership.Role != models.MembershipRoleOwner {
				return fmt.Errorf("org %s: %w", transfer.OrgID, ErrNotOwner)
			}

			switch transfer.Action {
			case models.OrgTransferActionTransfer:
				memberships, err := s.orgsRepo.GetMembershipsByOrganizationID(txCtx, transfer.OrgID)
				if err != nil {
					return fmt.Errorf("failed to list memberships: %w", err)
				}

				var target *models.OrganizationMembership
				for _, m := range memberships {
					if m.UserID != user.ID {
						target = m
						break
					}
				}
				if target == nil {
					return fmt.Errorf("org %s: %w", transfer.OrgID, ErrNoTransferTarget)
				}

				if err := s.orgsRepo.UpdateMembershipRole(
					txCtx, transfer.OrgID, target.UserID, models.MembershipRoleOwner,
				); err != nil {
					return fmt.Errorf("failed to promote new owner: %w", err)
				}
				if err := s.orgsRepo.DeleteMembership(txCtx, transfer.OrgID, user.ID); err != nil {
					return fmt.Errorf("failed to remove caller membership: %w", err)
				}

			case models.OrgTransferActionDelete:
				if err := s.orgsRepo.DeleteOrganization(txCtx, transfer.OrgID); err != nil {
					return fmt.Errorf("failed to delete organization: %w", err)
				}
				deletedOrgIDs = append(deletedOrgIDs, transfer.OrgID)

			default:
				return fmt.Errorf("unknown transfer action: %s", transfer.Action)
			}

			return nil
		})
		if err != nil {
			return err
		}
	}

	if err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.usersRepo.DeleteUser(txCtx, user.ID)
	}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	// Compensating cleanup of storage objects; failures never abort account
	// deletion. Upload keys carry a random ULID suffix, so cleanup goes by
	// owner prefix.
	if s.storageClient != nil {
		if err := s.storageClient.DeleteObjectsWithPrefix(ctx, fmt.Sprintf("avatar/%s/", user.ID)); err != nil {
			log.Printf("⚠️ Failed to delete avatar objects for user %s: %v", user.ID, err)
		}
		for _, orgID := range deletedOrgIDs {
			if err := s.storageClient.DeleteObjectsWithPrefix(ctx, fmt.Sprintf("logo/%s/", orgID)); err != nil {
				log.Printf("⚠️ Failed to delete logo objects for org %s: %v", orgID, err)
			}
		}
	}

	log.Printf("📋 Completed successfully - deleted user: %s", user.ID)
	return nil
}
