package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	s3client "github.com/taqh/notra-sub001/clients/s3"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services/txmanager"
	"github.com/taqh/notra-sub001/testutils"
)

type usersTestEnv struct {
	service   *UsersService
	usersRepo *db.PostgresUsersRepository
	orgsRepo  *db.PostgresOrganizationsRepository
	storage   *s3client.MockStorageClient
}

func setupUsersTest(t *testing.T) *usersTestEnv {
	conn, schema := testutils.SetupTestDB(t)

	usersRepo := db.NewPostgresUsersRepository(conn, schema)
	orgsRepo := db.NewPostgresOrganizationsRepository(conn, schema)
	storage := new(s3client.MockStorageClient)
	service := NewUsersService(usersRepo, orgsRepo, txmanager.NewTransactionManager(conn), storage)

	return &usersTestEnv{
		service:   service,
		usersRepo: usersRepo,
		orgsRepo:  orgsRepo,
		storage:   storage,
	}
}

func createUser(t *testing.T, env *usersTestEnv) *models.User {
	user, err := env.service.GetOrCreateUser(
		context.Background(), "clerk", core.NewID("ext"), fmt.Sprintf("%s@example.com", core.NewID("m")))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = env.usersRepo.DeleteUser(context.Background(), user.ID)
	})
	return user
}

func ownedOrg(t *testing.T, env *usersTestEnv, user *models.User) *models.Organization {
	memberships, err := env.orgsRepo.GetMembershipsByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)

	maybeOrg, err := env.orgsRepo.GetOrganizationByID(context.Background(), memberships[0].OrgID)
	require.NoError(t, err)
	org, exists := maybeOrg.Get()
	require.True(t, exists)
	t.Cleanup(func() {
		_ = env.orgsRepo.DeleteOrganization(context.Background(), org.ID)
	})
	return org
}

func TestGetOrCreateUser(t *testing.T) {
	t.Run("first login creates a user with a personal organization", func(t *testing.T) {
		env := setupUsersTest(t)

		user := createUser(t, env)
		assert.True(t, core.IsValidULID(user.ID))

		org := ownedOrg(t, env, user)
		assert.Equal(t, "Personal", org.Name)
		assert.Equal(t, models.PlanTierFree, org.Plan)

		maybeMembership, err := env.orgsRepo.GetMembership(context.Background(), org.ID, user.ID)
		require.NoError(t, err)
		membership, exists := maybeMembership.Get()
		require.True(t, exists)
		assert.Equal(t, models.MembershipRoleOwner, membership.Role)
	})

	t.Run("second login returns the same user", func(t *testing.T) {
		env := setupUsersTest(t)

		providerID := core.NewID("ext")
		first, err := env.service.GetOrCreateUser(context.Background(), "clerk", providerID, "a@example.com")
		require.NoError(t, err)
		t.Cleanup(func() { _ = env.usersRepo.DeleteUser(context.Background(), first.ID) })

		second, err := env.service.GetOrCreateUser(context.Background(), "clerk", providerID, "a@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("empty identity is rejected", func(t *testing.T) {
		env := setupUsersTest(t)

		_, err := env.service.GetOrCreateUser(context.Background(), "", "", "x@example.com")
		require.Error(t, err)
	})
}

func TestDeleteUserWithTransfers(t *testing.T) {
	t.Run("transfer promotes the other member to owner", func(t *testing.T) {
		env := setupUsersTest(t)

		owner := createUser(t, env)
		org := ownedOrg(t, env, owner)
		member := createUser(t, env)
		require.NoError(t, env.orgsRepo.CreateMembership(context.Background(), &models.OrganizationMembership{
			ID:     core.NewID("om"),
			OrgID:  org.ID,
			UserID: member.ID,
			Role:   models.MembershipRoleMember,
		}))

		env.storage.On("DeleteObjectsWithPrefix", mock.Anything, "avatar/"+owner.ID+"/").Return(nil)

		err := env.service.DeleteUserWithTransfers(context.Background(), owner, []models.OrgTransfer{
			{OrgID: org.ID, Action: models.OrgTransferActionTransfer},
		})
		require.NoError(t, err)

		maybeMembership, err := env.orgsRepo.GetMembership(context.Background(), org.ID, member.ID)
		require.NoError(t, err)
		promoted, exists := maybeMembership.Get()
		require.True(t, exists)
		assert.Equal(t, models.MembershipRoleOwner, promoted.Role)

		maybeUser, err := env.usersRepo.GetUserByID(context.Background(), owner.ID)
		require.NoError(t, err)
		_, exists = maybeUser.Get()
		assert.False(t, exists)
	})

	t.Run("transfer without another member fails", func(t *testing.T) {
		env := setupUsersTest(t)

		owner := createUser(t, env)
		org := ownedOrg(t, env, owner)

		err := env.service.DeleteUserWithTransfers(context.Background(), owner, []models.OrgTransfer{
			{OrgID: org.ID, Action: models.OrgTransferActionTransfer},
		})
		require.ErrorIs(t, err, ErrNoTransferTarget)

		// Account survives a failed transfer
		maybeUser, err := env.usersRepo.GetUserByID(context.Background(), owner.ID)
		require.NoError(t, err)
		_, exists := maybeUser.Get()
		assert.True(t, exists)
	})

	t.Run("non-owner cannot transfer the organization", func(t *testing.T) {
		env := setupUsersTest(t)

		owner := createUser(t, env)
		org := ownedOrg(t, env, owner)
		member := createUser(t, env)
		require.NoError(t, env.orgsRepo.CreateMembership(context.Background(), &models.OrganizationMembership{
			ID:     core.NewID("om"),
			OrgID:  org.ID,
			UserID: member.ID,
			Role:   models.MembershipRoleMember,
		}))

		err := env.service.DeleteUserWithTransfers(context.Background(), member, []models.OrgTransfer{
			{OrgID: org.ID, Action: models.OrgTransferActionTransfer},
		})
		require.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("delete action removes the organization and its stored logo", func(t *testing.T) {
		env := setupUsersTest(t)

		owner := createUser(t, env)
		org := ownedOrg(t, env, owner)

		env.storage.On("DeleteObjectsWithPrefix", mock.Anything, "avatar/"+owner.ID+"/").Return(nil)
		env.storage.On("DeleteObjectsWithPrefix", mock.Anything, "logo/"+string(org.ID)+"/").
			Return(fmt.Errorf("bucket unavailable")) // best-effort only

		err := env.service.DeleteUserWithTransfers(context.Background(), owner, []models.OrgTransfer{
			{OrgID: org.ID, Action: models.OrgTransferActionDelete},
		})
		require.NoError(t, err)

		maybeOrg, err := env.orgsRepo.GetOrganizationByID(context.Background(), org.ID)
		require.NoError(t, err)
		_, exists := maybeOrg.Get()
		assert.False(t, exists)
		env.storage.AssertExpectations(t)
	})
}
