package triggers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	qstashclient "github.com/taqh/notra-sub001/clients/qstash"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/testutils"
)

type triggersTestEnv struct {
	service          *TriggersService
	scheduler        *qstashclient.MockSchedulerClient
	org              *models.Organization
	integration      *models.Integration
	repository       *models.Repository
	integrationsRepo *db.PostgresIntegrationsRepository
	reposRepo        *db.PostgresRepositoriesRepository
}

func setupTriggersTest(t *testing.T) *triggersTestEnv {
	conn, schema := testutils.SetupTestDB(t)

	orgsRepo := db.NewPostgresOrganizationsRepository(conn, schema)
	integrationsRepo := db.NewPostgresIntegrationsRepository(conn, schema)
	reposRepo := db.NewPostgresRepositoriesRepository(conn, schema)
	triggersRepo := db.NewPostgresTriggersRepository(conn, schema)

	org := testutils.CreateTestOrganization(t, orgsRepo)
	integration := testutils.CreateTestIntegration(t, integrationsRepo, org.ID)
	repository := testutils.CreateTestRepository(t, reposRepo, org.ID, integration.ID, "acme", "platform")

	scheduler := new(qstashclient.MockSchedulerClient)
	service := NewTriggersService(triggersRepo, reposRepo, scheduler, "https://api.notra.dev/api/automation/execute")

	return &triggersTestEnv{
		service:          service,
		scheduler:        scheduler,
		org:              org,
		integration:      integration,
		repository:       repository,
		integrationsRepo: integrationsRepo,
		reposRepo:        reposRepo,
	}
}

func newCronTrigger(env *triggersTestEnv, enabled bool) *models.Trigger {
	cron := "0 9 * * 1"
	return &models.Trigger{
		OrgID:               env.org.ID,
		Name:                "Weekly changelog",
		SourceType:          models.TriggerSourceTypeCron,
		CronExpression:      &cron,
		TargetRepositoryIDs: []string{env.repository.ID},
		OutputType:          models.OutputTypeChangelog,
		Tone:                "professional",
		LookbackDays:        7,
		Enabled:             enabled,
	}
}

func TestCreateTrigger(t *testing.T) {
	t.Run("enabled cron trigger registers a schedule before the row lands", func(t *testing.T) {
		env := setupTriggersTest(t)

		env.scheduler.On("CreateSchedule", mock.Anything, mock.AnythingOfType("string"), "0 9 * * 1",
			"https://api.notra.dev/api/automation/execute?orgId="+string(env.org.ID)).
			Return("sched_1", nil)

		created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, true))

		require.NoError(t, err)
		assert.True(t, core.IsValidULID(created.ID))
		require.NotNil(t, created.ScheduleID)
		assert.Equal(t, "sched_1", *created.ScheduleID)
		env.scheduler.AssertExpectations(t)
	})

	t.Run("disabled cron trigger never touches the scheduler", func(t *testing.T) {
		env := setupTriggersTest(t)

		created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, false))

		require.NoError(t, err)
		assert.Nil(t, created.ScheduleID)
		env.scheduler.AssertNotCalled(t, "CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown tone is clamped to the default", func(t *testing.T) {
		env := setupTriggersTest(t)

		trigger := newCronTrigger(env, false)
		trigger.Tone = "sarcastic"

		created, err := env.service.CreateTrigger(context.Background(), trigger)

		require.NoError(t, err)
		assert.Equal(t, string(models.DefaultTone), created.Tone)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name        string
			mutate      func(env *triggersTestEnv, trigger *models.Trigger)
			expectedErr string
		}{
			{
				name: "cron trigger without expression",
				mutate: func(env *triggersTestEnv, trigger *models.Trigger) {
					trigger.CronExpression = nil
				},
				expectedErr: "cron triggers require a cron expression",
			},
			{
				name: "unsupported output type",
				mutate: func(env *triggersTestEnv, trigger *models.Trigger) {
					trigger.OutputType = models.OutputType("podcast_episode")
				},
				expectedErr: "unsupported output type",
			},
			{
				name: "non-positive lookback",
				mutate: func(env *triggersTestEnv, trigger *models.Trigger) {
					trigger.LookbackDays = 0
				},
				expectedErr: "lookback days must be positive",
			},
			{
				name: "no target repositories",
				mutate: func(env *triggersTestEnv, trigger *models.Trigger) {
					trigger.TargetRepositoryIDs = nil
				},
				expectedErr: "must target at least one repository",
			},
			{
				name: "foreign repository rejected",
				mutate: func(env *triggersTestEnv, trigger *models.Trigger) {
					trigger.TargetRepositoryIDs = []string{core.NewID("rp")}
				},
				expectedErr: "does not belong to the organization",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				env := setupTriggersTest(t)

				trigger := newCronTrigger(env, true)
				tt.mutate(env, trigger)

				_, err := env.service.CreateTrigger(context.Background(), trigger)

				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				env.scheduler.AssertNotCalled(t, "CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})
}

func TestSetTriggerEnabled(t *testing.T) {
	t.Run("disabling tears down the schedule handle", func(t *testing.T) {
		env := setupTriggersTest(t)

		env.scheduler.On("CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("sched_1", nil)
		created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, true))
		require.NoError(t, err)

		env.scheduler.On("DeleteSchedule", mock.Anything, "sched_1").Return(nil)

		updated, err := env.service.SetTriggerEnabled(context.Background(), env.org.ID, created.ID, false)

		require.NoError(t, err)
		assert.False(t, updated.Enabled)
		assert.Nil(t, updated.ScheduleID)
		env.scheduler.AssertExpectations(t)
	})

	t.Run("enabling registers a fresh schedule", func(t *testing.T) {
		env := setupTriggersTest(t)

		created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, false))
		require.NoError(t, err)

		env.scheduler.On("CreateSchedule", mock.Anything, created.ID, "0 9 * * 1", mock.Anything).
			Return("sched_2", nil)

		updated, err := env.service.SetTriggerEnabled(context.Background(), env.org.ID, created.ID, true)

		require.NoError(t, err)
		assert.True(t, updated.Enabled)
		require.NotNil(t, updated.ScheduleID)
		assert.Equal(t, "sched_2", *updated.ScheduleID)
	})

	t.Run("no-op flip returns the trigger unchanged", func(t *testing.T) {
		env := setupTriggersTest(t)

		created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, false))
		require.NoError(t, err)

		updated, err := env.service.SetTriggerEnabled(context.Background(), env.org.ID, created.ID, false)

		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		env.scheduler.AssertNotCalled(t, "CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDisableTriggersTargetingIntegration(t *testing.T) {
	t.Run("disables every dependent cron trigger", func(t *testing.T) {
		env := setupTriggersTest(t)

		env.scheduler.On("CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("sched_1", nil)
		first, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, true))
		require.NoError(t, err)
		second, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, true))
		require.NoError(t, err)

		env.scheduler.On("DeleteSchedule", mock.Anything, "sched_1").Return(nil)

		disabled, err := env.service.DisableTriggersTargetingIntegration(
			context.Background(), env.org.ID, env.integration.ID)

		require.NoError(t, err)
		assert.Equal(t, 2, disabled)

		for _, id := range []string{first.ID, second.ID} {
			maybeTrigger, err := env.service.GetTriggerByID(context.Background(), env.org.ID, id)
			require.NoError(t, err)
			trigger, exists := maybeTrigger.Get()
			require.True(t, exists)
			assert.False(t, trigger.Enabled)
			assert.Nil(t, trigger.ScheduleID)
		}
	})

	t.Run("remote schedule failure does not block the local disable", func(t *testing.T) {
		env := setupTriggersTest(t)

		env.scheduler.On("CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("sched_1", nil)
		created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, true))
		require.NoError(t, err)

		env.scheduler.On("DeleteSchedule", mock.Anything, "sched_1").
			Return(fmt.Errorf("qstash unavailable"))

		disabled, err := env.service.DisableTriggersTargetingIntegration(
			context.Background(), env.org.ID, env.integration.ID)

		require.NoError(t, err)
		assert.Equal(t, 1, disabled)

		maybeTrigger, err := env.service.GetTriggerByID(context.Background(), env.org.ID, created.ID)
		require.NoError(t, err)
		trigger, exists := maybeTrigger.Get()
		require.True(t, exists)
		assert.False(t, trigger.Enabled)
	})

	t.Run("already disabled triggers are not counted", func(t *testing.T) {
		env := setupTriggersTest(t)

		_, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, false))
		require.NoError(t, err)

		disabled, err := env.service.DisableTriggersTargetingIntegration(
			context.Background(), env.org.ID, env.integration.ID)

		require.NoError(t, err)
		assert.Equal(t, 0, disabled)
	})
}

func TestDeleteTrigger(t *testing.T) {
	env := setupTriggersTest(t)

	env.scheduler.On("CreateSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("sched_1", nil)
	created, err := env.service.CreateTrigger(context.Background(), newCronTrigger(env, true))
	require.NoError(t, err)

	env.scheduler.On("DeleteSchedule", mock.Anything, "sched_1").Return(nil)

	err = env.service.DeleteTrigger(context.Background(), env.org.ID, created.ID)
	require.NoError(t, err)

	maybeTrigger, err := env.service.GetTriggerByID(context.Background(), env.org.ID, created.ID)
	require.NoError(t, err)
	_, exists := maybeTrigger.Get()
	assert.False(t, exists)
	env.scheduler.AssertExpectations(t)
}
