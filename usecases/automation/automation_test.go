package automation

import (
	"context"
	"testing"

	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	qstashclient "github.com/taqh/notra-sub001/clients/qstash"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/models"
	generationsvc "github.com/taqh/notra-sub001/services/generation"
	integrationssvc "github.com/taqh/notra-sub001/services/integrations"
	notificationssvc "github.com/taqh/notra-sub001/services/notifications"
	organizationssvc "github.com/taqh/notra-sub001/services/organizations"
	triggerssvc "github.com/taqh/notra-sub001/services/triggers"
	webhooklogssvc "github.com/taqh/notra-sub001/services/webhooklogs"
)

type automationMocks struct {
	triggers      *triggerssvc.MockTriggersService
	integrations  *integrationssvc.MockIntegrationsService
	generation    *generationsvc.MockGenerationService
	webhookLogs   *webhooklogssvc.MockWebhookLogsService
	notifications *notificationssvc.MockNotificationsService
	organizations *organizationssvc.MockOrganizationsService
	scheduler     *qstashclient.MockSchedulerClient
}

func newTestUseCase() (*AutomationUseCase, *automationMocks) {
	mocks := &automationMocks{
		triggers:      new(triggerssvc.MockTriggersService),
		integrations:  new(integrationssvc.MockIntegrationsService),
		generation:    new(generationsvc.MockGenerationService),
		webhookLogs:   new(webhooklogssvc.MockWebhookLogsService),
		notifications: new(notificationssvc.MockNotificationsService),
		organizations: new(organizationssvc.MockOrganizationsService),
		scheduler:     new(qstashclient.MockSchedulerClient),
	}
	uc := NewAutomationUseCase(
		mocks.triggers,
		mocks.integrations,
		mocks.generation,
		mocks.webhookLogs,
		mocks.notifications,
		mocks.organizations,
		mocks.scheduler,
		"https://api.notra.dev/api/automation/execute",
	)
	return uc, mocks
}

func enabledCronTrigger(orgID models.OrgID, repoIDs ...string) *models.Trigger {
	cron := "0 9 * * 1"
	scheduleID := "sched_123"
	return &models.Trigger{
		ID:                  core.NewID("tr"),
		OrgID:               orgID,
		Name:                "Weekly changelog",
		SourceType:          models.TriggerSourceTypeCron,
		CronExpression:      &cron,
		TargetRepositoryIDs: repoIDs,
		OutputType:          models.OutputTypeChangelog,
		Tone:                "professional",
		LookbackDays:        7,
		Enabled:             true,
		ScheduleID:          &scheduleID,
	}
}

func TestRunTriggerNow(t *testing.T) {
	org := &models.Organization{ID: models.OrgID(core.NewID("org")), Name: "Acme"}

	t.Run("enqueues the run and records it", func(t *testing.T) {
		uc, mocks := newTestUseCase()
		trigger := enabledCronTrigger(org.ID, core.NewID("rp"))

		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)
		mocks.scheduler.On("PublishRunNow", mock.Anything, trigger.ID,
			"https://api.notra.dev/api/automation/execute?orgId="+string(org.ID), true).
			Return("msg_abc", nil)
		mocks.webhookLogs.On("AppendEntry", mock.Anything, org, mock.MatchedBy(func(entry *models.WebhookLogEntry) bool {
			return entry.Status == models.WebhookLogStatusSuccess &&
				entry.StatusCode == 200 &&
				entry.ReferenceID == "msg_abc"
		})).Return(nil)

		entry, err := uc.RunTriggerNow(context.Background(), org, trigger.ID)

		require.NoError(t, err)
		assert.Equal(t, "msg_abc", entry.ReferenceID)
		mocks.scheduler.AssertExpectations(t)
		mocks.webhookLogs.AssertExpectations(t)
	})

	t.Run("disabled trigger is rejected before reaching the scheduler", func(t *testing.T) {
		uc, mocks := newTestUseCase()
		trigger := enabledCronTrigger(org.ID, core.NewID("rp"))
		trigger.Enabled = false

		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)

		_, err := uc.RunTriggerNow(context.Background(), org, trigger.ID)

		require.ErrorIs(t, err, ErrTriggerDisabled)
		mocks.scheduler.AssertNotCalled(t, "PublishRunNow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown trigger maps to not found", func(t *testing.T) {
		uc, mocks := newTestUseCase()

		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, "tr_missing").
			Return(mo.None[*models.Trigger](), nil)

		_, err := uc.RunTriggerNow(context.Background(), org, "tr_missing")

		require.ErrorIs(t, err, core.ErrNotFound)
		mocks.scheduler.AssertNotCalled(t, "PublishRunNow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExecuteTrigger(t *testing.T) {
	org := &models.Organization{ID: models.OrgID(core.NewID("org")), Name: "Acme"}

	t.Run("disabled trigger is skipped without generating", func(t *testing.T) {
		uc, mocks := newTestUseCase()
		trigger := enabledCronTrigger(org.ID, core.NewID("rp"))
		trigger.Enabled = false

		mocks.organizations.On("GetOrganizationByID", mock.Anything, org.ID).
			Return(mo.Some(org), nil)
		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)

		_, err := uc.ExecuteTrigger(context.Background(), org.ID, trigger.ID, false)

		require.ErrorIs(t, err, ErrTriggerDisabled)
		mocks.generation.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		mocks.notifications.AssertNotCalled(t, "NotifyRunOutcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("successful run is recorded and notified", func(t *testing.T) {
		uc, mocks := newTestUseCase()

		integration := &models.Integration{ID: core.NewID("oi"), OrgID: org.ID, Enabled: true}
		repo := &models.Repository{ID: core.NewID("rp"), IntegrationID: integration.ID, OrgID: org.ID, Owner: "acme", Name: "platform"}
		trigger := enabledCronTrigger(org.ID, repo.ID)

		mocks.organizations.On("GetOrganizationByID", mock.Anything, org.ID).
			Return(mo.Some(org), nil)
		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)
		mocks.integrations.On("GetRepositoriesByIDs", mock.Anything, org.ID, []string{repo.ID}).
			Return([]*models.Repository{repo}, nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, org.ID, integration.ID).
			Return(mo.Some(integration), nil)

		result := &models.GenerationResult{
			Status: models.GenerationStatusCompleted,
			PostID: core.NewID("ps"),
			Title:  "This Week at Acme",
			Cost:   decimal.RequireFromString("0.018"),
		}
		mocks.generation.On("Generate", mock.Anything, mock.MatchedBy(func(req *models.GenerationRequest) bool {
			return req.TriggerID == trigger.ID &&
				req.OutputType == models.OutputTypeChangelog &&
				len(req.Repositories) == 1 &&
				len(req.Integrations) == 1
		})).Return(result, nil)
		mocks.webhookLogs.On("AppendEntry", mock.Anything, org, mock.MatchedBy(func(entry *models.WebhookLogEntry) bool {
			return entry.Status == models.WebhookLogStatusSuccess &&
				entry.StatusCode == 200 &&
				entry.ReferenceID == result.PostID &&
				entry.IntegrationID == integration.ID
		})).Return(nil)
		mocks.notifications.On("NotifyRunOutcome", mock.Anything, org, trigger, result).Return()

		got, err := uc.ExecuteTrigger(context.Background(), org.ID, trigger.ID, false)

		require.NoError(t, err)
		assert.Equal(t, result, got)
		mocks.webhookLogs.AssertExpectations(t)
		mocks.notifications.AssertExpectations(t)
	})

	t.Run("failed run is logged as failed and still notified", func(t *testing.T) {
		uc, mocks := newTestUseCase()

		integration := &models.Integration{ID: core.NewID("oi"), OrgID: org.ID, Enabled: true}
		repo := &models.Repository{ID: core.NewID("rp"), IntegrationID: integration.ID, OrgID: org.ID, Owner: "acme", Name: "platform"}
		trigger := enabledCronTrigger(org.ID, repo.ID)

		mocks.organizations.On("GetOrganizationByID", mock.Anything, org.ID).
			Return(mo.Some(org), nil)
		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)
		mocks.integrations.On("GetRepositoriesByIDs", mock.Anything, org.ID, []string{repo.ID}).
			Return([]*models.Repository{repo}, nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, org.ID, integration.ID).
			Return(mo.Some(integration), nil)

		result := &models.GenerationResult{
			Status: models.GenerationStatusFailed,
			Reason: "NoContentCreated",
			Cost:   decimal.Zero,
		}
		mocks.generation.On("Generate", mock.Anything, mock.Anything).Return(result, nil)
		mocks.webhookLogs.On("AppendEntry", mock.Anything, org, mock.MatchedBy(func(entry *models.WebhookLogEntry) bool {
			return entry.Status == models.WebhookLogStatusFailed && entry.StatusCode == 500
		})).Return(nil)
		mocks.notifications.On("NotifyRunOutcome", mock.Anything, org, trigger, result).Return()

		got, err := uc.ExecuteTrigger(context.Background(), org.ID, trigger.ID, false)

		require.NoError(t, err)
		assert.Equal(t, models.GenerationStatusFailed, got.Status)
		mocks.webhookLogs.AssertExpectations(t)
		mocks.notifications.AssertExpectations(t)
	})

	t.Run("run over several integrations is logged org-wide only", func(t *testing.T) {
		uc, mocks := newTestUseCase()

		first := &models.Integration{ID: core.NewID("oi"), OrgID: org.ID, Enabled: true}
		second := &models.Integration{ID: core.NewID("oi"), OrgID: org.ID, Enabled: true}
		repoA := &models.Repository{ID: core.NewID("rp"), IntegrationID: first.ID, OrgID: org.ID, Owner: "acme", Name: "platform"}
		repoB := &models.Repository{ID: core.NewID("rp"), IntegrationID: second.ID, OrgID: org.ID, Owner: "acme", Name: "mobile"}
		trigger := enabledCronTrigger(org.ID, repoA.ID, repoB.ID)

		mocks.organizations.On("GetOrganizationByID", mock.Anything, org.ID).
			Return(mo.Some(org), nil)
		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)
		mocks.integrations.On("GetRepositoriesByIDs", mock.Anything, org.ID, []string{repoA.ID, repoB.ID}).
			Return([]*models.Repository{repoA, repoB}, nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, org.ID, first.ID).
			Return(mo.Some(first), nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, org.ID, second.ID).
			Return(mo.Some(second), nil)

		result := &models.GenerationResult{Status: models.GenerationStatusCompleted, PostID: core.NewID("ps"), Title: "x"}
		mocks.generation.On("Generate", mock.Anything, mock.Anything).Return(result, nil)
		mocks.webhookLogs.On("AppendEntry", mock.Anything, org, mock.MatchedBy(func(entry *models.WebhookLogEntry) bool {
			return entry.IntegrationID == ""
		})).Return(nil)
		mocks.notifications.On("NotifyRunOutcome", mock.Anything, org, trigger, result).Return()

		_, err := uc.ExecuteTrigger(context.Background(), org.ID, trigger.ID, false)

		require.NoError(t, err)
		mocks.webhookLogs.AssertExpectations(t)
	})

	t.Run("repositories of disabled integrations are excluded", func(t *testing.T) {
		uc, mocks := newTestUseCase()

		enabled := &models.Integration{ID: core.NewID("oi"), OrgID: org.ID, Enabled: true}
		disabled := &models.Integration{ID: core.NewID("oi"), OrgID: org.ID, Enabled: false}
		repoA := &models.Repository{ID: core.NewID("rp"), IntegrationID: enabled.ID, OrgID: org.ID, Owner: "acme", Name: "platform"}
		repoB := &models.Repository{ID: core.NewID("rp"), IntegrationID: disabled.ID, OrgID: org.ID, Owner: "acme", Name: "legacy"}
		trigger := enabledCronTrigger(org.ID, repoA.ID, repoB.ID)

		mocks.organizations.On("GetOrganizationByID", mock.Anything, org.ID).
			Return(mo.Some(org), nil)
		mocks.triggers.On("GetTriggerByID", mock.Anything, org.ID, trigger.ID).
			Return(mo.Some(trigger), nil)
		mocks.integrations.On("GetRepositoriesByIDs", mock.Anything, org.ID, []string{repoA.ID, repoB.ID}).
			Return([]*models.Repository{repoA, repoB}, nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, org.ID, enabled.ID).
			Return(mo.Some(enabled), nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, org.ID, disabled.ID).
			Return(mo.Some(disabled), nil)

		result := &models.GenerationResult{Status: models.GenerationStatusCompleted, PostID: core.NewID("ps"), Title: "x"}
		mocks.generation.On("Generate", mock.Anything, mock.MatchedBy(func(req *models.GenerationRequest) bool {
			return len(req.Repositories) == 1 &&
				req.Repositories[0].ID == repoA.ID &&
				len(req.Integrations) == 1
		})).Return(result, nil)
		mocks.webhookLogs.On("AppendEntry", mock.Anything, org, mock.Anything).Return(nil)
		mocks.notifications.On("NotifyRunOutcome", mock.Anything, org, trigger, result).Return()

		_, err := uc.ExecuteTrigger(context.Background(), org.ID, trigger.ID, true)

		require.NoError(t, err)
		mocks.generation.AssertExpectations(t)
	})
}
