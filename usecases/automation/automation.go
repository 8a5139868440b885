package automation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services"
)

// ErrTriggerDisabled is returned when a run is requested for a trigger that
// is not enabled. A disabled trigger never reaches generation.
var ErrTriggerDisabled = errors.New("trigger is disabled")

type AutomationUseCase struct {
	triggersService      services.TriggersService
	integrationsService  services.IntegrationsService
	generationService    services.GenerationService
	webhookLogsService   services.WebhookLogsService
	notificationsService services.NotificationsService
	organizationsService services.OrganizationsService
	schedulerClient      clients.SchedulerClient
	destinationURL       string
}

func NewAutomationUseCase(
	triggersService services.TriggersService,
	integrationsService services.IntegrationsService,
	generationService services.GenerationService,
	webhookLogsService services.WebhookLogsService,
	notificationsService services.NotificationsService,
	organizationsService services.OrganizationsService,
	schedulerClient clients.SchedulerClient,
	destinationURL string,
) *AutomationUseCase {
	return &AutomationUseCase{
		triggersService:      triggersService,
		integrationsService:  integrationsService,
		generationService:    generationService,
		webhookLogsService:   webhookLogsService,
		notificationsService: notificationsService,
		organizationsService: organizationsService,
		schedulerClient:      schedulerClient,
		destinationURL:       destinationURL,
	}
}

// RunTriggerNow enqueues an immediate run of an enabled trigger through the
// external scheduler and records the enqueue in the run log.
func (uc *AutomationUseCase) RunTriggerNow(
	ctx context.Context,
	org *models.Organization,
	triggerID string,
) (*models.WebhookLogEntry, error) {
	log.Printf("📋 Starting manual run for trigger: %s in org: %s", triggerID, org.ID)

	maybeTrigger, err := uc.triggersService.GetTriggerByID(ctx, org.ID, triggerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trigger: %w", err)
	}
	trigger, exists := maybeTrigger.Get()
	if !exists {
		return nil, fmt.Errorf("trigger not found: %w", core.ErrNotFound)
	}
	if !trigger.Enabled {
		return nil, ErrTriggerDisabled
	}

	callbackURL := fmt.Sprintf("%s?orgId=%s", uc.destinationURL, org.ID)
	messageID, err := uc.schedulerClient.PublishRunNow(ctx, trigger.ID, callbackURL, true)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue run: %w", err)
	}

	entry := &models.WebhookLogEntry{
		IntegrationType: models.IntegrationTypeGitHub,
		Title:           fmt.Sprintf("Manual run enqueued: %s", trigger.Name),
		Status:          models.WebhookLogStatusSuccess,
		StatusCode:      200,
		ReferenceID:     messageID,
	}
	if err := uc.webhookLogsService.AppendEntry(ctx, org, entry); err != nil {
		log.Printf("⚠️ Failed to record manual run for trigger %s: %v", trigger.ID, err)
	}

	log.Printf("📋 Completed successfully - enqueued run %s for trigger: %s", messageID, trigger.ID)
	return entry, nil
}

// ExecuteTrigger is the scheduler-invoked pipeline: load the trigger, skip it
// if disabled, run generation over its allow-listed repositories, record the
// outcome, and notify. Domain failures are recorded, not returned.
func (uc *AutomationUseCase) ExecuteTrigger(
	ctx context.Context,
	organizationID models.OrgID,
	triggerID string,
	manual bool,
) (*models.GenerationResult, error) {
	log.Printf("📋 Starting execution of trigger: %s in org: %s", triggerID, organizationID)

	maybeOrg, err := uc.organizationsService.GetOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	org, exists := maybeOrg.Get()
	if !exists {
		return nil, fmt.Errorf("organization not found: %w", core.ErrNotFound)
	}

	maybeTrigger, err := uc.triggersService.GetTriggerByID(ctx, organizationID, triggerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trigger: %w", err)
	}
	trigger, exists := maybeTrigger.Get()
	if !exists {
		return nil, fmt.Errorf("trigger not found: %w", core.ErrNotFound)
	}

	if !trigger.Enabled {
		log.Printf("⚠️ Skipping execution of disabled trigger: %s", trigger.ID)
		return nil, ErrTriggerDisabled
	}

	repositories, integrations, err := uc.resolveTargets(ctx, trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trigger targets: %w", err)
	}

	result, err := uc.generationService.Generate(ctx, &models.GenerationRequest{
		OrgID:         organizationID,
		TriggerID:     trigger.ID,
		OutputType:    trigger.OutputType,
		Tone:          trigger.Tone,
		LookbackDays:  trigger.LookbackDays,
		Integrations:  integrations,
		Repositories:  repositories,
		TriggerName:   trigger.Name,
		ManualRequest: manual,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run generation: %w", err)
	}

	uc.recordRunOutcome(ctx, org, trigger, integrations, result)
	uc.notificationsService.NotifyRunOutcome(ctx, org, trigger, result)

	log.Printf("📋 Completed execution of trigger: %s with status: %s", trigger.ID, result.Status)
	return result, nil
}

// resolveTargets loads the trigger's target repositories and their enabled
// integrations. Repositories whose integration is disabled are excluded.
func (uc *AutomationUseCase) resolveTargets(
	ctx context.Context,
	trigger *models.Trigger,
) ([]*models.Repository, []*models.Integration, error) {
	repos, err := uc.integrationsService.GetRepositoriesByIDs(ctx, trigger.OrgID, trigger.TargetRepositoryIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load repositories: %w", err)
	}

	integrationsByID := make(map[string]*models.Integration)
	repositories := make([]*models.Repository, 0, len(repos))
	integrations := make([]*models.Integration, 0, len(repos))

	for _, repo := range repos {
		integration, seen := integrationsByID[repo.IntegrationID]
		if !seen {
			maybeIntegration, err := uc.integrationsService.GetIntegrationByID(ctx, trigger.OrgID, repo.IntegrationID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load integration %s: %w", repo.IntegrationID, err)
			}
			loaded, exists := maybeIntegration.Get()
			if !exists {
				continue
			}
			integration = loaded
			integrationsByID[repo.IntegrationID] = integration
			if integration.Enabled {
				integrations = append(integrations, integration)
			}
		}
		if integration != nil && integration.Enabled {
			repositories = append(repositories, repo)
		}
	}

	return repositories, integrations, nil
}

func (uc *AutomationUseCase) recordRunOutcome(
	ctx context.Context,
	org *models.Organization,
	trigger *models.Trigger,
	integrations []*models.Integration,
	result *models.GenerationResult,
) {
	status := models.WebhookLogStatusFailed
	statusCode := 500
	title := fmt.Sprintf("Run failed: %s", trigger.Name)
	if result.Succeeded() {
		status = models.WebhookLogStatusSuccess
		statusCode = 200
		title = fmt.Sprintf("Content generated: %s", result.Title)
	}

	// A run over a single integration is filed under that integration's log;
	// runs spanning several integrations stay in the org-wide list only.
	integrationID := ""
	if len(integrations) == 1 {
		integrationID = integrations[0].ID
	}

	entry := &models.WebhookLogEntry{
		IntegrationType: models.IntegrationTypeGitHub,
		IntegrationID:   integrationID,
		Title:           title,
		Status:          status,
		StatusCode:      statusCode,
		ReferenceID:     result.PostID,
	}
	if err := uc.webhookLogsService.AppendEntry(ctx, org, entry); err != nil {
		log.Printf("⚠️ Failed to record run outcome for trigger %s: %v", trigger.ID, err)
	}
}
