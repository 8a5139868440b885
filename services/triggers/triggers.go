package triggers

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
)

type TriggersService struct {
	triggersRepo    *db.PostgresTriggersRepository
	reposRepo       *db.PostgresRepositoriesRepository
	schedulerClient clients.SchedulerClient
	destinationURL  string
}

func NewTriggersService(
	triggersRepo *db.PostgresTriggersRepository,
	reposRepo *db.PostgresRepositoriesRepository,
	schedulerClient clients.SchedulerClient,
	destinationURL string,
) *TriggersService {
	return &TriggersService{
		triggersRepo:    triggersRepo,
		reposRepo:       reposRepo,
		schedulerClient: schedulerClient,
		destinationURL:  destinationURL,
	}
}

// callbackURL carries the organization on the destination so the execution
// endpoint can scope its lookups.
func (s *TriggersService) callbackURL(organizationID models.OrgID) string {
	return fmt.Sprintf("%s?orgId=%s", s.destinationURL, organizationID)
}

// CreateTrigger validates and persists a trigger. Enabled cron triggers get a
// remote schedule registered before the row is written, so a stored
// schedule_id always refers to a schedule that was created.
func (s *TriggersService) CreateTrigger(ctx context.Context, trigger *models.Trigger) (*models.Trigger, error) {
	log.Printf("📋 Starting to create trigger: %s for org: %s", trigger.Name, trigger.OrgID)

	if err := s.validateTrigger(ctx, trigger); err != nil {
		return nil, err
	}

	trigger.ID = core.NewID("tr")
	trigger.Tone = string(models.ResolveTone(trigger.Tone))
	trigger.ScheduleID = nil

	if trigger.Enabled && trigger.SourceType == models.TriggerSourceTypeCron {
		scheduleID, err := s.schedulerClient.CreateSchedule(ctx, trigger.ID, *trigger.CronExpression, s.callbackURL(trigger.OrgID))
		if err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}
		trigger.ScheduleID = &scheduleID
	}

	if err := s.triggersRepo.CreateTrigger(ctx, trigger); err != nil {
		// The row never landed; tear the orphaned schedule down.
		if trigger.HasScheduleHandle() {
			if delErr := s.schedulerClient.DeleteSchedule(ctx, *trigger.ScheduleID); delErr != nil {
				log.Printf("⚠️ Failed to clean up orphaned schedule %s: %v", *trigger.ScheduleID, delErr)
			}
		}
		return nil, fmt.Errorf("failed to create trigger: %w", err)
	}

	log.Printf("📋 Completed successfully - created trigger: %s", trigger.ID)
	return trigger, nil
}

func (s *TriggersService) GetTriggerByID(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
) (mo.Option[*models.Trigger], error) {
	if !core.IsValidULID(id) {
		return mo.None[*models.Trigger](), fmt.Errorf("trigger ID must be a valid ULID")
	}
	return s.triggersRepo.GetTriggerByID(ctx, organizationID, id)
}

func (s *TriggersService) ListTriggers(ctx context.Context, organizationID models.OrgID) ([]*models.Trigger, error) {
	return s.triggersRepo.GetTriggersByOrganizationID(ctx, organizationID)
}

// UpdateTrigger replaces the mutable fields of an existing trigger. Changing
// the cron expression of an enabled cron trigger re-registers the remote
// schedule.
func (s *TriggersService) UpdateTrigger(ctx context.Context, trigger *models.Trigger) (*models.Trigger, error) {
	log.Printf("📋 Starting to update trigger: %s", trigger.ID)

	if !core.IsValidULID(trigger.ID) {
		return nil, fmt.Errorf("trigger ID must be a valid ULID")
	}

	maybeExisting, err := s.triggersRepo.GetTriggerByID(ctx, trigger.OrgID, trigger.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trigger: %w", err)
	}
	existing, exists := maybeExisting.Get()
	if !exists {
		return nil, fmt.Errorf("trigger not found: %w", core.ErrNotFound)
	}

	trigger.SourceType = existing.SourceType
	if err := s.validateTrigger(ctx, trigger); err != nil {
		return nil, err
	}
	trigger.Tone = string(models.ResolveTone(trigger.Tone))

	cronChanged := existing.SourceType == models.TriggerSourceTypeCron &&
		existing.CronExpression != nil && trigger.CronExpression != nil &&
		*existing.CronExpression != *trigger.CronExpression

	if err := s.triggersRepo.UpdateTrigger(ctx, trigger); err != nil {
		return nil, fmt.Errorf("failed to update trigger: %w", err)
	}

	if cronChanged && existing.Enabled && existing.HasScheduleHandle() {
		if err := s.schedulerClient.DeleteSchedule(ctx, *existing.ScheduleID); err != nil {
			log.Printf("⚠️ Failed to delete stale schedule %s: %v", *existing.ScheduleID, err)
		}
		scheduleID, err := s.schedulerClient.CreateSchedule(ctx, trigger.ID, *trigger.CronExpression, s.callbackURL(trigger.OrgID))
		if err != nil {
			return nil, fmt.Errorf("failed to re-register schedule: %w", err)
		}
		maybeUpdated, err := s.triggersRepo.SetTriggerEnabled(ctx, trigger.OrgID, trigger.ID, true, &scheduleID)
		if err != nil {
			return nil, fmt.Errorf("failed to store schedule handle: %w", err)
		}
		if updated, ok := maybeUpdated.Get(); ok {
			trigger = updated
		}
	}

	log.Printf("📋 Completed successfully - updated trigger: %s", trigger.ID)
	return trigger, nil
}

// SetTriggerEnabled flips the enabled flag. For cron triggers the remote
// schedule is created or torn down so that a disabled trigger never holds a
// live schedule handle.
func (s *TriggersService) SetTriggerEnabled(
	ctx context.Context,
	organizationID models.OrgID,
	id string,
	enabled bool,
) (*models.Trigger, error) {
	log.Printf("📋 Starting to set trigger %s enabled=%t", id, enabled)

	maybeTrigger, err := s.GetTriggerByID(ctx, organizationID, id)
	if err != nil {
		return nil, err
	}
	trigger, exists := maybeTrigger.Get()
	if !exists {
		return nil, fmt.Errorf("trigger not found: %w", core.ErrNotFound)
	}

	if trigger.Enabled == enabled {
		return trigger, nil
	}

	var scheduleID *string
	if enabled && trigger.SourceType == models.TriggerSourceTypeCron {
		if trigger.CronExpression == nil {
			return nil, fmt.Errorf("cron trigger is missing a cron expression")
		}
		created, err := s.schedulerClient.CreateSchedule(ctx, trigger.ID, *trigger.CronExpression, s.callbackURL(trigger.OrgID))
		if err != nil {
			return nil, fmt.Errorf("failed to create schedule: %w", err)
		}
		scheduleID = &created
	}

	if !enabled && trigger.HasScheduleHandle() {
		if err := s.schedulerClient.DeleteSchedule(ctx, *trigger.ScheduleID); err != nil {
			log.Printf("⚠️ Failed to delete schedule %s for trigger %s: %v", *trigger.ScheduleID, trigger.ID, err)
		}
	}

	maybeUpdated, err := s.triggersRepo.SetTriggerEnabled(ctx, organizationID, id, enabled, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to update trigger: %w", err)
	}
	updated, exists := maybeUpdated.Get()
	if !exists {
		return nil, fmt.Errorf("trigger not found: %w", core.ErrNotFound)
	}

	log.Printf("📋 Completed successfully - trigger %s enabled=%t", id, enabled)
	return updated, nil
}

func (s *TriggersService) DeleteTrigger(ctx context.Context, organizationID models.OrgID, id string) error {
	log.Printf("🗑️ Starting to delete trigger: %s", id)

	maybeTrigger, err := s.GetTriggerByID(ctx, organizationID, id)
	if err != nil {
		return err
	}
	trigger, exists := maybeTrigger.Get()
	if !exists {
		return fmt.Errorf("trigger not found: %w", core.ErrNotFound)
	}

	if trigger.HasScheduleHandle() {
		if err := s.schedulerClient.DeleteSchedule(ctx, *trigger.ScheduleID); err != nil {
			log.Printf("⚠️ Failed to delete schedule %s for trigger %s: %v", *trigger.ScheduleID, trigger.ID, err)
		}
	}

	if err := s.triggersRepo.DeleteTrigger(ctx, organizationID, id); err != nil {
		return fmt.Errorf("failed to delete trigger: %w", err)
	}

	log.Printf("🗑️ Completed successfully - deleted trigger: %s", id)
	return nil
}

// DisableTriggersTargetingIntegration disables every cron trigger whose
// targets include the integration's repositories. Remote schedule deletion is
// best-effort; the local disable always proceeds.
func (s *TriggersService) DisableTriggersTargetingIntegration(
	ctx context.Context,
	organizationID models.OrgID,
	integrationID string,
) (int, error) {
	repos, err := s.reposRepo.GetRepositoriesByIntegrationID(ctx, organizationID, integrationID)
	if err != nil {
		return 0, fmt.Errorf("failed to list repositories: %w", err)
	}

	repoIDs := make([]string, 0, len(repos))
	for _, repo := range repos {
		repoIDs = append(repoIDs, repo.ID)
	}

	triggers, err := s.triggersRepo.GetCronTriggersTargetingRepositories(ctx, organizationID, repoIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to find dependent triggers: %w", err)
	}

	disabled := 0
	for _, trigger := range triggers {
		if !trigger.Enabled {
			continue
		}

		if trigger.HasScheduleHandle() {
			if err := s.schedulerClient.DeleteSchedule(ctx, *trigger.ScheduleID); err != nil {
				log.Printf("⚠️ Failed to delete schedule %s for trigger %s: %v", *trigger.ScheduleID, trigger.ID, err)
			}
		}

		if _, err := s.triggersRepo.SetTriggerEnabled(ctx, organizationID, trigger.ID, false, nil); err != nil {
			return disabled, fmt.Errorf("failed to disable trigger %s: %w", trigger.ID, err)
		}
		disabled++
	}

	return disabled, nil
}

// validateTrigger checks structural validity and that every target repository
// belongs to the trigger's organization.
func (s *TriggersService) validateTrigger(ctx context.Context, trigger *models.Trigger) error {
	if trigger.OrgID == "" {
		return fmt.Errorf("organization ID cannot be empty")
	}
	if trigger.Name == "" {
		return fmt.Errorf("trigger name cannot be empty")
	}

	switch trigger.SourceType {
	case models.TriggerSourceTypeCron:
		if trigger.CronExpression == nil || *trigger.CronExpression == "" {
			return fmt.Errorf("cron triggers require a cron expression")
		}
	case models.TriggerSourceTypeGitHubWebhook, models.TriggerSourceTypeLinearWebhook:
		if len(trigger.EventTypes) == 0 {
			return fmt.Errorf("webhook triggers require at least one event type")
		}
	case models.TriggerSourceTypeManual:
		// no source-specific fields
	default:
		return fmt.Errorf("unknown trigger source type: %s", trigger.SourceType)
	}

	validOutput := false
	for _, outputType := range models.SupportedOutputTypes {
		if trigger.OutputType == outputType {
			validOutput = true
			break
		}
	}
	if !validOutput {
		return fmt.Errorf("unsupported output type: %s", trigger.OutputType)
	}

	if trigger.LookbackDays <= 0 {
		return fmt.Errorf("lookback days must be positive")
	}

	if len(trigger.TargetRepositoryIDs) == 0 {
		return fmt.Errorf("trigger must target at least one repository")
	}
	owned, err := s.reposRepo.GetRepositoriesByIDs(ctx, trigger.OrgID, trigger.TargetRepositoryIDs)
	if err != nil {
		return fmt.Errorf("failed to resolve target repositories: %w", err)
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, repo := range owned {
		ownedIDs[repo.ID] = true
	}
	for _, id := range trigger.TargetRepositoryIDs {
		if !ownedIDs[id] {
			return fmt.Errorf("target repository %s does not belong to the organization", id)
		}
	}

	return nil
}
