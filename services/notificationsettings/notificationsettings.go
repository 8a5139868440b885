package notificationsettings

import (
	"context"
	"fmt"
	"log"

	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
)

type NotificationSettingsService struct {
	settingsRepo *db.PostgresNotificationSettingsRepository
}

func NewNotificationSettingsService(
	settingsRepo *db.PostgresNotificationSettingsRepository,
) *NotificationSettingsService {
	return &NotificationSettingsService{settingsRepo: settingsRepo}
}

// GetNotificationSettings returns the organization's stored preferences, or
// the defaults when nothing has been saved yet.
func (s *NotificationSettingsService) GetNotificationSettings(
	ctx context.Context,
	organizationID models.OrgID,
) (*models.NotificationSettings, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	maybeSettings, err := s.settingsRepo.GetByOrganizationID(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	if settings, exists := maybeSettings.Get(); exists {
		return settings, nil
	}

	return models.DefaultNotificationSettings(organizationID), nil
}

func (s *NotificationSettingsService) UpdateNotificationSettings(
	ctx context.Context,
	organizationID models.OrgID,
	emailOnSuccess, emailOnFailure bool,
) (*models.NotificationSettings, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	settings, err := s.settingsRepo.Upsert(ctx, organizationID, emailOnSuccess, emailOnFailure)
	if err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %w", err)
	}

	log.Printf("📋 Updated notification settings for org: %s (success=%t failure=%t)",
		organizationID, emailOnSuccess, emailOnFailure)
	return settings, nil
}
