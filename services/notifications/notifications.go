package notifications

import (
	"context"
	"fmt"
	"html"
	"log"
	"math/rand"
	"time"

	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/db"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services"
)

const (
	maxSendAttempts = 3
	baseBackoff     = 500 * time.Millisecond
	maxBackoff      = 5 * time.Second
)

type NotificationsService struct {
	settingsService      services.NotificationSettingsService
	organizationsService services.OrganizationsService
	usersRepo            *db.PostgresUsersRepository
	emailClient          clients.EmailClient
	fromAddress          string
}

func NewNotificationsService(
	settingsService services.NotificationSettingsService,
	organizationsService services.OrganizationsService,
	usersRepo *db.PostgresUsersRepository,
	emailClient clients.EmailClient,
	fromAddress string,
) *NotificationsService {
	return &NotificationsService{
		settingsService:      settingsService,
		organizationsService: organizationsService,
		usersRepo:            usersRepo,
		emailClient:          emailClient,
		fromAddress:          fromAddress,
	}
}

// NotifyRunOutcome emails organization members about a finished run, honoring
// the organization's preferences. It never returns an error: a run outcome
// must not fail because its notification did.
func (s *NotificationsService) NotifyRunOutcome(
	ctx context.Context,
	org *models.Organization,
	trigger *models.Trigger,
	result *models.GenerationResult,
) {
	if s.emailClient == nil {
		return
	}

	settings, err := s.settingsService.GetNotificationSettings(ctx, org.ID)
	if err != nil {
		log.Printf("⚠️ Failed to load notification settings for org %s: %v", org.ID, err)
		settings = models.DefaultNotificationSettings(org.ID)
	}

	if result.Succeeded() && !settings.EmailOnSuccess {
		return
	}
	if !result.Succeeded() && !settings.EmailOnFailure {
		return
	}

	recipients, err := s.memberEmails(ctx, org.ID)
	if err != nil {
		log.Printf("⚠️ Failed to resolve notification recipients for org %s: %v", org.ID, err)
		return
	}
	if len(recipients) == 0 {
		return
	}

	subject, html := composeRunOutcomeEmail(org, trigger, result)
	params := clients.SendEmailParams{
		From:    s.fromAddress,
		To:      recipients,
		Subject: subject,
		HTML:    html,
	}

	if err := s.sendWithRetry(ctx, params); err != nil {
		log.Printf("❌ Failed to send run outcome email for org %s after %d attempts: %v",
			org.ID, maxSendAttempts, err)
		return
	}

	log.Printf("📋 Sent run outcome email for trigger %s to %d recipients", trigger.ID, len(recipients))
}

// sendWithRetry retries transient send failures with doubling backoff plus
// jitter, capped at maxBackoff.
func (s *NotificationsService) sendWithRetry(ctx context.Context, params clients.SendEmailParams) error {
	var lastErr error
	backoff := baseBackoff

	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		if _, err := s.emailClient.SendEmail(ctx, params); err == nil {
			return nil
		} else {
			lastErr = err
			log.Printf("⚠️ Email send attempt %d/%d failed: %v", attempt, maxSendAttempts, err)
		}

		if attempt == maxSendAttempts {
			break
		}

		jitter := time.Duration(rand.Int63n(int64(backoff) / 4))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff + jitter):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}

	return lastErr
}

func (s *NotificationsService) memberEmails(ctx context.Context, orgID models.OrgID) ([]string, error) {
	memberships, err := s.organizationsService.GetMembershipsByOrganizationID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	emails := make([]string, 0, len(memberships))
	for _, membership := range memberships {
		maybeUser, err := s.usersRepo.GetUserByID(ctx, membership.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user %s: %w", membership.UserID, err)
		}
		user, exists := maybeUser.Get()
		if !exists || user.Email == "" {
			continue
		}
		emails = append(emails, user.Email)
	}

	return emails, nil
}

func composeRunOutcomeEmail(
	org *models.Organization,
	trigger *models.Trigger,
	result *models.GenerationResult,
) (string, string) {
	// Trigger names, org names and post titles are user-controlled text
	triggerName := html.EscapeString(trigger.Name)
	orgName := html.EscapeString(org.Name)

	if result.Succeeded() {
		subject := fmt.Sprintf("Content generated: %s", result.Title)
		body := fmt.Sprintf(
			"<p>Your trigger <strong>%s</strong> in %s created new content: <strong>%s</strong>.</p>"+
				"<p>It is saved as a draft and ready for review.</p>",
			triggerName, orgName, html.EscapeString(result.Title),
		)
		return subject, body
	}

	subject := fmt.Sprintf("Content generation failed: %s", trigger.Name)
	reason := result.Reason
	if reason == "" {
		reason = string(result.Status)
	}
	body := fmt.Sprintf(
		"<p>Your trigger <strong>%s</strong> in %s did not produce content.</p><p>Reason: %s</p>",
		triggerName, orgName, html.EscapeString(reason),
	)
	return subject, body
}
