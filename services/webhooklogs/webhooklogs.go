package webhooklogs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// LogStore is the capped-list storage behind the run log
type LogStore interface {
	AppendEntry(ctx context.Context, entry *models.WebhookLogEntry, retentionDays int) error
	ListEntries(
		ctx context.Context,
		orgID models.OrgID,
		integrationType models.IntegrationType,
		integrationID string,
	) ([]*models.WebhookLogEntry, error)
}

type WebhookLogsService struct {
	store LogStore
}

func NewWebhookLogsService(store LogStore) *WebhookLogsService {
	return &WebhookLogsService{store: store}
}

// AppendEntry records one trigger execution. Retention follows the
// organization's plan tier.
func (s *WebhookLogsService) AppendEntry(
	ctx context.Context,
	org *models.Organization,
	entry *models.WebhookLogEntry,
) error {
	if org == nil {
		return fmt.Errorf("organization cannot be nil")
	}
	if entry.Title == "" {
		return fmt.Errorf("log entry title cannot be empty")
	}

	entry.ID = core.NewID("wl")
	entry.OrgID = org.ID
	entry.CreatedAt = time.Now()

	retentionDays := org.Plan.WebhookLogRetentionDays()
	if err := s.store.AppendEntry(ctx, entry, retentionDays); err != nil {
		return fmt.Errorf("failed to append webhook log entry: %w", err)
	}

	log.Printf("➕ Appended webhook log entry: %s (%s)", entry.ID, entry.Status)
	return nil
}

// ListEntries pages over the capped log, most-recent-first. An empty or
// literal "all" integration ID selects the organization-wide list.
func (s *WebhookLogsService) ListEntries(
	ctx context.Context,
	organizationID models.OrgID,
	integrationType models.IntegrationType,
	integrationID string,
	page, pageSize int,
) (*models.WebhookLogPage, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization ID cannot be empty")
	}

	if integrationID == "all" {
		integrationID = ""
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	entries, err := s.store.ListEntries(ctx, organizationID, integrationType, integrationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook log entries: %w", err)
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(entries) {
		start = len(entries)
	}
	if end > len(entries) {
		end = len(entries)
	}

	return &models.WebhookLogPage{
		Entries:    entries[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalCount: len(entries),
	}, nil
}
