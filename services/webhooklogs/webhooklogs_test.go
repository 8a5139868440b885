package webhooklogs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/models"
)

func TestAppendEntry(t *testing.T) {
	t.Run("free plan entries are retained 7 days", func(t *testing.T) {
		mockStore := new(MockLogStore)
		service := NewWebhookLogsService(mockStore)

		org := &models.Organization{ID: models.OrgID(core.NewID("org")), Plan: models.PlanTierFree}
		entry := &models.WebhookLogEntry{Title: "Weekly changelog", Status: models.WebhookLogStatusSuccess}

		mockStore.On("AppendEntry", mock.Anything, entry, 7).Return(nil)

		err := service.AppendEntry(context.Background(), org, entry)

		require.NoError(t, err)
		assert.True(t, core.IsValidULID(entry.ID))
		assert.Equal(t, org.ID, entry.OrgID)
		assert.False(t, entry.CreatedAt.IsZero())
		mockStore.AssertExpectations(t)
	})

	t.Run("pro plan entries are retained 30 days", func(t *testing.T) {
		mockStore := new(MockLogStore)
		service := NewWebhookLogsService(mockStore)

		org := &models.Organization{ID: models.OrgID(core.NewID("org")), Plan: models.PlanTierPro}
		entry := &models.WebhookLogEntry{Title: "Weekly changelog", Status: models.WebhookLogStatusSuccess}

		mockStore.On("AppendEntry", mock.Anything, entry, 30).Return(nil)

		err := service.AppendEntry(context.Background(), org, entry)

		require.NoError(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("nil organization fails", func(t *testing.T) {
		mockStore := new(MockLogStore)
		service := NewWebhookLogsService(mockStore)

		err := service.AppendEntry(context.Background(), nil, &models.WebhookLogEntry{Title: "x"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "organization cannot be nil")
		mockStore.AssertNotCalled(t, "AppendEntry", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty title fails", func(t *testing.T) {
		mockStore := new(MockLogStore)
		service := NewWebhookLogsService(mockStore)

		org := &models.Organization{ID: models.OrgID(core.NewID("org")), Plan: models.PlanTierFree}
		err := service.AppendEntry(context.Background(), org, &models.WebhookLogEntry{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "title cannot be empty")
	})
}

func makeEntries(n int) []*models.WebhookLogEntry {
	entries := make([]*models.WebhookLogEntry, n)
	for i := range entries {
		entries[i] = &models.WebhookLogEntry{
			ID:    core.NewID("wl"),
			Title: fmt.Sprintf("Run %d", i),
		}
	}
	return entries
}

func TestListEntries(t *testing.T) {
	orgID := models.OrgID(core.NewID("org"))

	t.Run("all is equivalent to empty integration ID", func(t *testing.T) {
		mockStore := new(MockLogStore)
		service := NewWebhookLogsService(mockStore)

		entries := makeEntries(3)
		mockStore.On("ListEntries", mock.Anything, orgID, models.IntegrationTypeGitHub, "").
			Return(entries, nil)

		page, err := service.ListEntries(context.Background(), orgID, models.IntegrationTypeGitHub, "all", 1, 20)
		require.NoError(t, err)
		assert.Len(t, page.Entries, 3)

		page, err = service.ListEntries(context.Background(), orgID, models.IntegrationTypeGitHub, "", 1, 20)
		require.NoError(t, err)
		assert.Len(t, page.Entries, 3)

		mockStore.AssertNumberOfCalls(t, "ListEntries", 2)
	})

	t.Run("pagination clamps and slices", func(t *testing.T) {
		tests := []struct {
			name            string
			total           int
			page            int
			pageSize        int
			expectedPage    int
			expectedSize    int
			expectedEntries int
		}{
			{name: "defaults applied", total: 45, page: 0, pageSize: 0, expectedPage: 1, expectedSize: 20, expectedEntries: 20},
			{name: "second page", total: 45, page: 2, pageSize: 20, expectedPage: 2, expectedSize: 20, expectedEntries: 20},
			{name: "partial last page", total: 45, page: 3, pageSize: 20, expectedPage: 3, expectedSize: 20, expectedEntries: 5},
			{name: "page past the end is empty", total: 45, page: 4, pageSize: 20, expectedPage: 4, expectedSize: 20, expectedEntries: 0},
			{name: "page size capped at 100", total: 150, page: 1, pageSize: 500, expectedPage: 1, expectedSize: 100, expectedEntries: 100},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockStore := new(MockLogStore)
				service := NewWebhookLogsService(mockStore)

				mockStore.On("ListEntries", mock.Anything, orgID, models.IntegrationTypeGitHub, "").
					Return(makeEntries(tt.total), nil)

				page, err := service.ListEntries(context.Background(), orgID, models.IntegrationTypeGitHub, "", tt.page, tt.pageSize)

				require.NoError(t, err)
				assert.Equal(t, tt.expectedPage, page.Page)
				assert.Equal(t, tt.expectedSize, page.PageSize)
				assert.Equal(t, tt.total, page.TotalCount)
				assert.Len(t, page.Entries, tt.expectedEntries)
			})
		}
	})

	t.Run("empty organization ID fails", func(t *testing.T) {
		mockStore := new(MockLogStore)
		service := NewWebhookLogsService(mockStore)

		_, err := service.ListEntries(context.Background(), "", models.IntegrationTypeGitHub, "", 1, 20)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "organization ID cannot be empty")
	})
}
