package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taqh/notra-sub001/appctx"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/models"
	integrationssvc "github.com/taqh/notra-sub001/services/integrations"
	notificationsettingssvc "github.com/taqh/notra-sub001/services/notificationsettings"
	organizationssvc "github.com/taqh/notra-sub001/services/organizations"
	postssvc "github.com/taqh/notra-sub001/services/posts"
	triggerssvc "github.com/taqh/notra-sub001/services/triggers"
	uploadssvc "github.com/taqh/notra-sub001/services/uploads"
	userssvc "github.com/taqh/notra-sub001/services/users"
	webhooklogssvc "github.com/taqh/notra-sub001/services/webhooklogs"
)

type dashboardMocks struct {
	users                *userssvc.MockUsersService
	organizations        *organizationssvc.MockOrganizationsService
	integrations         *integrationssvc.MockIntegrationsService
	triggers             *triggerssvc.MockTriggersService
	posts                *postssvc.MockPostsService
	notificationSettings *notificationsettingssvc.MockNotificationSettingsService
	webhookLogs          *webhooklogssvc.MockWebhookLogsService
	uploads              *uploadssvc.MockUploadsService
}

func newDashboardHandler() (*DashboardHTTPHandler, *dashboardMocks) {
	mocks := &dashboardMocks{
		users:                new(userssvc.MockUsersService),
		organizations:        new(organizationssvc.MockOrganizationsService),
		integrations:         new(integrationssvc.MockIntegrationsService),
		triggers:             new(triggerssvc.MockTriggersService),
		posts:                new(postssvc.MockPostsService),
		notificationSettings: new(notificationsettingssvc.MockNotificationSettingsService),
		webhookLogs:          new(webhooklogssvc.MockWebhookLogsService),
		uploads:              new(uploadssvc.MockUploadsService),
	}
	handler := NewDashboardHTTPHandler(
		mocks.users,
		mocks.organizations,
		mocks.integrations,
		mocks.triggers,
		mocks.posts,
		mocks.notificationSettings,
		mocks.webhookLogs,
		mocks.uploads,
	)
	return handler, mocks
}

var (
	testUser = &models.User{ID: core.NewID("u"), Email: "dev@example.com"}
	testOrg  = &models.Organization{ID: models.OrgID(core.NewID("org")), Name: "Acme", Plan: models.PlanTierFree}
)

// newOrgRequest builds an authenticated request scoped to testOrg, the way it
// arrives after the auth middleware and mux routing ran.
func newOrgRequest(method, path string, body any, pathVars map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(appctx.SetUser(req.Context(), testUser))
	if pathVars != nil {
		req = mux.SetURLVars(req, pathVars)
	}
	return req
}

func membershipWithRole(role models.MembershipRole) *models.OrganizationMembership {
	return &models.OrganizationMembership{
		ID:     core.NewID("om"),
		OrgID:  testOrg.ID,
		UserID: testUser.ID,
		Role:   role,
	}
}

func expectResolvedOrg(mocks *dashboardMocks, role models.MembershipRole) {
	mocks.organizations.On("GetOrganizationByID", mock.Anything, testOrg.ID).
		Return(mo.Some(testOrg), nil)
	mocks.organizations.On("GetMembership", mock.Anything, testOrg.ID, testUser.ID).
		Return(mo.Some(membershipWithRole(role)), nil)
}

func TestResolveOrganization(t *testing.T) {
	t.Run("unauthenticated request is rejected", func(t *testing.T) {
		handler, _ := newDashboardHandler()

		req := httptest.NewRequest("GET", "/organizations/"+string(testOrg.ID)+"/triggers", nil)
		req = mux.SetURLVars(req, map[string]string{"orgID": string(testOrg.ID)})
		rec := httptest.NewRecorder()

		handler.HandleListTriggers(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid organization ID is rejected", func(t *testing.T) {
		handler, _ := newDashboardHandler()

		req := newOrgRequest("GET", "/organizations/garbage/triggers", nil,
			map[string]string{"orgID": "garbage"})
		rec := httptest.NewRecorder()

		handler.HandleListTriggers(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown organization returns 404", func(t *testing.T) {
		handler, mocks := newDashboardHandler()

		mocks.organizations.On("GetOrganizationByID", mock.Anything, testOrg.ID).
			Return(mo.None[*models.Organization](), nil)

		req := newOrgRequest("GET", "/organizations/"+string(testOrg.ID)+"/triggers", nil,
			map[string]string{"orgID": string(testOrg.ID)})
		rec := httptest.NewRecorder()

		handler.HandleListTriggers(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var errBody map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
		assert.Equal(t, "organization not found", errBody["error"])
	})

	t.Run("non-member is rejected with 403", func(t *testing.T) {
		handler, mocks := newDashboardHandler()

		mocks.organizations.On("GetOrganizationByID", mock.Anything, testOrg.ID).
			Return(mo.Some(testOrg), nil)
		mocks.organizations.On("GetMembership", mock.Anything, testOrg.ID, testUser.ID).
			Return(mo.None[*models.OrganizationMembership](), nil)

		req := newOrgRequest("GET", "/organizations/"+string(testOrg.ID)+"/triggers", nil,
			map[string]string{"orgID": string(testOrg.ID)})
		rec := httptest.NewRecorder()

		handler.HandleListTriggers(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mocks.triggers.AssertNotCalled(t, "ListTriggers", mock.Anything, mock.Anything)
	})
}

func TestHandleCreateIntegration(t *testing.T) {
	tests := []struct {
		name           string
		body           CreateIntegrationRequest
		mockSetup      func(*dashboardMocks)
		expectedStatus int
	}{
		{
			name: "success",
			body: CreateIntegrationRequest{AccessToken: "ghp_valid", Owner: "acme", Repo: "platform"},
			mockSetup: func(m *dashboardMocks) {
				m.integrations.On("CreateIntegration", mock.Anything, testOrg.ID, testUser.ID, "ghp_valid", "acme", "platform").
					Return(&models.Integration{ID: core.NewID("oi"), OrgID: testOrg.ID}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invalid token maps to 400",
			body: CreateIntegrationRequest{AccessToken: "ghp_bad", Owner: "acme", Repo: "platform"},
			mockSetup: func(m *dashboardMocks) {
				m.integrations.On("CreateIntegration", mock.Anything, testOrg.ID, testUser.ID, "ghp_bad", "acme", "platform").
					Return(nil, fmt.Errorf("%w: 401", integrationssvc.ErrInvalidToken))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unreachable repository maps to 400",
			body: CreateIntegrationRequest{Owner: "acme", Repo: "private"},
			mockSetup: func(m *dashboardMocks) {
				m.integrations.On("CreateIntegration", mock.Anything, testOrg.ID, testUser.ID, "", "acme", "private").
					Return(nil, fmt.Errorf("%w: 404", integrationssvc.ErrRepositoryUnreachable))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing owner and repo are rejected",
			body:           CreateIntegrationRequest{AccessToken: "ghp_valid"},
			mockSetup:      func(m *dashboardMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mocks := newDashboardHandler()
			expectResolvedOrg(mocks, models.MembershipRoleMember)
			tt.mockSetup(mocks)

			req := newOrgRequest("POST", "/organizations/"+string(testOrg.ID)+"/integrations", tt.body,
				map[string]string{"orgID": string(testOrg.ID)})
			rec := httptest.NewRecorder()

			handler.HandleCreateIntegration(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandleUpdateIntegrationBranch(t *testing.T) {
	integrationID := core.NewID("oi")
	branch := "develop"

	t.Run("multi-repo branch edit maps to 400", func(t *testing.T) {
		handler, mocks := newDashboardHandler()
		expectResolvedOrg(mocks, models.MembershipRoleMember)

		mocks.integrations.On("UpdateDefaultBranch", mock.Anything, testOrg.ID, integrationID, branch).
			Return(integrationssvc.ErrMultiRepoBranchEdit)

		req := newOrgRequest("PATCH",
			"/organizations/"+string(testOrg.ID)+"/integrations/"+integrationID,
			UpdateIntegrationRequest{Branch: &branch},
			map[string]string{"orgID": string(testOrg.ID), "integrationID": integrationID})
		rec := httptest.NewRecorder()

		handler.HandleUpdateIntegration(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("branch-only update returns the integration", func(t *testing.T) {
		handler, mocks := newDashboardHandler()
		expectResolvedOrg(mocks, models.MembershipRoleMember)

		mocks.integrations.On("UpdateDefaultBranch", mock.Anything, testOrg.ID, integrationID, branch).
			Return(nil)
		mocks.integrations.On("GetIntegrationByID", mock.Anything, testOrg.ID, integrationID).
			Return(mo.Some(&models.Integration{ID: integrationID, OrgID: testOrg.ID}), nil)

		req := newOrgRequest("PATCH",
			"/organizations/"+string(testOrg.ID)+"/integrations/"+integrationID,
			UpdateIntegrationRequest{Branch: &branch},
			map[string]string{"orgID": string(testOrg.ID), "integrationID": integrationID})
		rec := httptest.NewRecorder()

		handler.HandleUpdateIntegration(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mocks.integrations.AssertNotCalled(t, "UpdateIntegration",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleUpdateTrigger(t *testing.T) {
	triggerID := core.NewID("tr")

	t.Run("enabled-only flip routes to SetTriggerEnabled", func(t *testing.T) {
		handler, mocks := newDashboardHandler()
		expectResolvedOrg(mocks, models.MembershipRoleMember)

		enabled := false
		mocks.triggers.On("SetTriggerEnabled", mock.Anything, testOrg.ID, triggerID, false).
			Return(&models.Trigger{ID: triggerID, OrgID: testOrg.ID, Enabled: false}, nil)

		req := newOrgRequest("PATCH",
			"/organizations/"+string(testOrg.ID)+"/triggers/"+triggerID,
			TriggerRequest{Enabled: &enabled},
			map[string]string{"orgID": string(testOrg.ID), "triggerID": triggerID})
		rec := httptest.NewRecorder()

		handler.HandleUpdateTrigger(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mocks.triggers.AssertNotCalled(t, "UpdateTrigger", mock.Anything, mock.Anything)
	})

	t.Run("full update goes through UpdateTrigger", func(t *testing.T) {
		handler, mocks := newDashboardHandler()
		expectResolvedOrg(mocks, models.MembershipRoleMember)

		mocks.triggers.On("UpdateTrigger", mock.Anything, mock.MatchedBy(func(trigger *models.Trigger) bool {
			return trigger.ID == triggerID && trigger.Name == "Renamed"
		})).Return(&models.Trigger{ID: triggerID, OrgID: testOrg.ID, Name: "Renamed", Enabled: true}, nil)

		req := newOrgRequest("PATCH",
			"/organizations/"+string(testOrg.ID)+"/triggers/"+triggerID,
			TriggerRequest{
				Name:                "Renamed",
				TargetRepositoryIDs: []string{core.NewID("rp")},
				OutputType:          "changelog",
				Tone:                "casual",
				LookbackDays:        14,
			},
			map[string]string{"orgID": string(testOrg.ID), "triggerID": triggerID})
		rec := httptest.NewRecorder()

		handler.HandleUpdateTrigger(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mocks.triggers.AssertExpectations(t)
	})
}

func TestHandleUpdateNotificationSettings(t *testing.T) {
	t.Run("owner can update", func(t *testing.T) {
		handler, mocks := newDashboardHandler()
		expectResolvedOrg(mocks, models.MembershipRoleOwner)

		mocks.notificationSettings.On("UpdateNotificationSettings", mock.Anything, testOrg.ID, true, false).
			Return(&models.NotificationSettings{OrgID: testOrg.ID, EmailOnSuccess: true, EmailOnFailure: false}, nil)

		req := newOrgRequest("PUT",
			"/organizations/"+string(testOrg.ID)+"/notification-settings",
			NotificationSettingsRequest{EmailOnSuccess: true, EmailOnFailure: false},
			map[string]string{"orgID": string(testOrg.ID)})
		rec := httptest.NewRecorder()

		handler.HandleUpdateNotificationSettings(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mocks.notificationSettings.AssertExpectations(t)
	})

	t.Run("member is rejected with 403", func(t *testing.T) {
		handler, mocks := newDashboardHandler()
		expectResolvedOrg(mocks, models.MembershipRoleMember)

		req := newOrgRequest("PUT",
			"/organizations/"+string(testOrg.ID)+"/notification-settings",
			NotificationSettingsRequest{EmailOnSuccess: true, EmailOnFailure: true},
			map[string]string{"orgID": string(testOrg.ID)})
		rec := httptest.NewRecorder()

		handler.HandleUpdateNotificationSettings(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mocks.notificationSettings.AssertNotCalled(t, "UpdateNotificationSettings",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandleListWebhookLogs(t *testing.T) {
	handler, mocks := newDashboardHandler()
	expectResolvedOrg(mocks, models.MembershipRoleMember)

	mocks.webhookLogs.On("ListEntries", mock.Anything, testOrg.ID,
		models.IntegrationTypeGitHub, "all", 2, 50).
		Return(&models.WebhookLogPage{Entries: []*models.WebhookLogEntry{}, Page: 2, PageSize: 50}, nil)

	req := newOrgRequest("GET",
		"/organizations/"+string(testOrg.ID)+"/webhook-logs?page=2&pageSize=50&integrationType=github&integrationId=all",
		nil, map[string]string{"orgID": string(testOrg.ID)})
	rec := httptest.NewRecorder()

	handler.HandleListWebhookLogs(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mocks.webhookLogs.AssertExpectations(t)
}

func TestHandleCreateUpload(t *testing.T) {
	t.Run("user-scoped upload keys off the user id", func(t *testing.T) {
		handler, mocks := newDashboardHandler()

		mocks.uploads.On("CreatePresignedUpload", mock.Anything, models.OrgID(testUser.ID),
			"avatar", "me.png", "image/png", int64(1024)).
			Return(&models.PresignedUploadResult{Key: "avatar/key"}, nil)

		req := newOrgRequest("POST", "/upload",
			UploadRequest{Type: "avatar", FileName: "me.png", FileType: "image/png", FileSize: 1024}, nil)
		rec := httptest.NewRecorder()

		handler.HandleCreateUpload(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mocks.organizations.AssertNotCalled(t, "GetMembership", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("org-scoped upload requires membership", func(t *testing.T) {
		handler, mocks := newDashboardHandler()

		mocks.organizations.On("GetMembership", mock.Anything, testOrg.ID, testUser.ID).
			Return(mo.None[*models.OrganizationMembership](), nil)

		req := newOrgRequest("POST", "/upload?orgId="+string(testOrg.ID),
			UploadRequest{Type: "logo", FileName: "logo.png", FileType: "image/png", FileSize: 1024}, nil)
		rec := httptest.NewRecorder()

		handler.HandleCreateUpload(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		mocks.uploads.AssertNotCalled(t, "CreatePresignedUpload",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation failures map to 400", func(t *testing.T) {
		handler, mocks := newDashboardHandler()

		mocks.uploads.On("CreatePresignedUpload", mock.Anything, models.OrgID(testUser.ID),
			"avatar", "me.svg", "image/svg+xml", int64(1000)).
			Return(nil, fmt.Errorf("file type image/svg+xml not allowed for avatar"))

		req := newOrgRequest("POST", "/upload",
			UploadRequest{Type: "avatar", FileName: "me.svg", FileType: "image/svg+xml", FileSize: 1000}, nil)
		rec := httptest.NewRecorder()

		handler.HandleCreateUpload(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not allowed for avatar")
	})
}

func TestHandleDeleteUserWithTransfers(t *testing.T) {
	transfers := []models.OrgTransfer{
		{OrgID: testOrg.ID, Action: models.OrgTransferActionTransfer},
	}

	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
	}{
		{name: "success", serviceErr: nil, expectedStatus: http.StatusNoContent},
		{name: "not owner maps to 403", serviceErr: fmt.Errorf("org: %w", userssvc.ErrNotOwner), expectedStatus: http.StatusForbidden},
		{name: "no transfer target maps to 400", serviceErr: fmt.Errorf("org: %w", userssvc.ErrNoTransferTarget), expectedStatus: http.StatusBadRequest},
		{name: "other failures map to 500", serviceErr: fmt.Errorf("db down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mocks := newDashboardHandler()

			mocks.users.On("DeleteUserWithTransfers", mock.Anything, testUser, transfers).
				Return(tt.serviceErr)

			req := newOrgRequest("POST", "/user/delete-with-transfers",
				DeleteWithTransfersRequest{Transfers: transfers}, nil)
			rec := httptest.NewRecorder()

			handler.HandleDeleteUserWithTransfers(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
