package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/taqh/notra-sub001/appctx"
	"github.com/taqh/notra-sub001/clients"
	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/middleware"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/services"
	"github.com/taqh/notra-sub001/services/integrations"
	"github.com/taqh/notra-sub001/services/users"
)

type DashboardHTTPHandler struct {
	usersService                services.UsersService
	organizationsService        services.OrganizationsService
	integrationsService         services.IntegrationsService
	triggersService             services.TriggersService
	postsService                services.PostsService
	notificationSettingsService services.NotificationSettingsService
	webhookLogsService          services.WebhookLogsService
	uploadsService              services.UploadsService
}

func NewDashboardHTTPHandler(
	usersService services.UsersService,
	organizationsService services.OrganizationsService,
	integrationsService services.IntegrationsService,
	triggersService services.TriggersService,
	postsService services.PostsService,
	notificationSettingsService services.NotificationSettingsService,
	webhookLogsService services.WebhookLogsService,
	uploadsService services.UploadsService,
) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{
		usersService:                usersService,
		organizationsService:        organizationsService,
		integrationsService:         integrationsService,
		triggersService:             triggersService,
		postsService:                postsService,
		notificationSettingsService: notificationSettingsService,
		webhookLogsService:          webhookLogsService,
		uploadsService:              uploadsService,
	}
}

type CreateIntegrationRequest struct {
	AccessToken string `json:"access_token"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
}

type UpdateIntegrationRequest struct {
	Enabled     *bool   `json:"enabled,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Branch      *string `json:"branch,omitempty"`
}

type TriggerRequest struct {
	Name                string   `json:"name"`
	SourceType          string   `json:"source_type"`
	CronExpression      *string  `json:"cron_expression,omitempty"`
	EventTypes          []string `json:"event_types,omitempty"`
	TargetRepositoryIDs []string `json:"target_repository_ids"`
	OutputType          string   `json:"output_type"`
	Tone                string   `json:"tone"`
	LookbackDays        int      `json:"lookback_days"`
	Enabled             *bool    `json:"enabled,omitempty"`
}

type NotificationSettingsRequest struct {
	EmailOnSuccess bool `json:"email_on_success"`
	EmailOnFailure bool `json:"email_on_failure"`
}

type UploadRequest struct {
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type DeleteWithTransfersRequest struct {
	Transfers []models.OrgTransfer `json:"transfers"`
}

// resolveOrganization loads the organization from the URL path and verifies
// the authenticated user's membership. The membership check is the tenancy
// boundary for every dashboard route.
func (h *DashboardHTTPHandler) resolveOrganization(
	w http.ResponseWriter,
	r *http.Request,
) (*models.Organization, *models.OrganizationMembership, bool) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		h.writeJSONError(w, "authentication required", http.StatusUnauthorized)
		return nil, nil, false
	}

	vars := mux.Vars(r)
	orgIDStr, ok := vars["orgID"]
	if !ok || !core.IsValidULID(orgIDStr) {
		log.Printf("❌ Missing or invalid organization ID in URL path")
		h.writeJSONError(w, "organization ID must be a valid ULID", http.StatusBadRequest)
		return nil, nil, false
	}
	orgID := models.OrgID(orgIDStr)

	maybeOrg, err := h.organizationsService.GetOrganizationByID(r.Context(), orgID)
	if err != nil {
		log.Printf("❌ Failed to get organization: %v", err)
		h.writeJSONError(w, "failed to get organization", http.StatusInternalServerError)
		return nil, nil, false
	}
	org, exists := maybeOrg.Get()
	if !exists {
		h.writeJSONError(w, "organization not found", http.StatusNotFound)
		return nil, nil, false
	}

	maybeMembership, err := h.organizationsService.GetMembership(r.Context(), orgID, user.ID)
	if err != nil {
		log.Printf("❌ Failed to get membership: %v", err)
		h.writeJSONError(w, "failed to get membership", http.StatusInternalServerError)
		return nil, nil, false
	}
	membership, exists := maybeMembership.Get()
	if !exists {
		log.Printf("❌ User %s is not a member of organization %s", user.ID, orgID)
		h.writeJSONError(w, "not a member of this organization", http.StatusForbidden)
		return nil, nil, false
	}

	return org, membership, true
}

func (h *DashboardHTTPHandler) HandleListIntegrations(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List integrations request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	listing, err := h.integrationsService.ListIntegrations(r.Context(), org.ID)
	if err != nil {
		log.Printf("❌ Failed to list integrations: %v", err)
		h.writeJSONError(w, "failed to list integrations", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Successfully retrieved %d integrations", len(listing))
	h.writeJSONResponse(w, http.StatusOK, listing)
}

func (h *DashboardHTTPHandler) HandleCreateIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Create integration request received from %s", r.RemoteAddr)

	org, membership, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	var req CreateIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Owner == "" || req.Repo == "" {
		h.writeJSONError(w, "owner and repo are required", http.StatusBadRequest)
		return
	}

	integration, err := h.integrationsService.CreateIntegration(
		r.Context(), org.ID, membership.UserID, req.AccessToken, req.Owner, req.Repo)
	if err != nil {
		log.Printf("❌ Failed to create integration: %v", err)
		switch {
		case errors.Is(err, integrations.ErrInvalidToken):
			h.writeJSONError(w, "access token is invalid", http.StatusBadRequest)
		case errors.Is(err, integrations.ErrRepositoryUnreachable):
			h.writeJSONError(w, "repository is not publicly reachable", http.StatusBadRequest)
		default:
			h.writeJSONError(w, "failed to create integration", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Integration created successfully: %s", integration.ID)
	h.writeJSONResponse(w, http.StatusCreated, integration)
}

func (h *DashboardHTTPHandler) HandleGetIntegrationByID(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get integration request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	integrationID, ok := vars["integrationID"]
	if !ok || !core.IsValidULID(integrationID) {
		h.writeJSONError(w, "integration ID must be a valid ULID", http.StatusBadRequest)
		return
	}

	maybeIntegration, err := h.integrationsService.GetIntegrationByID(r.Context(), org.ID, integrationID)
	if err != nil {
		log.Printf("❌ Failed to get integration: %v", err)
		h.writeJSONError(w, "failed to get integration", http.StatusInternalServerError)
		return
	}
	integration, exists := maybeIntegration.Get()
	if !exists {
		h.writeJSONError(w, "integration not found", http.StatusNotFound)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, integration)
}

func (h *DashboardHTTPHandler) HandleUpdateIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Update integration request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	integrationID, ok := vars["integrationID"]
	if !ok || !core.IsValidULID(integrationID) {
		h.writeJSONError(w, "integration ID must be a valid ULID", http.StatusBadRequest)
		return
	}

	var req UpdateIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Branch != nil {
		if err := h.integrationsService.UpdateDefaultBranch(r.Context(), org.ID, integrationID, *req.Branch); err != nil {
			log.Printf("❌ Failed to update default branch: %v", err)
			var branchErr *clients.BranchNotFoundError
			switch {
			case errors.As(err, &branchErr):
				h.writeJSONError(w, branchErr.Error(), http.StatusBadRequest)
			case errors.Is(err, integrations.ErrMultiRepoBranchEdit):
				h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			case core.IsNotFoundError(err):
				h.writeJSONError(w, "integration not found", http.StatusNotFound)
			default:
				h.writeJSONError(w, "failed to update default branch", http.StatusInternalServerError)
			}
			return
		}
	}

	if req.Enabled == nil && req.DisplayName == nil && req.Branch != nil {
		// branch-only update; return the current integration
		maybeIntegration, err := h.integrationsService.GetIntegrationByID(r.Context(), org.ID, integrationID)
		if err != nil {
			h.writeJSONError(w, "failed to get integration", http.StatusInternalServerError)
			return
		}
		integration, exists := maybeIntegration.Get()
		if !exists {
			h.writeJSONError(w, "integration not found", http.StatusNotFound)
			return
		}
		h.writeJSONResponse(w, http.StatusOK, integration)
		return
	}

	integration, err := h.integrationsService.UpdateIntegration(
		r.Context(), org.ID, integrationID, req.Enabled, req.DisplayName)
	if err != nil {
		log.Printf("❌ Failed to update integration: %v", err)
		if core.IsNotFoundError(err) {
			h.writeJSONError(w, "integration not found", http.StatusNotFound)
		} else {
			h.writeJSONError(w, "failed to update integration", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Integration updated successfully: %s", integrationID)
	h.writeJSONResponse(w, http.StatusOK, integration)
}

func (h *DashboardHTTPHandler) HandleDeleteIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Delete integration request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	integrationID, ok := vars["integrationID"]
	if !ok || !core.IsValidULID(integrationID) {
		h.writeJSONError(w, "integration ID must be a valid ULID", http.StatusBadRequest)
		return
	}

	if err := h.integrationsService.DeleteIntegration(r.Context(), org.ID, integrationID); err != nil {
		log.Printf("❌ Failed to delete integration: %v", err)
		if core.IsNotFoundError(err) {
			h.writeJSONError(w, "integration not found", http.StatusNotFound)
		} else {
			h.writeJSONError(w, "failed to delete integration", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Integration deleted successfully: %s", integrationID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHTTPHandler) HandleListTriggers(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List triggers request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	triggers, err := h.triggersService.ListTriggers(r.Context(), org.ID)
	if err != nil {
		log.Printf("❌ Failed to list triggers: %v", err)
		h.writeJSONError(w, "failed to list triggers", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, triggers)
}

func (h *DashboardHTTPHandler) HandleCreateTrigger(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Create trigger request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	var req TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	trigger, err := h.triggersService.CreateTrigger(r.Context(), &models.Trigger{
		OrgID:               org.ID,
		Name:                req.Name,
		SourceType:          models.TriggerSourceType(req.SourceType),
		CronExpression:      req.CronExpression,
		EventTypes:          req.EventTypes,
		TargetRepositoryIDs: req.TargetRepositoryIDs,
		OutputType:          models.OutputType(req.OutputType),
		Tone:                req.Tone,
		LookbackDays:        req.LookbackDays,
		Enabled:             enabled,
	})
	if err != nil {
		log.Printf("❌ Failed to create trigger: %v", err)
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("✅ Trigger created successfully: %s", trigger.ID)
	h.writeJSONResponse(w, http.StatusCreated, trigger)
}

func (h *DashboardHTTPHandler) HandleUpdateTrigger(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Update trigger request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	triggerID, ok := vars["triggerID"]
	if !ok || !core.IsValidULID(triggerID) {
		h.writeJSONError(w, "trigger ID must be a valid ULID", http.StatusBadRequest)
		return
	}

	var req TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// An enabled flip is its own operation so the scheduler handle stays in
	// lockstep with the stored row.
	if req.Enabled != nil && req.Name == "" {
		trigger, err := h.triggersService.SetTriggerEnabled(r.Context(), org.ID, triggerID, *req.Enabled)
		if err != nil {
			log.Printf("❌ Failed to set trigger enabled: %v", err)
			if core.IsNotFoundError(err) {
				h.writeJSONError(w, "trigger not found", http.StatusNotFound)
			} else {
				h.writeJSONError(w, "failed to update trigger", http.StatusInternalServerError)
			}
			return
		}
		h.writeJSONResponse(w, http.StatusOK, trigger)
		return
	}

	trigger, err := h.triggersService.UpdateTrigger(r.Context(), &models.Trigger{
		ID:                  triggerID,
		OrgID:               org.ID,
		Name:                req.Name,
		CronExpression:      req.CronExpression,
		EventTypes:          req.EventTypes,
		TargetRepositoryIDs: req.TargetRepositoryIDs,
		OutputType:          models.OutputType(req.OutputType),
		Tone:                req.Tone,
		LookbackDays:        req.LookbackDays,
	})
	if err != nil {
		log.Printf("❌ Failed to update trigger: %v", err)
		if core.IsNotFoundError(err) {
			h.writeJSONError(w, "trigger not found", http.StatusNotFound)
		} else {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	if req.Enabled != nil && trigger.Enabled != *req.Enabled {
		trigger, err = h.triggersService.SetTriggerEnabled(r.Context(), org.ID, triggerID, *req.Enabled)
		if err != nil {
			log.Printf("❌ Failed to set trigger enabled: %v", err)
			h.writeJSONError(w, "failed to update trigger", http.StatusInternalServerError)
			return
		}
	}

	log.Printf("✅ Trigger updated successfully: %s", triggerID)
	h.writeJSONResponse(w, http.StatusOK, trigger)
}

func (h *DashboardHTTPHandler) HandleDeleteTrigger(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Delete trigger request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	triggerID, ok := vars["triggerID"]
	if !ok || !core.IsValidULID(triggerID) {
		h.writeJSONError(w, "trigger ID must be a valid ULID", http.StatusBadRequest)
		return
	}

	if err := h.triggersService.DeleteTrigger(r.Context(), org.ID, triggerID); err != nil {
		log.Printf("❌ Failed to delete trigger: %v", err)
		if core.IsNotFoundError(err) || strings.Contains(err.Error(), "not found") {
			h.writeJSONError(w, "trigger not found", http.StatusNotFound)
		} else {
			h.writeJSONError(w, "failed to delete trigger", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Trigger deleted successfully: %s", triggerID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHTTPHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List posts request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	posts, err := h.postsService.ListPosts(r.Context(), org.ID)
	if err != nil {
		log.Printf("❌ Failed to list posts: %v", err)
		h.writeJSONError(w, "failed to list posts", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, posts)
}

func (h *DashboardHTTPHandler) HandleGetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get notification settings request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	settings, err := h.notificationSettingsService.GetNotificationSettings(r.Context(), org.ID)
	if err != nil {
		log.Printf("❌ Failed to get notification settings: %v", err)
		h.writeJSONError(w, "failed to get notification settings", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, settings)
}

func (h *DashboardHTTPHandler) HandleUpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Update notification settings request received from %s", r.RemoteAddr)

	org, membership, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	// Preferences are owner-editable only
	if membership.Role != models.MembershipRoleOwner {
		log.Printf("❌ User %s is not an owner of organization %s", membership.UserID, org.ID)
		h.writeJSONError(w, "only organization owners can update notification settings", http.StatusForbidden)
		return
	}

	var req NotificationSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	settings, err := h.notificationSettingsService.UpdateNotificationSettings(
		r.Context(), org.ID, req.EmailOnSuccess, req.EmailOnFailure)
	if err != nil {
		log.Printf("❌ Failed to update notification settings: %v", err)
		h.writeJSONError(w, "failed to update notification settings", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Notification settings updated for organization: %s", org.ID)
	h.writeJSONResponse(w, http.StatusOK, settings)
}

func (h *DashboardHTTPHandler) HandleListWebhookLogs(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List webhook logs request received from %s", r.RemoteAddr)

	org, _, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))
	integrationType := models.IntegrationType(query.Get("integrationType"))
	integrationID := query.Get("integrationId")

	logs, err := h.webhookLogsService.ListEntries(
		r.Context(), org.ID, integrationType, integrationID, page, pageSize)
	if err != nil {
		log.Printf("❌ Failed to list webhook logs: %v", err)
		h.writeJSONError(w, "failed to list webhook logs", http.StatusInternalServerError)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, logs)
}

func (h *DashboardHTTPHandler) HandleCreateUpload(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Upload request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	orgID := models.OrgID(r.URL.Query().Get("orgId"))
	if orgID != "" {
		maybeMembership, err := h.organizationsService.GetMembership(r.Context(), orgID, user.ID)
		if err != nil {
			h.writeJSONError(w, "failed to get membership", http.StatusInternalServerError)
			return
		}
		if _, exists := maybeMembership.Get(); !exists {
			h.writeJSONError(w, "not a member of this organization", http.StatusForbidden)
			return
		}
	} else {
		// user-scoped uploads (avatars) key off the user id
		orgID = models.OrgID(user.ID)
	}

	result, err := h.uploadsService.CreatePresignedUpload(
		r.Context(), orgID, req.Type, req.FileName, req.FileType, req.FileSize)
	if err != nil {
		log.Printf("❌ Failed to create presigned upload: %v", err)
		if strings.Contains(err.Error(), "not allowed") ||
			strings.Contains(err.Error(), "exceeds") ||
			strings.Contains(err.Error(), "unknown upload type") ||
			strings.Contains(err.Error(), "must be positive") {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		} else {
			h.writeJSONError(w, "failed to create upload", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Presigned upload created: %s", result.Key)
	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *DashboardHTTPHandler) HandleDeleteUserWithTransfers(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Delete user with transfers request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		h.writeJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req DeleteWithTransfersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.usersService.DeleteUserWithTransfers(r.Context(), user, req.Transfers); err != nil {
		log.Printf("❌ Failed to delete user with transfers: %v", err)
		switch {
		case errors.Is(err, users.ErrNotOwner):
			h.writeJSONError(w, "caller is not an owner of this organization", http.StatusForbidden)
		case errors.Is(err, users.ErrNoTransferTarget):
			h.writeJSONError(w, "no transfer target exists for this organization", http.StatusBadRequest)
		default:
			h.writeJSONError(w, "failed to delete user", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ User deleted successfully: %s", user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering dashboard API endpoints")

	// Integration endpoints
	router.HandleFunc("/organizations/{orgID}/integrations", authMiddleware.WithAuth(h.HandleListIntegrations)).
		Methods("GET")
	log.Printf("✅ GET /organizations/{orgID}/integrations endpoint registered")

	router.HandleFunc("/organizations/{orgID}/integrations", authMiddleware.WithAuth(h.HandleCreateIntegration)).
		Methods("POST")
	log.Printf("✅ POST /organizations/{orgID}/integrations endpoint registered")

	router.HandleFunc("/organizations/{orgID}/integrations/{integrationID}", authMiddleware.WithAuth(h.HandleGetIntegrationByID)).
		Methods("GET")
	log.Printf("✅ GET /organizations/{orgID}/integrations/{integrationID} endpoint registered")

	router.HandleFunc("/organizations/{orgID}/integrations/{integrationID}", authMiddleware.WithAuth(h.HandleUpdateIntegration)).
		Methods("PATCH")
	log.Printf("✅ PATCH /organizations/{orgID}/integrations/{integrationID} endpoint registered")

	router.HandleFunc("/organizations/{orgID}/integrations/{integrationID}", authMiddleware.WithAuth(h.HandleDeleteIntegration)).
		Methods("DELETE")
	log.Printf("✅ DELETE /organizations/{orgID}/integrations/{integrationID} endpoint registered")

	// Trigger endpoints
	router.HandleFunc("/organizations/{orgID}/triggers", authMiddleware.WithAuth(h.HandleListTriggers)).
		Methods("GET")
	log.Printf("✅ GET /organizations/{orgID}/triggers endpoint registered")

	router.HandleFunc("/organizations/{orgID}/triggers", authMiddleware.WithAuth(h.HandleCreateTrigger)).
		Methods("POST")
	log.Printf("✅ POST /organizations/{orgID}/triggers endpoint registered")

	router.HandleFunc("/organizations/{orgID}/triggers/{triggerID}", authMiddleware.WithAuth(h.HandleUpdateTrigger)).
		Methods("PATCH")
	log.Printf("✅ PATCH /organizations/{orgID}/triggers/{triggerID} endpoint registered")

	router.HandleFunc("/organizations/{orgID}/triggers/{triggerID}", authMiddleware.WithAuth(h.HandleDeleteTrigger)).
		Methods("DELETE")
	log.Printf("✅ DELETE /organizations/{orgID}/triggers/{triggerID} endpoint registered")

	// Post endpoints
	router.HandleFunc("/organizations/{orgID}/posts", authMiddleware.WithAuth(h.HandleListPosts)).
		Methods("GET")
	log.Printf("✅ GET /organizations/{orgID}/posts endpoint registered")

	// Notification settings endpoints
	router.HandleFunc("/organizations/{orgID}/notification-settings", authMiddleware.WithAuth(h.HandleGetNotificationSettings)).
		Methods("GET")
	log.Printf("✅ GET /organizations/{orgID}/notification-settings endpoint registered")

	router.HandleFunc("/organizations/{orgID}/notification-settings", authMiddleware.WithAuth(h.HandleUpdateNotificationSettings)).
		Methods("PUT")
	log.Printf("✅ PUT /organizations/{orgID}/notification-settings endpoint registered")

	// Webhook log endpoint
	router.HandleFunc("/organizations/{orgID}/webhook-logs", authMiddleware.WithAuth(h.HandleListWebhookLogs)).
		Methods("GET")
	log.Printf("✅ GET /organizations/{orgID}/webhook-logs endpoint registered")

	// Upload endpoint
	router.HandleFunc("/upload", authMiddleware.WithAuth(h.HandleCreateUpload)).Methods("POST")
	log.Printf("✅ POST /upload endpoint registered")

	// Account deletion endpoint
	router.HandleFunc("/user/delete-with-transfers", authMiddleware.WithAuth(h.HandleDeleteUserWithTransfers)).
		Methods("POST")
	log.Printf("✅ POST /user/delete-with-transfers endpoint registered")

	log.Printf("✅ All dashboard API endpoints registered successfully")
}

func (h *DashboardHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a standardized error response
func (h *DashboardHTTPHandler) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
