package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taqh/notra-sub001/core"
	"github.com/taqh/notra-sub001/middleware"
	"github.com/taqh/notra-sub001/models"
	"github.com/taqh/notra-sub001/usecases/automation"
)

// AutomationHTTPHandler exposes the manual run endpoint for the dashboard and
// the execution callback invoked by the external scheduler.
type AutomationHTTPHandler struct {
	dashboard     *DashboardHTTPHandler
	automation    *automation.AutomationUseCase
	callbackToken string
}

func NewAutomationHTTPHandler(
	dashboard *DashboardHTTPHandler,
	automationUseCase *automation.AutomationUseCase,
	callbackToken string,
) *AutomationHTTPHandler {
	return &AutomationHTTPHandler{
		dashboard:     dashboard,
		automation:    automationUseCase,
		callbackToken: callbackToken,
	}
}

type ExecuteTriggerRequest struct {
	TriggerID string `json:"triggerId"`
	Manual    bool   `json:"manual"`
}

type RunTriggerResponse struct {
	Success       bool   `json:"success"`
	WorkflowRunID string `json:"workflowRunId"`
	Message       string `json:"message"`
}

func (h *AutomationHTTPHandler) HandleRunTriggerNow(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Manual trigger run request received from %s", r.RemoteAddr)

	org, _, ok := h.dashboard.resolveOrganization(w, r)
	if !ok {
		return
	}

	triggerID := r.URL.Query().Get("triggerId")
	if !core.IsValidULID(triggerID) {
		h.dashboard.writeJSONError(w, "triggerId must be a valid ULID", http.StatusBadRequest)
		return
	}

	entry, err := h.automation.RunTriggerNow(r.Context(), org, triggerID)
	if err != nil {
		log.Printf("❌ Failed to run trigger: %v", err)
		switch {
		case errors.Is(err, automation.ErrTriggerDisabled):
			h.dashboard.writeJSONError(w, "trigger is disabled", http.StatusBadRequest)
		case core.IsNotFoundError(err):
			h.dashboard.writeJSONError(w, "trigger not found", http.StatusNotFound)
		default:
			h.dashboard.writeJSONError(w, "failed to run trigger", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Trigger run enqueued: %s", entry.ReferenceID)
	h.dashboard.writeJSONResponse(w, http.StatusOK, RunTriggerResponse{
		Success:       true,
		WorkflowRunID: entry.ReferenceID,
		Message:       entry.Title,
	})
}

// HandleExecuteTrigger is the scheduler callback. It authenticates with a
// shared token, not a user session.
func (h *AutomationHTTPHandler) HandleExecuteTrigger(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Trigger execution callback received from %s", r.RemoteAddr)

	token := r.Header.Get("X-Callback-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.callbackToken)) != 1 {
		log.Printf("❌ Invalid callback token")
		h.dashboard.writeJSONError(w, "invalid callback token", http.StatusUnauthorized)
		return
	}

	orgID := models.OrgID(r.URL.Query().Get("orgId"))
	if !core.IsValidULID(string(orgID)) {
		h.dashboard.writeJSONError(w, "orgId must be a valid ULID", http.StatusBadRequest)
		return
	}

	var req ExecuteTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.dashboard.writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !core.IsValidULID(req.TriggerID) {
		h.dashboard.writeJSONError(w, "triggerId must be a valid ULID", http.StatusBadRequest)
		return
	}

	result, err := h.automation.ExecuteTrigger(r.Context(), orgID, req.TriggerID, req.Manual)
	if err != nil {
		log.Printf("❌ Failed to execute trigger: %v", err)
		switch {
		case errors.Is(err, automation.ErrTriggerDisabled):
			// Schedule fired for a since-disabled trigger; nothing to run.
			h.dashboard.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "skipped"})
		case core.IsNotFoundError(err):
			h.dashboard.writeJSONError(w, "trigger not found", http.StatusNotFound)
		default:
			h.dashboard.writeJSONError(w, "failed to execute trigger", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Trigger executed with status: %s", result.Status)
	h.dashboard.writeJSONResponse(w, http.StatusOK, result)
}

func (h *AutomationHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.ClerkAuthMiddleware) {
	log.Printf("🚀 Registering automation API endpoints")

	router.HandleFunc("/organizations/{orgID}/automation/schedules/run", authMiddleware.WithAuth(h.HandleRunTriggerNow)).
		Methods("POST")
	log.Printf("✅ POST /organizations/{orgID}/automation/schedules/run endpoint registered")

	router.HandleFunc("/automation/execute", h.HandleExecuteTrigger).Methods("POST")
	log.Printf("✅ POST /automation/execute endpoint registered")

	log.Printf("✅ All automation API endpoints registered successfully")
}
