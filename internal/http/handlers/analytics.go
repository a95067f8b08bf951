package handlers

import (
	"encoding/json"
	"net/http"

	"declutterai/internal/domain"
	"declutterai/internal/middleware"
)

type analyticsEventRequest struct {
	Name       string         `json:"name"`
	Success    *bool          `json:"success"`
	LatencyMS  int            `json:"latency_ms"`
	Properties map[string]any `json:"properties"`
}

// AnalyticsEvent records a client-side event. Failures are not surfaced to
// the client beyond a 5xx, analytics must never break the app flow.
func (a *App) AnalyticsEvent(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req analyticsEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name required")
		return
	}
	success := true
	if req.Success != nil {
		success = *req.Success
	}
	if a.UsageEvents == nil {
		a.json(w, http.StatusAccepted, map[string]string{"status": "dropped"})
		return
	}
	event := &domain.UsageEvent{
		UserID:     userID,
		Name:       req.Name,
		Success:    success,
		LatencyMS:  req.LatencyMS,
		Country:    middleware.CountryFromContext(r.Context()),
		Properties: req.Properties,
	}
	if err := a.UsageEvents.Insert(r.Context(), event); err != nil {
		a.Logger.Warn().Err(err).Str("event", req.Name).Msg("analytics insert failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record event")
		return
	}
	a.json(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}
