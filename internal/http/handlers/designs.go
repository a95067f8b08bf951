package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"declutterai/internal/domain"
	"declutterai/internal/middleware"
	"declutterai/internal/providers/analysis"
)

type designAnalyzeRequest struct {
	ImageBase64  string `json:"image_base64"`
	ImageMIME    string `json:"image_mime"`
	Mode         string `json:"mode"`
	CustomPrompt string `json:"custom_prompt"`
}

type designAnalyzeResponse struct {
	Analysis      *domain.AnalysisResult `json:"analysis"`
	DesignsUsed   int                    `json:"designs_used"`
	DesignsLimit  int                    `json:"designs_limit"`
	UsageRecorded bool                   `json:"usage_recorded"`
}

type gateDeniedResponse struct {
	Error        string `json:"error"`
	Reason       string `json:"reason"`
	DesignsUsed  int    `json:"designs_used"`
	DesignsLimit int    `json:"designs_limit"`
}

// DesignsAnalyze runs one metered generation: the gate is checked against the
// caller's account, the room photo is analyzed, and only a completed analysis
// consumes one design from the allowance.
func (a *App) DesignsAnalyze(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req designAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ImageBase64 == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image_base64 required")
		return
	}
	mode := domain.TransformMode(req.Mode)
	if req.Mode == "" {
		mode = domain.TransformRestyle
	}
	if !domain.ValidTransformMode(mode) {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported transform mode")
		return
	}

	account := a.Ledger.GetOrCreateAccount(r.Context(), userID, "", "")
	if gate := a.Ledger.Gate(account); !gate.Allowed {
		a.json(w, http.StatusForbidden, gateDeniedResponse{
			Error:        "quota_exceeded",
			Reason:       string(gate.Reason),
			DesignsUsed:  account.DesignsUsed,
			DesignsLimit: account.DesignsLimit,
		})
		return
	}

	start := time.Now()
	result, err := a.Analyzer.AnalyzeRoom(r.Context(), analysis.AnalyzeRequest{
		ImageBase64:  req.ImageBase64,
		ImageMIME:    req.ImageMIME,
		Mode:         mode,
		CustomPrompt: req.CustomPrompt,
		Plan:         account.Plan,
	})
	latency := int(time.Since(start).Milliseconds())
	country := middleware.CountryFromContext(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("room analysis failed")
		a.recordEvent(r.Context(), &domain.UsageEvent{
			UserID:     userID,
			Name:       "design_generated",
			Success:    false,
			LatencyMS:  latency,
			Country:    country,
			Properties: map[string]any{"mode": string(mode)},
		})
		a.error(w, http.StatusBadGateway, "provider_failure", "analysis provider unavailable")
		return
	}

	newCount, recorded := a.Ledger.IncrementUsage(r.Context(), userID)
	a.recordEvent(r.Context(), &domain.UsageEvent{
		UserID:    userID,
		Name:      "design_generated",
		Success:   true,
		LatencyMS: latency,
		Country:   country,
		Properties: map[string]any{
			"mode":           string(mode),
			"plan":           string(account.Plan),
			"usage_recorded": recorded,
		},
	})
	a.json(w, http.StatusOK, designAnalyzeResponse{
		Analysis:      result,
		DesignsUsed:   newCount,
		DesignsLimit:  account.DesignsLimit,
		UsageRecorded: recorded,
	})
}
