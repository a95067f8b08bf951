package handlers

import (
	"encoding/json"
	"net/http"

	"declutterai/internal/domain"
	"declutterai/internal/providers/chat"
)

type chatRequest struct {
	DesignPrompt string               `json:"design_prompt"`
	History      []domain.ChatMessage `json:"history"`
	Message      string               `json:"message"`
}

type chatResponse struct {
	Message *domain.ChatMessage `json:"message"`
}

// DesignChat answers a follow-up question about the user's current design.
// Chat turns are not metered, only generations count against the allowance.
func (a *App) DesignChat(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Message == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "message required")
		return
	}
	account := a.Ledger.GetOrCreateAccount(r.Context(), userID, "", "")
	reply, err := a.Chat.Reply(r.Context(), chat.ReplyRequest{
		Plan:         account.Plan,
		DesignPrompt: req.DesignPrompt,
		History:      req.History,
		Message:      req.Message,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("design chat failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "chat provider unavailable")
		return
	}
	a.json(w, http.StatusOK, chatResponse{Message: reply})
}
