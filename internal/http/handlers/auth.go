package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"declutterai/internal/middleware"
)

type clerkVerifyRequest struct {
	Token string `json:"token"`
}

type clerkVerifyResponse struct {
	Token string     `json:"token"`
	User  accountDTO `json:"user"`
}

// AuthClerkVerify exchanges a Clerk session token for an API session token
// and the caller's account, creating a free-tier account on first contact.
func (a *App) AuthClerkVerify(w http.ResponseWriter, r *http.Request) {
	var req clerkVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Token == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "token required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	identity, err := a.Clerk.VerifyToken(ctx, req.Token)
	if err != nil {
		a.Logger.Error().Err(err).Msg("clerk verify failed")
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid identity token")
		return
	}
	account := a.Ledger.GetOrCreateAccount(r.Context(), identity.UserID, identity.Email, identity.DisplayName)
	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      account.ID,
		Plan:     string(account.Plan),
		Exp:      time.Now().Add(24 * time.Hour).Unix(),
		Issuer:   "declutterai",
		Audience: "declutterai-clients",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, clerkVerifyResponse{
		Token: token,
		User:  accountToDTO(account, a.Ledger.Gate(account)),
	})
}

// Me returns the caller's account with the current gate state. The read also
// reconciles the local fallback view with the remote store.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	account := a.Ledger.GetOrCreateAccount(r.Context(), userID, "", "")
	a.json(w, http.StatusOK, accountToDTO(account, a.Ledger.Gate(account)))
}
