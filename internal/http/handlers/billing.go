package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"declutterai/internal/billing"
	"declutterai/internal/domain"
)

type checkoutRequest struct {
	Plan string `json:"plan"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// BillingCheckout opens a Stripe checkout session for a paid plan. The plan
// itself only changes when the completion webhook arrives.
func (a *App) BillingCheckout(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	url, err := a.Billing.CreateCheckoutSession(r.Context(), userID, domain.Plan(req.Plan))
	switch {
	case errors.Is(err, domain.ErrInvalidPlan):
		a.error(w, http.StatusBadRequest, "bad_request", "plan must be basic or pro")
		return
	case errors.Is(err, billing.ErrNotConfigured):
		a.error(w, http.StatusServiceUnavailable, "billing_unavailable", "billing is not configured")
		return
	case err != nil:
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("checkout session failed")
		a.error(w, http.StatusBadGateway, "billing_failure", "failed to start checkout")
		return
	}
	a.json(w, http.StatusOK, checkoutResponse{URL: url})
}

const maxWebhookBody = 1 << 20

// StripeWebhook receives billing events. This is the only path that mutates a
// user's plan, so a handling failure returns 5xx to make Stripe retry.
func (a *App) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable payload")
		return
	}
	if err := a.Billing.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		if errors.Is(err, billing.ErrInvalidEvent) {
			a.Logger.Error().Err(err).Msg("webhook rejected")
			a.error(w, http.StatusBadRequest, "bad_request", "invalid webhook event")
			return
		}
		a.Logger.Error().Err(err).Msg("webhook plan change failed, requesting retry")
		a.error(w, http.StatusInternalServerError, "internal", "plan change not applied")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
