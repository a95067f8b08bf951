package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"declutterai/internal/billing"
	"declutterai/internal/middleware"
)

func TestBillingCheckoutRejectsInvalidPlan(t *testing.T) {
	app := testApp(newStubAccountRepo())
	app.Billing = billing.NewService(billing.Options{
		SecretKey:     "sk_test",
		WebhookSecret: "whsec_test",
		PriceBasic:    "price_basic",
		PricePro:      "price_pro",
	}, app.Ledger, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost, "/v1/billing/checkout", strings.NewReader(`{"plan":"free"}`))
	r = r.WithContext(middleware.ContextWithUserID(r.Context(), "user_1"))
	rec := httptest.NewRecorder()
	app.BillingCheckout(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBillingCheckoutUnavailableWithoutConfig(t *testing.T) {
	app := testApp(newStubAccountRepo())
	app.Billing = billing.NewService(billing.Options{}, app.Ledger, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost, "/v1/billing/checkout", strings.NewReader(`{"plan":"pro"}`))
	r = r.WithContext(middleware.ContextWithUserID(r.Context(), "user_1"))
	rec := httptest.NewRecorder()
	app.BillingCheckout(rec, r)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestBillingCheckoutRequiresUser(t *testing.T) {
	app := testApp(newStubAccountRepo())
	rec := httptest.NewRecorder()
	app.BillingCheckout(rec, httptest.NewRequest(http.MethodPost, "/v1/billing/checkout", strings.NewReader(`{"plan":"pro"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	app := testApp(newStubAccountRepo())
	app.Billing = billing.NewService(billing.Options{
		SecretKey:     "sk_test",
		WebhookSecret: "whsec_test",
	}, app.Ledger, zerolog.Nop())

	r := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", strings.NewReader(`{}`))
	r.Header.Set("Stripe-Signature", "t=1,v1=bad")
	rec := httptest.NewRecorder()
	app.StripeWebhook(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
