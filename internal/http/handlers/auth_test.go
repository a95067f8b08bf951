package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"declutterai/internal/domain"
	"declutterai/internal/infra/clerk"
	"declutterai/internal/middleware"
)

type stubVerifier struct {
	identity *clerk.Identity
	err      error
}

func (s *stubVerifier) VerifyToken(_ context.Context, _ string) (*clerk.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func TestAuthClerkVerifyCreatesAccount(t *testing.T) {
	repo := newStubAccountRepo()
	app := testApp(repo)
	app.Clerk = &stubVerifier{identity: &clerk.Identity{
		UserID:      "user_1",
		Email:       "u@example.com",
		DisplayName: "Urmila",
	}}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/verify", strings.NewReader(`{"token":"clerk-token"}`))
	app.AuthClerkVerify(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp clerkVerifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	claims, err := middleware.VerifyJWT("secret", resp.Token)
	if err != nil {
		t.Fatalf("session token does not verify: %v", err)
	}
	if claims.Sub != "user_1" || claims.Plan != "free" {
		t.Fatalf("claims = %+v", claims)
	}
	if resp.User.Plan != "free" || resp.User.DesignsLimit != 10 || !resp.User.CanGenerate {
		t.Fatalf("user = %+v", resp.User)
	}
	if _, ok := repo.accounts["user_1"]; !ok {
		t.Fatal("account was not created")
	}
}

func TestAuthClerkVerifyRejectsBadToken(t *testing.T) {
	app := testApp(newStubAccountRepo())
	app.Clerk = &stubVerifier{err: errors.New("bad signature")}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/verify", strings.NewReader(`{"token":"nope"}`))
	app.AuthClerkVerify(rec, r)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuthClerkVerifyServesFallbackWhenStoreDown(t *testing.T) {
	repo := newStubAccountRepo()
	repo.fail = true
	app := testApp(repo)
	app.Clerk = &stubVerifier{identity: &clerk.Identity{UserID: "user_1", Email: "u@example.com"}}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/auth/verify", strings.NewReader(`{"token":"clerk-token"}`))
	app.AuthClerkVerify(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, login must survive a store outage", rec.Code)
	}
	var resp clerkVerifyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Plan != "free" || resp.User.DesignsUsed != 0 {
		t.Fatalf("fallback profile = %+v", resp.User)
	}
}

func TestMeReturnsGateState(t *testing.T) {
	acct := domain.NewAccount("user_1", "u@example.com", "U")
	acct.DesignsUsed = 10
	app := testApp(newStubAccountRepo(acct))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	r = r.WithContext(middleware.ContextWithUserID(r.Context(), "user_1"))
	app.Me(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp accountDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CanGenerate {
		t.Fatal("account at its limit must not be allowed to generate")
	}
	if resp.GateReason != string(domain.GateReasonUpsell) {
		t.Fatalf("gate reason = %q, want upsell", resp.GateReason)
	}
}

func TestMeRequiresUser(t *testing.T) {
	app := testApp(newStubAccountRepo())
	rec := httptest.NewRecorder()
	app.Me(rec, httptest.NewRequest(http.MethodGet, "/v1/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
