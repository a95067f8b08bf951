package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"declutterai/internal/middleware"
)

func TestAnalyticsEventRecorded(t *testing.T) {
	events := &stubEvents{}
	app := testApp(newStubAccountRepo())
	app.UsageEvents = events

	body := `{"name":"image_upload","success":true,"latency_ms":120,"properties":{"size_kb":480}}`
	r := httptest.NewRequest(http.MethodPost, "/v1/analytics/events", strings.NewReader(body))
	ctx := middleware.ContextWithUserID(r.Context(), "user_1")
	r = r.WithContext(ctx)
	r.Header.Set("CF-IPCountry", "IN")

	rec := httptest.NewRecorder()
	handler := middleware.Geo(nil)(http.HandlerFunc(app.AnalyticsEvent))
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(events.events) != 1 {
		t.Fatalf("events = %+v", events.events)
	}
	got := events.events[0]
	if got.UserID != "user_1" || got.Name != "image_upload" || got.LatencyMS != 120 {
		t.Fatalf("event = %+v", got)
	}
	if got.Country != "IN" {
		t.Fatalf("country = %q, want IN", got.Country)
	}
}

func TestAnalyticsEventValidation(t *testing.T) {
	app := testApp(newStubAccountRepo())

	rec := httptest.NewRecorder()
	app.AnalyticsEvent(rec, httptest.NewRequest(http.MethodPost, "/v1/analytics/events", strings.NewReader(`{"name":"x"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing user status = %d", rec.Code)
	}

	r := httptest.NewRequest(http.MethodPost, "/v1/analytics/events", strings.NewReader(`{}`))
	r = r.WithContext(middleware.ContextWithUserID(r.Context(), "user_1"))
	rec = httptest.NewRecorder()
	app.AnalyticsEvent(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing name status = %d", rec.Code)
	}
}
