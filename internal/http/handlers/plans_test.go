package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlansCatalog(t *testing.T) {
	app := testApp(newStubAccountRepo())
	rec := httptest.NewRecorder()
	app.PlansCatalog(rec, httptest.NewRequest(http.MethodGet, "/v1/plans", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Plans []planDTO `json:"plans"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Plans) != 3 {
		t.Fatalf("len(plans) = %d, want 3", len(resp.Plans))
	}
	limits := map[string]int{"free": 10, "basic": 50, "pro": 130}
	for _, plan := range resp.Plans {
		if want := limits[plan.ID]; plan.DesignsLimit != want {
			t.Fatalf("plan %s limit = %d, want %d", plan.ID, plan.DesignsLimit, want)
		}
		if len(plan.Highlights) == 0 {
			t.Fatalf("plan %s has no highlights", plan.ID)
		}
	}
}
