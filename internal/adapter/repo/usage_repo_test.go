package repo

import (
	"context"
	"testing"

	"declutterai/internal/domain"
)

func TestUsageEventInsertArgs(t *testing.T) {
	exec := &stubExecutor{}
	r := NewUsageEventRepository(exec)
	err := r.Insert(context.Background(), &domain.UsageEvent{
		UserID:     "user_1",
		Name:       "design_generated",
		Success:    true,
		LatencyMS:  840,
		Country:    "IN",
		Properties: map[string]any{"mode": "restyle"},
	})
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if len(exec.args) != 6 {
		t.Fatalf("Insert() sent %d args, want 6", len(exec.args))
	}
	if exec.args[0] != "user_1" || exec.args[1] != "design_generated" || exec.args[4] != "IN" {
		t.Fatalf("Insert() args = %v", exec.args)
	}
	raw, ok := exec.args[5].([]byte)
	if !ok || string(raw) != `{"mode":"restyle"}` {
		t.Fatalf("Insert() properties = %T %s", exec.args[5], exec.args[5])
	}
}

func TestUsageEventInsertNilProperties(t *testing.T) {
	exec := &stubExecutor{}
	r := NewUsageEventRepository(exec)
	if err := r.Insert(context.Background(), &domain.UsageEvent{UserID: "user_1", Name: "app_open"}); err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	raw, ok := exec.args[5].([]byte)
	if !ok || string(raw) != "{}" {
		t.Fatalf("Insert() properties = %T %s, want {}", exec.args[5], exec.args[5])
	}
}
