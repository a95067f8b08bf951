package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"declutterai/internal/domain"
)

type stubRepo struct {
	accounts map[string]*domain.UserAccount
	fail     bool
	created  int
}

func newStubRepo() *stubRepo {
	return &stubRepo{accounts: make(map[string]*domain.UserAccount)}
}

var errDown = errors.New("connection refused")

func (s *stubRepo) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	if s.fail {
		return nil, errDown
	}
	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *acc
	return &copy, nil
}

func (s *stubRepo) Create(ctx context.Context, account *domain.UserAccount) (*domain.UserAccount, error) {
	if s.fail {
		return nil, errDown
	}
	s.created++
	copy := *account
	s.accounts[account.ID] = &copy
	out := copy
	return &out, nil
}

func (s *stubRepo) IncrementUsage(ctx context.Context, id string) (int, error) {
	if s.fail {
		return 0, errDown
	}
	acc, ok := s.accounts[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	acc.DesignsUsed++
	return acc.DesignsUsed, nil
}

func (s *stubRepo) UpdatePlan(ctx context.Context, id string, plan domain.Plan, limit int, status domain.SubscriptionStatus, startDate *time.Time) (*domain.UserAccount, error) {
	if s.fail {
		return nil, errDown
	}
	acc, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	acc.Plan = plan
	acc.DesignsLimit = limit
	acc.SubscriptionStatus = status
	acc.SubscriptionStartDate = startDate
	copy := *acc
	return &copy, nil
}

func newTestLedger(repo domain.AccountRepository) *Ledger {
	return New(repo, zerolog.Nop())
}

func TestGetOrCreateAccountCreatesFreeDefault(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)

	acc := l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "Alex")
	if acc.Plan != domain.PlanFree || acc.DesignsUsed != 0 || acc.DesignsLimit != 10 {
		t.Fatalf("GetOrCreateAccount() = %+v, want free/0/10", acc)
	}
	if acc.SubscriptionStatus != domain.SubscriptionInactive {
		t.Fatalf("GetOrCreateAccount() status = %q, want inactive", acc.SubscriptionStatus)
	}
	if repo.created != 1 {
		t.Fatalf("repo.created = %d, want 1", repo.created)
	}

	// Second call fetches, does not create again.
	l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "Alex")
	if repo.created != 1 {
		t.Fatalf("repo.created = %d after second call, want 1", repo.created)
	}
}

func TestGetOrCreateAccountFallsBackToCache(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)

	repo.accounts["user_1"] = &domain.UserAccount{
		ID: "user_1", Plan: domain.PlanBasic, DesignsUsed: 7, DesignsLimit: 50,
		SubscriptionStatus: domain.SubscriptionActive,
	}
	l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "Alex")

	repo.fail = true
	acc := l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "Alex")
	if acc.Plan != domain.PlanBasic || acc.DesignsUsed != 7 || acc.DesignsLimit != 50 {
		t.Fatalf("fallback account = %+v, want cached basic/7/50", acc)
	}
	if acc.Email != "a@b.test" {
		t.Fatalf("fallback account email = %q, want caller-provided", acc.Email)
	}
}

func TestGetOrCreateAccountSyntheticDefaultWithoutCache(t *testing.T) {
	repo := newStubRepo()
	repo.fail = true
	l := newTestLedger(repo)

	acc := l.GetOrCreateAccount(context.Background(), "user_9", "x@y.test", "")
	if acc.Plan != domain.PlanFree || acc.DesignsUsed != 0 || acc.DesignsLimit != 10 {
		t.Fatalf("synthetic default = %+v, want free/0/10", acc)
	}
}

func TestIncrementUsageMonotonic(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanFree, DesignsUsed: 0, DesignsLimit: 10}

	prev := 0
	for i := 0; i < 5; i++ {
		got, recorded := l.IncrementUsage(context.Background(), "user_1")
		if !recorded {
			t.Fatalf("IncrementUsage() recorded = false, want true")
		}
		if got != prev+1 {
			t.Fatalf("IncrementUsage() = %d, want %d", got, prev+1)
		}
		prev = got
	}
}

func TestIncrementUsageDegradesAndResyncs(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanFree, DesignsUsed: 4, DesignsLimit: 10}

	// Seed the cache with the last known remote value.
	l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "")

	repo.fail = true
	got, recorded := l.IncrementUsage(context.Background(), "user_1")
	if recorded {
		t.Fatalf("IncrementUsage() recorded = true during outage, want false")
	}
	if got != 5 {
		t.Fatalf("degraded IncrementUsage() = %d, want lastKnown+1 = 5", got)
	}

	// Remote recovers with a lower authoritative count; the next read wins.
	repo.fail = false
	acc := l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "")
	if acc.DesignsUsed != 4 {
		t.Fatalf("resynced count = %d, want remote value 4", acc.DesignsUsed)
	}
}

func TestIncrementUsageDegradedWithoutCacheSeedsFromZero(t *testing.T) {
	repo := newStubRepo()
	repo.fail = true
	l := newTestLedger(repo)

	got, recorded := l.IncrementUsage(context.Background(), "user_null")
	if recorded || got != 1 {
		t.Fatalf("IncrementUsage() = (%d, %v), want (1, false)", got, recorded)
	}
}

func TestApplyPlanChangeUpgrade(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	callTime := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return callTime }
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanFree, DesignsUsed: 2, DesignsLimit: 10, SubscriptionStatus: domain.SubscriptionInactive}

	acc, err := l.ApplyPlanChange(context.Background(), "user_1", domain.PlanPro)
	if err != nil {
		t.Fatalf("ApplyPlanChange() error: %v", err)
	}
	if acc.Plan != domain.PlanPro || acc.DesignsLimit != 130 {
		t.Fatalf("ApplyPlanChange() = %s/%d, want pro/130", acc.Plan, acc.DesignsLimit)
	}
	if acc.SubscriptionStatus != domain.SubscriptionActive {
		t.Fatalf("ApplyPlanChange() status = %q, want active", acc.SubscriptionStatus)
	}
	if acc.SubscriptionStartDate == nil || !acc.SubscriptionStartDate.Equal(callTime) {
		t.Fatalf("ApplyPlanChange() start date = %v, want %v", acc.SubscriptionStartDate, callTime)
	}
}

func TestApplyPlanChangeDowngradeClearsStartDate(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	start := time.Now()
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanPro, DesignsLimit: 130, SubscriptionStatus: domain.SubscriptionActive, SubscriptionStartDate: &start}

	acc, err := l.ApplyPlanChange(context.Background(), "user_1", domain.PlanFree)
	if err != nil {
		t.Fatalf("ApplyPlanChange() error: %v", err)
	}
	if acc.DesignsLimit != 10 || acc.SubscriptionStatus != domain.SubscriptionInactive {
		t.Fatalf("downgrade = %d/%s, want 10/inactive", acc.DesignsLimit, acc.SubscriptionStatus)
	}
	if acc.SubscriptionStartDate != nil {
		t.Fatalf("downgrade start date = %v, want nil", acc.SubscriptionStartDate)
	}
}

func TestApplyPlanChangeInvalidPlan(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanFree, DesignsLimit: 10}

	if _, err := l.ApplyPlanChange(context.Background(), "user_1", domain.Plan("supporter")); !errors.Is(err, domain.ErrInvalidPlan) {
		t.Fatalf("ApplyPlanChange() error = %v, want ErrInvalidPlan", err)
	}
	if repo.accounts["user_1"].Plan != domain.PlanFree {
		t.Fatalf("invalid plan change mutated stored plan to %q", repo.accounts["user_1"].Plan)
	}
}

func TestApplyPlanChangeFailureLeavesStateUntouched(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanFree, DesignsUsed: 3, DesignsLimit: 10, SubscriptionStatus: domain.SubscriptionInactive}
	l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "")

	repo.fail = true
	if _, err := l.ApplyPlanChange(context.Background(), "user_1", domain.PlanPro); err == nil {
		t.Fatalf("ApplyPlanChange() expected error during outage")
	}

	// The fallback view must still report the old plan, not an optimistic one.
	acc := l.GetOrCreateAccount(context.Background(), "user_1", "a@b.test", "")
	if acc.Plan != domain.PlanFree || acc.DesignsLimit != 10 {
		t.Fatalf("after failed change fallback = %s/%d, want free/10", acc.Plan, acc.DesignsLimit)
	}
}

func TestGateScenarioFreeLimitReached(t *testing.T) {
	repo := newStubRepo()
	l := newTestLedger(repo)
	repo.accounts["user_1"] = &domain.UserAccount{ID: "user_1", Plan: domain.PlanFree, DesignsUsed: 9, DesignsLimit: 10}

	got, recorded := l.IncrementUsage(context.Background(), "user_1")
	if !recorded || got != 10 {
		t.Fatalf("IncrementUsage() = (%d, %v), want (10, true)", got, recorded)
	}
	decision := domain.EvaluateGate(got, 10, domain.PlanFree)
	if decision.Allowed {
		t.Fatalf("EvaluateGate(10, 10) allowed, want blocked")
	}
	if decision.Reason != domain.GateReasonUpsell {
		t.Fatalf("EvaluateGate() reason = %q, want upsell", decision.Reason)
	}
}
