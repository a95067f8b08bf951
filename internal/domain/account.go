package domain

import "time"

// Plan enumerates subscription tiers.
type Plan string

const (
	PlanFree  Plan = "free"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

// SubscriptionStatus mirrors the billing state derived from the plan.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
)

// planLimits is the fixed designs-per-month mapping. DesignsLimit is never set
// independently of the plan.
var planLimits = map[Plan]int{
	PlanFree:  10,
	PlanBasic: 50,
	PlanPro:   130,
}

// ValidPlan reports whether p is a known subscription tier.
func ValidPlan(p Plan) bool {
	_, ok := planLimits[p]
	return ok
}

// PlanLimit returns the monthly design limit for the plan. Unknown plans fall
// back to the free tier limit.
func PlanLimit(p Plan) int {
	if limit, ok := planLimits[p]; ok {
		return limit
	}
	return planLimits[PlanFree]
}

// PlanStatus derives the subscription status from the plan.
func PlanStatus(p Plan) SubscriptionStatus {
	if p == PlanFree {
		return SubscriptionInactive
	}
	return SubscriptionActive
}

// UserAccount is the per-user billing record owned by the remote store. ID is
// the identity provider's stable user id.
type UserAccount struct {
	ID                    string
	Email                 string
	DisplayName           string
	Plan                  Plan
	DesignsUsed           int
	DesignsLimit          int
	SubscriptionStatus    SubscriptionStatus
	SubscriptionStartDate *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsFree reports whether the account is on the free tier.
func (a UserAccount) IsFree() bool {
	return a.Plan == PlanFree
}

// NewAccount returns the default account created the first time an
// authenticated session is observed.
func NewAccount(id, email, displayName string) *UserAccount {
	return &UserAccount{
		ID:                 id,
		Email:              email,
		DisplayName:        displayName,
		Plan:               PlanFree,
		DesignsUsed:        0,
		DesignsLimit:       PlanLimit(PlanFree),
		SubscriptionStatus: SubscriptionInactive,
	}
}
