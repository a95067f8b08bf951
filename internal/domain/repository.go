package domain

import (
	"context"
	"time"
)

// AccountRepository defines the remote account store contract required by the
// usage ledger. All methods may fail with a transport-level error, which the
// ledger treats uniformly as "remote unavailable".
type AccountRepository interface {
	// GetByID fetches an account or ErrNotFound.
	GetByID(ctx context.Context, id string) (*UserAccount, error)
	// Create inserts the account and returns the stored row. Creation is
	// idempotent on the identity provider's user id.
	Create(ctx context.Context, account *UserAccount) (*UserAccount, error)
	// IncrementUsage adds one design to the account's counter as a single
	// server-side atomic operation and returns the post-increment value.
	IncrementUsage(ctx context.Context, id string) (int, error)
	// UpdatePlan persists plan, limit, status and start date as one atomic
	// update keyed by id.
	UpdatePlan(ctx context.Context, id string, plan Plan, limit int, status SubscriptionStatus, startDate *time.Time) (*UserAccount, error)
}

// UsageEventRepository records client analytics and generation events.
type UsageEventRepository interface {
	Insert(ctx context.Context, event *UsageEvent) error
}

// UsageEvent is one recorded client or generation event.
type UsageEvent struct {
	UserID     string
	Name       string
	Success    bool
	LatencyMS  int
	Country    string
	Properties map[string]any
}
