package ledger

import (
	"sync"

	"declutterai/internal/domain"
)

type snapshot struct {
	plan domain.Plan
	used int
}

// FallbackCache holds a process-local, per-user snapshot of {designsUsed, plan}
// used only to mask transient remote-store failures. It is never authoritative:
// every successful remote read overwrites the entry wholesale, and entries are
// never merged field-by-field with remote data.
type FallbackCache struct {
	mu      sync.Mutex
	entries map[string]snapshot
}

func NewFallbackCache() *FallbackCache {
	return &FallbackCache{entries: make(map[string]snapshot)}
}

// Store overwrites the snapshot for the account from a successful remote read.
func (c *FallbackCache) Store(account *domain.UserAccount) {
	if account == nil || account.ID == "" {
		return
	}
	c.mu.Lock()
	c.entries[account.ID] = snapshot{plan: account.Plan, used: account.DesignsUsed}
	c.mu.Unlock()
}

// SetUsed records a confirmed remote counter value, keeping the cached plan.
func (c *FallbackCache) SetUsed(userID string, used int) {
	c.mu.Lock()
	entry, ok := c.entries[userID]
	if !ok {
		entry = snapshot{plan: domain.PlanFree}
	}
	entry.used = used
	c.entries[userID] = entry
	c.mu.Unlock()
}

// IncrementLocal bumps the locally held counter by one, seeded from the last
// known value, and returns the new count. Used only in degraded mode when the
// remote increment failed.
func (c *FallbackCache) IncrementLocal(userID string) int {
	c.mu.Lock()
	entry, ok := c.entries[userID]
	if !ok {
		entry = snapshot{plan: domain.PlanFree}
	}
	entry.used++
	c.entries[userID] = entry
	c.mu.Unlock()
	return entry.used
}

// Account reconstructs a degraded UserAccount view from the cached snapshot.
// The limit and subscription status are derived from the cached plan.
func (c *FallbackCache) Account(userID string) (*domain.UserAccount, bool) {
	c.mu.Lock()
	entry, ok := c.entries[userID]
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return &domain.UserAccount{
		ID:                 userID,
		Plan:               entry.plan,
		DesignsUsed:        entry.used,
		DesignsLimit:       domain.PlanLimit(entry.plan),
		SubscriptionStatus: domain.PlanStatus(entry.plan),
	}, true
}
