// Package ledger owns the per-user counter of AI generations and the
// plan-derived gate deciding whether a new generation may proceed. It
// reconciles against the remote account store and degrades to a local
// fallback cache when the store is unreachable.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"declutterai/internal/domain"
)

// Ledger answers "may this user generate one more design?" and durably records
// each successful generation, tolerating remote-store failures without
// blocking the user experience.
type Ledger struct {
	repo   domain.AccountRepository
	cache  *FallbackCache
	logger zerolog.Logger
	now    func() time.Time
}

func New(repo domain.AccountRepository, logger zerolog.Logger) *Ledger {
	return &Ledger{
		repo:   repo,
		cache:  NewFallbackCache(),
		logger: logger,
		now:    time.Now,
	}
}

// GetOrCreateAccount looks up the account for the identity provider's user id,
// creating a free-tier account on first contact. When the remote store is
// unreachable it falls back to the cached snapshot for the user, or to a
// synthetic free-tier default when no snapshot exists. A successful remote
// read is authoritative and overwrites the cache, even when the remote count
// is lower than a locally guessed one.
func (l *Ledger) GetOrCreateAccount(ctx context.Context, userID, email, displayName string) *domain.UserAccount {
	account, err := l.repo.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		account, err = l.repo.Create(ctx, domain.NewAccount(userID, email, displayName))
	}
	if err != nil {
		l.logger.Warn().Err(err).Str("user_id", userID).Msg("account store unreachable, serving fallback")
		if cached, ok := l.cache.Account(userID); ok {
			cached.Email = email
			cached.DisplayName = displayName
			return cached
		}
		return domain.NewAccount(userID, email, displayName)
	}
	l.cache.Store(account)
	return account
}

// Gate evaluates the allow/deny decision for the account's current usage.
func (l *Ledger) Gate(account *domain.UserAccount) domain.GateDecision {
	return domain.EvaluateGate(account.DesignsUsed, account.DesignsLimit, account.Plan)
}

// IncrementUsage records one completed generation. The remote increment is a
// single server-side atomic operation; on failure the ledger degrades to a
// local count seeded from the last known value and reports recorded=false so
// callers can show a non-blocking "not confirmed saved" indication. The remote
// write is never retried here: a timeout may have landed, and retrying would
// double-count. The next successful GetOrCreateAccount resynchronizes.
func (l *Ledger) IncrementUsage(ctx context.Context, userID string) (newCount int, recorded bool) {
	count, err := l.repo.IncrementUsage(ctx, userID)
	if err != nil {
		newCount = l.cache.IncrementLocal(userID)
		l.logger.Warn().Err(err).Str("user_id", userID).Int("local_count", newCount).Msg("usage increment degraded to local counter")
		return newCount, false
	}
	l.cache.SetUsed(userID, count)
	return count, true
}

// ApplyPlanChange moves the account to newPlan, deriving the design limit,
// subscription status and start date, and persists all four fields as one
// atomic update. On failure nothing is applied locally either: a plan change
// that did not durably land must surface to the caller rather than leave the
// UI believing an upgrade succeeded while billing state did not.
func (l *Ledger) ApplyPlanChange(ctx context.Context, userID string, newPlan domain.Plan) (*domain.UserAccount, error) {
	if !domain.ValidPlan(newPlan) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPlan, newPlan)
	}
	limit := domain.PlanLimit(newPlan)
	status := domain.PlanStatus(newPlan)
	var startDate *time.Time
	if newPlan != domain.PlanFree {
		t := l.now()
		startDate = &t
	}
	account, err := l.repo.UpdatePlan(ctx, userID, newPlan, limit, status, startDate)
	if err != nil {
		return nil, fmt.Errorf("apply plan change: %w", err)
	}
	l.cache.Store(account)
	return account, nil
}
