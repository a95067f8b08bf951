package repo

import (
	"context"
	"database/sql"
	"time"

	"declutterai/internal/domain"
	"declutterai/internal/infra"
	"declutterai/internal/sqlinline"
)

// AccountRepositoryPG implements domain.AccountRepository backed by PostgreSQL.
// The usage increment is a single server-side UPDATE so concurrent sessions
// for the same user cannot lose updates.
type AccountRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAccountRepository creates a new AccountRepositoryPG.
func NewAccountRepository(executor infra.SQLExecutor) *AccountRepositoryPG {
	return &AccountRepositoryPG{sql: executor}
}

// GetByID fetches an account by the identity provider's user id.
func (r *AccountRepositoryPG) GetByID(ctx context.Context, id string) (*domain.UserAccount, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAccountByID, id)
	return scanAccount(row)
}

// Create inserts the account, or returns the existing row when the user id is
// already known. Keyed by the identity provider's user id.
func (r *AccountRepositoryPG) Create(ctx context.Context, account *domain.UserAccount) (*domain.UserAccount, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertAccount,
		account.ID,
		account.Email,
		account.DisplayName,
		string(account.Plan),
		account.DesignsUsed,
		account.DesignsLimit,
		string(account.SubscriptionStatus),
	)
	return scanAccount(row)
}

// IncrementUsage atomically adds one design and returns the new counter value.
func (r *AccountRepositoryPG) IncrementUsage(ctx context.Context, id string) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QIncrementDesignsUsed, id)
	var used int
	if err := row.Scan(&used); err != nil {
		if infra.IsNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return used, nil
}

// UpdatePlan persists the plan-change field group as one atomic update.
func (r *AccountRepositoryPG) UpdatePlan(ctx context.Context, id string, plan domain.Plan, limit int, status domain.SubscriptionStatus, startDate *time.Time) (*domain.UserAccount, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateAccountPlan, id, string(plan), limit, string(status), startDate)
	return scanAccount(row)
}

var _ domain.AccountRepository = (*AccountRepositoryPG)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*domain.UserAccount, error) {
	var (
		acc       domain.UserAccount
		plan      string
		status    string
		startDate sql.NullTime
	)
	if err := row.Scan(
		&acc.ID,
		&acc.Email,
		&acc.DisplayName,
		&plan,
		&acc.DesignsUsed,
		&acc.DesignsLimit,
		&status,
		&startDate,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	acc.Plan = domain.Plan(plan)
	acc.SubscriptionStatus = domain.SubscriptionStatus(status)
	if startDate.Valid {
		t := startDate.Time
		acc.SubscriptionStartDate = &t
	}
	return &acc, nil
}
