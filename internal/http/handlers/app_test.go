package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"declutterai/internal/domain"
	"declutterai/internal/ledger"
	"declutterai/internal/providers/analysis"
	"declutterai/internal/providers/chat"
)

type stubAccountRepo struct {
	accounts map[string]*domain.UserAccount
	fail     bool
}

func newStubAccountRepo(seed ...*domain.UserAccount) *stubAccountRepo {
	repo := &stubAccountRepo{accounts: map[string]*domain.UserAccount{}}
	for _, acct := range seed {
		repo.accounts[acct.ID] = acct
	}
	return repo
}

func (s *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.UserAccount, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}
	acct, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *acct
	return &copied, nil
}

func (s *stubAccountRepo) Create(_ context.Context, account *domain.UserAccount) (*domain.UserAccount, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}
	copied := *account
	s.accounts[account.ID] = &copied
	out := copied
	return &out, nil
}

func (s *stubAccountRepo) IncrementUsage(_ context.Context, id string) (int, error) {
	if s.fail {
		return 0, errors.New("connection refused")
	}
	acct, ok := s.accounts[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	acct.DesignsUsed++
	return acct.DesignsUsed, nil
}

func (s *stubAccountRepo) UpdatePlan(_ context.Context, id string, plan domain.Plan, limit int, status domain.SubscriptionStatus, startDate *time.Time) (*domain.UserAccount, error) {
	if s.fail {
		return nil, errors.New("connection refused")
	}
	acct, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	acct.Plan = plan
	acct.DesignsLimit = limit
	acct.SubscriptionStatus = status
	acct.SubscriptionStartDate = startDate
	copied := *acct
	return &copied, nil
}

type stubAnalyzer struct {
	result *domain.AnalysisResult
	err    error
	got    analysis.AnalyzeRequest
}

func (s *stubAnalyzer) AnalyzeRoom(_ context.Context, req analysis.AnalyzeRequest) (*domain.AnalysisResult, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubChat struct {
	reply *domain.ChatMessage
	err   error
	got   chat.ReplyRequest
}

func (s *stubChat) Reply(_ context.Context, req chat.ReplyRequest) (*domain.ChatMessage, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

type stubEvents struct {
	events []*domain.UsageEvent
	err    error
}

func (s *stubEvents) Insert(_ context.Context, event *domain.UsageEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

type stubSQL struct {
	queryRow func(query string, args ...any) pgx.Row
}

func (s *stubSQL) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if s.queryRow == nil {
		return stubRow{}
	}
	return s.queryRow(query, args...)
}

func (s *stubSQL) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("query not supported in stub")
}

func testApp(repo *stubAccountRepo) *App {
	return &App{
		Logger:      zerolog.Nop(),
		JWTSecret:   "secret",
		Ledger:      ledger.New(repo, zerolog.Nop()),
		UsageEvents: &stubEvents{},
	}
}
