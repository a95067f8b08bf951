package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"declutterai/internal/billing"
	"declutterai/internal/domain"
	"declutterai/internal/infra"
	"declutterai/internal/infra/clerk"
	"declutterai/internal/ledger"
	"declutterai/internal/middleware"
	"declutterai/internal/providers/analysis"
	"declutterai/internal/providers/chat"
)

// IdentityVerifier validates an identity provider token and returns the
// verified identity.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (*clerk.Identity, error)
}

type App struct {
	SQL         infra.SQLExecutor
	Logger      zerolog.Logger
	JWTSecret   string
	Clerk       IdentityVerifier
	Ledger      *ledger.Ledger
	Analyzer    analysis.RoomAnalyzer
	Chat        chat.DesignChat
	Billing     *billing.Service
	UsageEvents domain.UsageEventRepository
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// recordEvent writes a usage event without failing the request when the
// analytics store is down.
func (a *App) recordEvent(ctx context.Context, event *domain.UsageEvent) {
	if a.UsageEvents == nil {
		return
	}
	if err := a.UsageEvents.Insert(ctx, event); err != nil {
		a.Logger.Warn().Err(err).Str("event", event.Name).Msg("usage event insert failed")
	}
}

type accountDTO struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	DisplayName           string     `json:"display_name"`
	Plan                  string     `json:"plan"`
	DesignsUsed           int        `json:"designs_used"`
	DesignsLimit          int        `json:"designs_limit"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date,omitempty"`
	CanGenerate           bool       `json:"can_generate"`
	GateReason            string     `json:"gate_reason,omitempty"`
}

func accountToDTO(account *domain.UserAccount, gate domain.GateDecision) accountDTO {
	return accountDTO{
		ID:                    account.ID,
		Email:                 account.Email,
		DisplayName:           account.DisplayName,
		Plan:                  string(account.Plan),
		DesignsUsed:           account.DesignsUsed,
		DesignsLimit:          account.DesignsLimit,
		SubscriptionStatus:    string(account.SubscriptionStatus),
		SubscriptionStartDate: account.SubscriptionStartDate,
		CanGenerate:           gate.Allowed,
		GateReason:            string(gate.Reason),
	}
}
