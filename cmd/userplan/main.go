package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"declutterai/internal/adapter/repo"
	"declutterai/internal/domain"
	"declutterai/internal/infra"
	"declutterai/internal/ledger"
)

// userplan moves an account to another plan from the command line. It is an
// operator escape hatch for support cases; regular plan changes come from
// billing webhooks.
func main() {
	var (
		idFlag   string
		planFlag string
	)

	flag.StringVar(&idFlag, "id", "", "clerk user id to update")
	flag.StringVar(&planFlag, "plan", "", "plan to assign (free, basic, pro)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	plan := domain.Plan(strings.TrimSpace(strings.ToLower(planFlag)))

	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	if !domain.ValidPlan(plan) {
		exitWithError(fmt.Errorf("unsupported plan %q", planFlag))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)
	accounts := repo.NewAccountRepository(runner)
	plans := ledger.New(accounts, logger)

	execCtx, cancelExec := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelExec()
	account, err := plans.ApplyPlanChange(execCtx, userID, plan)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			exitWithError(fmt.Errorf("no account with clerk user id %q", userID))
		}
		exitWithError(fmt.Errorf("plan change failed: %w", err))
	}

	start := "-"
	if account.SubscriptionStartDate != nil {
		start = account.SubscriptionStartDate.Format(time.RFC3339)
	}
	fmt.Printf("user %s now on plan %s (limit %d, status %s, started %s)\n",
		account.ID, account.Plan, account.DesignsLimit, account.SubscriptionStatus, start)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
