package repo

import (
	"context"
	"encoding/json"

	"declutterai/internal/domain"
	"declutterai/internal/infra"
	"declutterai/internal/sqlinline"
)

// UsageEventRepositoryPG persists analytics and generation events.
type UsageEventRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUsageEventRepository creates a new UsageEventRepositoryPG.
func NewUsageEventRepository(executor infra.SQLExecutor) *UsageEventRepositoryPG {
	return &UsageEventRepositoryPG{sql: executor}
}

// Insert records one event. Properties marshal to JSONB; nil becomes {}.
func (r *UsageEventRepositoryPG) Insert(ctx context.Context, event *domain.UsageEvent) error {
	props := event.Properties
	if props == nil {
		props = map[string]any{}
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		event.UserID,
		event.Name,
		event.Success,
		event.LatencyMS,
		event.Country,
		raw,
	)
	return err
}

var _ domain.UsageEventRepository = (*UsageEventRepositoryPG)(nil)
