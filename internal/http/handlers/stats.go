package handlers

import (
	"net/http"

	"declutterai/internal/sqlinline"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QStatsSummary)
	var totalUsers, designsGenerated, paidAccounts, generationSuccess, generationFail, designsLast24 int64
	if err := row.Scan(&totalUsers, &designsGenerated, &paidAccounts, &generationSuccess, &generationFail, &designsLast24); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":        totalUsers,
		"designs_generated":  designsGenerated,
		"paid_accounts":      paidAccounts,
		"generation_success": generationSuccess,
		"generation_fail":    generationFail,
		"designs_last_24h":   designsLast24,
	})
}
