package handlers

import (
	"net/http"

	"declutterai/internal/domain"
)

type planDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly string   `json:"price_monthly"`
	DesignsLimit int      `json:"designs_limit"`
	Highlights   []string `json:"highlights"`
}

var planCatalog = []planDTO{
	{
		ID:           string(domain.PlanFree),
		Name:         "Free",
		PriceMonthly: "₹0",
		DesignsLimit: domain.PlanLimit(domain.PlanFree),
		Highlights: []string{
			"10 AI room designs",
			"Clutter analysis and quick fixes",
			"Design assistant chat",
		},
	},
	{
		ID:           string(domain.PlanBasic),
		Name:         "Basic",
		PriceMonthly: "₹1,499",
		DesignsLimit: domain.PlanLimit(domain.PlanBasic),
		Highlights: []string{
			"50 AI room designs per month",
			"All transform modes",
			"Detailed furniture suggestions",
		},
	},
	{
		ID:           string(domain.PlanPro),
		Name:         "Pro",
		PriceMonthly: "₹3,499",
		DesignsLimit: domain.PlanLimit(domain.PlanPro),
		Highlights: []string{
			"130 AI room designs per month",
			"Professional designer chat persona",
			"Priority analysis",
		},
	},
}

// PlansCatalog lists the available subscription tiers. Public, no auth.
func (a *App) PlansCatalog(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"plans": planCatalog})
}
