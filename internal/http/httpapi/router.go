package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"declutterai/internal/http/handlers"
	"declutterai/internal/middleware"
)

type RouterOptions struct {
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.Geo(opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/plans", app.PlansCatalog)
	r.Get("/v1/stats/summary", app.StatsSummary)
	r.Post("/v1/auth/verify", app.AuthClerkVerify)

	// Stripe calls this directly, authentication is the payload signature.
	r.Post("/v1/billing/webhook", app.StripeWebhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Get("/v1/me", app.Me)
		r.Post("/v1/designs/analyze", app.DesignsAnalyze)
		r.Post("/v1/chat", app.DesignChat)
		r.Post("/v1/billing/checkout", app.BillingCheckout)
		r.Post("/v1/analytics/events", app.AnalyticsEvent)
	})

	return r
}
