package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"declutterai/internal/adapter/repo"
	"declutterai/internal/billing"
	"declutterai/internal/http/handlers"
	httpapi "declutterai/internal/http/httpapi"
	"declutterai/internal/infra"
	"declutterai/internal/infra/clerk"
	"declutterai/internal/infra/credentials"
	"declutterai/internal/infra/geoip"
	"declutterai/internal/ledger"
	"declutterai/internal/middleware"
	"declutterai/internal/providers/analysis"
	"declutterai/internal/providers/chat"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	accounts := repo.NewAccountRepository(runner)
	usageEvents := repo.NewUsageEventRepository(runner)
	usage := ledger.New(accounts, logger)

	// The Gemini key may live in the database instead of the environment.
	geminiKey := cfg.GeminiAPIKey
	if geminiKey == "" {
		store := credentials.NewStore(runner)
		keyCtx, cancelKey := context.WithTimeout(ctx, 5*time.Second)
		if stored, err := store.GeminiAPIKey(keyCtx); err != nil {
			logger.Warn().Err(err).Msg("failed to load gemini key from store")
		} else {
			geminiKey = stored
		}
		cancelKey()
	}

	fallback := analysis.NewStaticAnalyzer()
	var analyzer analysis.RoomAnalyzer = fallback
	var designChat chat.DesignChat
	if geminiKey != "" {
		gemini, err := analysis.NewGeminiAnalyzer(analysis.GeminiOptions{
			APIKey:   geminiKey,
			Model:    cfg.GeminiModel,
			BaseURL:  cfg.GeminiBaseURL,
			Fallback: fallback,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build analyzer")
		}
		analyzer = gemini
		designChat, err = chat.NewGeminiChat(chat.GeminiOptions{
			APIKey:  geminiKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build design chat")
		}
	} else {
		logger.Warn().Msg("no gemini key configured, serving static analysis only")
		designChat = chat.Unavailable{}
	}

	verifier := clerk.NewVerifier(cfg.ClerkIssuer, cfg.ClerkAudience)

	billingSvc := billing.NewService(billing.Options{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		PriceBasic:    cfg.StripePriceBasic,
		PricePro:      cfg.StripePricePro,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
	}, usage, logger)

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	app := &handlers.App{
		SQL:         runner,
		Logger:      logger,
		JWTSecret:   cfg.JWTSecret,
		Clerk:       verifier,
		Ledger:      usage,
		Analyzer:    analyzer,
		Chat:        designChat,
		Billing:     billingSvc,
		UsageEvents: usageEvents,
	}

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		CountryLookup:   countryLookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
