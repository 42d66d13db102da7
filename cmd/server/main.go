// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"celora/internal/config"
	applogger "celora/internal/logger"
	"celora/internal/metrics"
	"celora/internal/repositories"
	"celora/internal/routes"
	"celora/internal/services/audit"
	"celora/internal/services/card"
	"celora/internal/services/funding"
	"celora/internal/services/ledger"
	"celora/internal/services/notification"
	"celora/internal/services/risk"
	"celora/internal/services/topup"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

func main() {
	config.LoadEnv()

	appLog := applogger.New(
		config.GetEnv("LOG_LEVEL", "info"),
		config.GetEnv("APP_ENV", "development"),
	)
	defer appLog.Sync()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			appLog.Warnw("failed to close database connection", "error", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				appLog.Warnw("failed to close redis connection", "error", err)
			}
		}
	}()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	appLog.Infow("connected to database")

	// Repositories
	cardRepo := repositories.NewCardRepository(repositories.DB)
	txRepo := repositories.NewTransactionRepository(repositories.DB)
	linkRepo := repositories.NewLinkRepository(repositories.DB)
	auditRepo := repositories.NewAuditRepository(repositories.DB)
	ledgerStore := repositories.NewLedgerStore(repositories.DB)

	// Risk engine
	signer, err := risk.NewLatticeSigner()
	if err != nil {
		log.Fatalf("Failed to initialize transaction signer: %v", err)
	}
	history := risk.NewPerformanceHistory()
	riskEngine := risk.NewEngine(
		risk.ScoringConfig{
			Name:    "primary",
			Version: 1,
			Network: risk.NewNetwork(int64(config.GetIntEnv("RISK_NETWORK_SEED", 42))),
		},
		risk.DefaultEngineConfig(),
		signer,
		history,
		appLog,
	)

	// Services
	notifier := notification.NewService(appLog)
	auditor := audit.NewService(auditRepo, appLog)

	ledgerSvc := ledger.NewService(
		cardRepo,
		txRepo,
		ledgerStore,
		riskEngine,
		notifier,
		auditor,
		repositories.CacheService,
		metrics.NewLedgerCollector(),
		ledger.Config{},
		appLog,
	)

	cardSvc := card.NewService(
		cardRepo,
		repositories.CacheService,
		ledgerSvc,
		auditor,
		card.Config{DefaultCurrency: config.GetEnv("DEFAULT_CURRENCY", "USD")},
		appLog,
	)
	// High-severity blocks escalate to card suspension; wired after
	// construction so neither service constructs the other.
	ledgerSvc.SetEscalator(cardSvc)

	fundingSource := funding.NewStripeSource(
		config.GetEnv("STRIPE_SECRET_KEY", ""),
		config.GetDurationEnv("FUNDING_TIMEOUT", funding.DefaultTimeout),
	)
	topupSvc := topup.NewService(
		cardRepo,
		linkRepo,
		fundingSource,
		ledgerSvc,
		topup.Config{FeePercent: decimal.NewFromFloat(config.GetFloatEnv("CONVERSION_FEE_PERCENT", 0.01))},
		appLog,
	)

	// Background jobs: a periodic drift sweep over all open cards, and the
	// evolution batch that replaces the scoring network when it degrades.
	jobs := cron.New()
	jobs.AddFunc("@every 10m", func() {
		ids, err := cardRepo.ListActiveIDs()
		if err != nil {
			appLog.Errorw("reconciliation sweep failed to list cards", "error", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		for _, id := range ids {
			if _, err := ledgerSvc.ReconcileCard(ctx, id); err != nil {
				appLog.Warnw("reconciliation failed", "card_id", id, "error", err)
			}
		}
	})
	jobs.AddFunc("@hourly", func() {
		if err := riskEngine.Evolve(risk.CalibrationFitness()); err != nil {
			appLog.WithError(err).Warn("scoring network evolution failed")
		}
	})
	jobs.Start()
	defer jobs.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "celora",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("RATE_LIMIT_PER_MINUTE", 120),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Services{
		Cards:        cardSvc,
		Ledger:       ledgerSvc,
		Topups:       topupSvc,
		RiskEngine:   riskEngine,
		Links:        linkRepo,
		Transactions: txRepo,
		Log:          appLog,
	})

	go func() {
		if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
			appLog.Fatalw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Infow("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.Errorw("graceful shutdown failed", "error", err)
	}
}
