// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"celora/internal/handlers"
	"celora/internal/logger"
	"celora/internal/middleware"
	"celora/internal/models"
	"celora/internal/repositories"
	"celora/internal/services/card"
	"celora/internal/services/ledger"
	"celora/internal/services/risk"
	"celora/internal/services/topup"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Services bundles the wired application services the router needs.
type Services struct {
	Cards        card.Service
	Ledger       ledger.Service
	Topups       topup.Service
	RiskEngine   *risk.Engine
	Links        repositories.LinkRepository
	Transactions repositories.TransactionRepository
	Log          *logger.Logger
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, svcs Services) {
	cardHandler := handlers.NewCardHandler(svcs.Cards, svcs.Ledger, svcs.Topups, svcs.Links)
	txHandler := handlers.NewTransactionHandler(svcs.Cards, svcs.Ledger, svcs.Transactions)
	riskHandler := handlers.NewRiskHandler(svcs.RiskEngine)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/metrics", func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())(c.Context())
		return nil
	})

	api := app.Group("/api")
	auth := middleware.NewAuthMiddleware(svcs.Log)
	authenticated := api.Group("/", auth.Handler)

	cards := authenticated.Group("/cards")
	cards.Post("/", middleware.HasPermission(models.PermissionCardWrite), cardHandler.CreateCard)
	cards.Get("/", middleware.HasPermission(models.PermissionCardRead), cardHandler.ListCards)
	cards.Get("/:id", middleware.HasPermission(models.PermissionCardRead), cardHandler.GetCard)
	cards.Patch("/:id/status", middleware.HasPermission(models.PermissionCardWrite), cardHandler.UpdateStatus)
	cards.Post("/:id/funds", middleware.HasPermission(models.PermissionTransactionWrite), cardHandler.AddFunds)
	cards.Get("/:id/transactions", middleware.HasPermission(models.PermissionTransactionRead), txHandler.ListCardTransactions)
	cards.Post("/:id/link", middleware.HasPermission(models.PermissionCardWrite), cardHandler.CreateLink)
	cards.Post("/:id/topup/evaluate", middleware.HasPermission(models.PermissionTransactionWrite), cardHandler.EvaluateTopup)
	cards.Get("/:id/conversions", middleware.HasPermission(models.PermissionTransactionRead), cardHandler.ListConversions)

	transactions := authenticated.Group("/transactions")
	transactions.Post("/", middleware.HasPermission(models.PermissionTransactionWrite), txHandler.CreateTransaction)
	transactions.Get("/:id", middleware.HasPermission(models.PermissionTransactionRead), txHandler.GetTransaction)
	transactions.Post("/:id/reverse", middleware.HasPermission(models.PermissionAdminWrite), txHandler.ReverseTransaction)

	riskGroup := authenticated.Group("/risk")
	riskGroup.Post("/score", middleware.HasPermission(models.PermissionRiskRead), riskHandler.ScoreEvent)

	admin := authenticated.Group("/admin", middleware.AdminOnly)
	admin.Post("/cards/:id/reconcile", cardHandler.Reconcile)
}
