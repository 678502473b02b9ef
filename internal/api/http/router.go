package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/contracts-service/internal/api/http/handlers"
	"github.com/spec-kit/contracts-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Contracts      *handlers.ContractsHandler
	Jobs           *handlers.JobsHandler
	Balances       *handlers.BalancesHandler
	CallerIdentity *auth.CallerIdentity
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/token", cfg.Auth.IssueToken)

	protected := app.Group("", cfg.CallerIdentity.Handle)
	protected.Get("/contracts/:id", cfg.Contracts.GetContract)
	protected.Get("/contracts", cfg.Contracts.ListContracts)
	protected.Get("/jobs/unpaid", cfg.Jobs.ListUnpaid)
	protected.Post("/jobs/:job_id/pay", cfg.Jobs.Pay)
	protected.Post("/balances/deposit/:userId", cfg.Balances.Deposit)
}
