package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abcall/issue-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Issues    *handlers.IssuesHandler
	Dashboard *handlers.DashboardHandler
}

// RegisterRoutes wires HTTP routes. The /issue surface dispatches on an
// action path segment; unknown actions answer 404.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/issue/:action", cfg.Issues.HandlePost)
	app.Get("/issue/:action", cfg.Issues.HandleGet)

	app.Get("/issues/find/:user_id", cfg.Issues.FindByUser)
}
