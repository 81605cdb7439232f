package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/creator-platform/internal/api/http/handlers"
	"github.com/spec-kit/creator-platform/internal/auth"
	"github.com/spec-kit/creator-platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Orders            *handlers.OrdersHandler
	Profiles          *handlers.ProfilesHandler
	SessionMiddleware *auth.SessionMiddleware
	LoginPath         string
	ForbiddenPath     string
}

// RegisterRoutes wires HTTP routes. Every route past the session middleware
// carries the per-request identity resolver; the Require* guards redirect at
// the boundary instead of rendering.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	session := app.Group("", cfg.SessionMiddleware.Handle)
	session.Post("/auth/logout", cfg.Auth.Logout)

	// Public discovery surfaces: no identity required.
	session.Get("/creators/top", cfg.Profiles.Top)
	session.Get("/creators/:id", cfg.Profiles.GetCreator)
	session.Get("/creators", cfg.Profiles.Search)

	creators := session.Group("", auth.RequireRole(domain.RoleCreator, cfg.LoginPath, cfg.ForbiddenPath))
	creators.Get("/orders/received", cfg.Orders.ListReceived)
	creators.Patch("/orders/:id/status", cfg.Orders.UpdateStatus)

	authed := session.Group("", auth.RequireAuthenticated(cfg.LoginPath))
	authed.Get("/profiles/:id", cfg.Profiles.Get)
	authed.Patch("/profiles/:id", cfg.Profiles.Update)

	authed.Post("/orders", cfg.Orders.Create)
	authed.Get("/orders/placed", cfg.Orders.ListPlaced)
	authed.Get("/orders/:id", cfg.Orders.Get)
	authed.Post("/orders/:id/cancel", cfg.Orders.Cancel)
}
