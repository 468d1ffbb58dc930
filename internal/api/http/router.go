package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/salon-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/salon-admin-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	otp := api.Group("/auth/otp")
	otp.Post("/request", cfg.Auth.RequestOTP)
	otp.Post("/verify", cfg.Auth.VerifyOTP)

	staff := api.Group("/admin/staff", cfg.AuthMiddleware.Handle)
	staff.Post("/", cfg.Staff.Create)
	staff.Get("/", cfg.Staff.List)
	staff.Patch("/", cfg.Staff.Update)
	staff.Delete("/", auth.RequireAdmin(), cfg.Staff.Delete)
}
