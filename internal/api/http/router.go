package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-orders/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-orders/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Hours          *handlers.HoursHandler
	Orders         *handlers.OrdersHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/hours/status", cfg.Hours.Status)
	app.Get("/hours/next-opening", cfg.Hours.NextOpening)

	customer := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleCustomer, auth.RoleAdmin))
	customer.Post("/orders", cfg.Orders.CreateOrder)
	customer.Get("/orders", cfg.Orders.ListOrders)
	customer.Get("/orders/:id", cfg.Orders.GetOrder)
	customer.Post("/reservations", cfg.Orders.CreateReservation)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(auth.RoleAdmin))
	admin.Post("/orders/:id/confirm", cfg.Admin.ConfirmOrder)
	admin.Patch("/orders/:id/extra-minutes", cfg.Admin.PatchExtraMinutes)
	admin.Post("/orders/:id/seen", cfg.Admin.MarkOrderSeen)
	admin.Post("/orders/:id/cancel", cfg.Admin.CancelOrder)
	admin.Post("/reservations/:id/confirm", cfg.Admin.ConfirmReservation)
	admin.Post("/reservations/:id/seen", cfg.Admin.MarkReservationSeen)
	admin.Post("/reservations/:id/cancel", cfg.Admin.CancelReservation)
	admin.Put("/schedule", cfg.Admin.UpdateSchedule)
}
