package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketdesk/ticketdesk/internal/api/http/handlers"
	"github.com/ticketdesk/ticketdesk/internal/auth"
	"github.com/ticketdesk/ticketdesk/internal/policy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Tickets    *handlers.TicketsHandler
	Comments   *handlers.CommentsHandler
	Roles      *handlers.RolesHandler
	Middleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Role gates are declared here per
// operation so the access rules are auditable in one place; ownership checks
// live in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	tickets := app.Group("/tickets", cfg.Middleware.Handle, auth.RequireAuthenticated())
	tickets.Post("", auth.RequireAction(policy.ActionCreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/assign", auth.RequireAction(policy.ActionAssignTicket), cfg.Tickets.AssignTicket)
	tickets.Patch("/:id/status", auth.RequireAction(policy.ActionChangeStatus), cfg.Tickets.UpdateStatus)
	tickets.Delete("/:id", auth.RequireAction(policy.ActionDeleteTicket), cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/status-log", cfg.Tickets.ListStatusLog)

	tickets.Post("/:id/comments", cfg.Comments.AddComment)
	tickets.Get("/:id/comments", cfg.Comments.ListComments)

	comments := app.Group("/comments", cfg.Middleware.Handle, auth.RequireAuthenticated())
	comments.Patch("/:id", cfg.Comments.EditComment)
	comments.Delete("/:id", cfg.Comments.DeleteComment)

	roles := app.Group("/roles", cfg.Middleware.Handle, auth.RequireAction(policy.ActionManageRoles))
	roles.Get("", cfg.Roles.ListRoles)
	roles.Get("/:id", cfg.Roles.GetRole)
	roles.Post("", cfg.Roles.CreateRole)
	roles.Put("/:id", cfg.Roles.UpdateRole)
	roles.Delete("/:id", cfg.Roles.DeleteRole)
}
