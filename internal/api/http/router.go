package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sisyflow/sisyflow/internal/api/http/handlers"
	"github.com/sisyflow/sisyflow/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Profiles      *handlers.ProfilesHandler
	Users         *handlers.UsersHandler
	Tickets       *handlers.TicketsHandler
	AI            *handlers.AIHandler
	AIErrors      *handlers.AIErrorsHandler
	Documentation *handlers.DocumentationHandler
	Session       *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. The session middleware guards everything
// except its public-path set; unauthenticated page requests redirect to
// /login while API requests get 401 JSON.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.Session.Handle)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/sign-in", cfg.Auth.SignIn)
	authGroup.Post("/sign-out", cfg.Auth.SignOut)

	app.Get("/api/profiles/me", cfg.Profiles.Me)

	tickets := app.Group("/api/tickets")
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Put("/:id/assignee", cfg.Tickets.UpdateAssignee)

	sessions := app.Group("/api/ai-suggestion-sessions")
	sessions.Post("/analyze", cfg.AI.Analyze)
	sessions.Post("", cfg.AI.CreateSession)

	app.Get("/api/users", cfg.Users.ListUsers)
	app.Delete("/api/users/:id", auth.RequireAdmin(), cfg.Users.DeleteUser)

	app.Get("/api/ai-errors", auth.RequireAdmin(), cfg.AIErrors.ListErrors)

	app.Get("/api/project-documentation", cfg.Documentation.GetDocumentation)
	app.Put("/api/project-documentation", auth.RequireAdmin(), cfg.Documentation.UpdateDocumentation)
}
