package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/api/http/handlers"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Symposiums     *handlers.SymposiumsHandler
	Events         *handlers.EventsHandler
	Registrations  *handlers.RegistrationsHandler
	Certificates   *handlers.CertificatesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authn := cfg.AuthMiddleware.Handle
	organizer := auth.RequireRole(domain.RoleOrganizer)

	app.Post("/users", cfg.Users.Register)
	app.Post("/login", cfg.Users.Login)
	app.Get("/users", cfg.Users.List)
	app.Get("/user/symposiums", authn, cfg.Users.MySymposiums)

	app.Get("/symposiums", cfg.Symposiums.List)
	app.Get("/symposiums/:id", cfg.Symposiums.Get)
	app.Get("/symposiums/:id/events", cfg.Symposiums.Events)
	app.Post("/symposiums", authn, organizer, cfg.Symposiums.Create)
	app.Put("/symposiums/:id", authn, organizer, cfg.Symposiums.Update)
	app.Delete("/symposiums/:id", authn, organizer, cfg.Symposiums.Delete)
	app.Get("/symposiums/:id/participants", authn, organizer, cfg.Symposiums.Participants)
	app.Get("/symposiums/:id/participants/export", authn, organizer, cfg.Symposiums.ExportParticipants)
	app.Post("/symposiums/:id/registration", authn, cfg.Symposiums.Register)
	app.Put("/symposiums/:symposiumId/registrations/:registrationId", authn, cfg.Symposiums.Decide)

	app.Get("/events/:id", cfg.Events.Get)
	app.Post("/events", authn, organizer, cfg.Events.Create)
	app.Put("/events/:id", authn, organizer, cfg.Events.Update)
	app.Delete("/events/:id", authn, organizer, cfg.Events.Delete)
	app.Get("/events/:id/participants", authn, organizer, cfg.Events.Participants)
	app.Post("/events/:id/registration", authn, cfg.Events.Register)
	app.Put("/events/:eventId/registrations/:registrationId", authn, cfg.Events.Decide)

	app.Get("/registrations/pending", authn, organizer, cfg.Registrations.Pending)
	app.Get("/registrations/me", authn, cfg.Registrations.Mine)

	app.Get("/certificates/me", authn, cfg.Certificates.Mine)
	app.Get("/certificates/:id", authn, cfg.Certificates.Get)
	app.Post("/certificates/:id/generate", authn, organizer, cfg.Certificates.Generate)
	app.Get("/validate-certificate/:code", cfg.Certificates.Validate)
}
