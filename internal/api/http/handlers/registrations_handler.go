package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/api/dto"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/service"
)

// RegistrationsHandler lists registrations across targets.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrations *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrations}
}

// Pending GET /registrations/pending.
func (h *RegistrationsHandler) Pending(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	list, err := h.registrations.ListPendingForOrganizer(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, dto.NewRegistrationResponses(list))
}

// Mine GET /registrations/me.
func (h *RegistrationsHandler) Mine(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	list, err := h.registrations.ListMyRegistrations(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, dto.NewRegistrationResponses(list))
}
