package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/api/dto"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/service"
	"github.com/spec-kit/symposium-service/internal/validation"
)

// EventsHandler manages event endpoints.
type EventsHandler struct {
	catalog       *service.CatalogService
	registrations *service.RegistrationService
	validator     *validation.Validator
}

// NewEventsHandler constructs handler.
func NewEventsHandler(catalog *service.CatalogService, registrations *service.RegistrationService, v *validation.Validator) *EventsHandler {
	return &EventsHandler{catalog: catalog, registrations: registrations, validator: v}
}

// Get GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	ev, err := h.catalog.GetEvent(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewEventResponse(ev))
}

// Create POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateEventRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return err
	}

	ev, err := h.catalog.CreateEvent(c.UserContext(), actor, service.EventInput{
		SymposiumID: req.SymposiumID,
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		Level:       req.Level,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewEventResponse(ev))
}

// Update PUT /events/:id.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateEventRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	date, err := dto.ParseOptionalDate("date", req.Date)
	if err != nil {
		return err
	}

	ev, err := h.catalog.UpdateEvent(c.UserContext(), actor, id, service.EventPatch{
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		Level:       req.Level,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewEventResponse(ev))
}

// Delete DELETE /events/:id.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteEvent(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Participants GET /events/:id/participants.
func (h *EventsHandler) Participants(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	members, err := h.registrations.ListEventParticipants(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewParticipantResponses(members))
}

// Register POST /events/:id/registration.
func (h *EventsHandler) Register(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	reg, err := h.registrations.RequestEventRegistration(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return created(c, dto.NewRegistrationResponse(reg))
}

// Decide PUT /events/:eventId/registrations/:registrationId.
func (h *EventsHandler) Decide(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	eventID, err := pathID(c, h.validator, "eventId")
	if err != nil {
		return err
	}
	registrationID, err := pathID(c, h.validator, "registrationId")
	if err != nil {
		return err
	}
	reg, err := h.registrations.DecideEventRegistration(c.UserContext(), actor, eventID, registrationID, req.Status)
	if err != nil {
		return err
	}
	return ok(c, dto.NewRegistrationResponse(reg))
}
