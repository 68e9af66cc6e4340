package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/api/dto"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/service"
	"github.com/spec-kit/symposium-service/internal/validation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SymposiumsHandler manages symposium endpoints.
type SymposiumsHandler struct {
	catalog       *service.CatalogService
	registrations *service.RegistrationService
	exports       *service.ExportService
	validator     *validation.Validator
}

// NewSymposiumsHandler constructs handler.
func NewSymposiumsHandler(catalog *service.CatalogService, registrations *service.RegistrationService, exports *service.ExportService, v *validation.Validator) *SymposiumsHandler {
	return &SymposiumsHandler{catalog: catalog, registrations: registrations, exports: exports, validator: v}
}

// List GET /symposiums.
func (h *SymposiumsHandler) List(c *fiber.Ctx) error {
	list, err := h.catalog.ListSymposiums(c.UserContext())
	if err != nil {
		return err
	}
	return ok(c, dto.NewSymposiumResponses(list))
}

// Get GET /symposiums/:id.
func (h *SymposiumsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	sym, err := h.catalog.GetSymposium(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewSymposiumResponse(sym))
}

// Create POST /symposiums.
func (h *SymposiumsHandler) Create(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateSymposiumRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	start, err := dto.ParseDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := dto.ParseDate("end_date", req.EndDate)
	if err != nil {
		return err
	}

	sym, err := h.catalog.CreateSymposium(c.UserContext(), actor, service.SymposiumInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewSymposiumResponse(sym))
}

// Update PUT /symposiums/:id.
func (h *SymposiumsHandler) Update(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSymposiumRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	start, err := dto.ParseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := dto.ParseOptionalDate("end_date", req.EndDate)
	if err != nil {
		return err
	}

	sym, err := h.catalog.UpdateSymposium(c.UserContext(), actor, id, service.SymposiumPatch{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return ok(c, dto.NewSymposiumResponse(sym))
}

// Delete DELETE /symposiums/:id.
func (h *SymposiumsHandler) Delete(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	if err := h.catalog.DeleteSymposium(c.UserContext(), actor, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Events GET /symposiums/:id/events.
func (h *SymposiumsHandler) Events(c *fiber.Ctx) error {
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	list, err := h.catalog.ListSymposiumEvents(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewEventResponses(list))
}

// Participants GET /symposiums/:id/participants.
func (h *SymposiumsHandler) Participants(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	_, members, err := h.registrations.ListSymposiumParticipants(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewParticipantResponses(members))
}

// ExportParticipants GET /symposiums/:id/participants/export.
func (h *SymposiumsHandler) ExportParticipants(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	name, data, err := h.exports.SymposiumParticipantsXLSX(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(data)
}

// Register POST /symposiums/:id/registration.
func (h *SymposiumsHandler) Register(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	reg, err := h.registrations.RequestSymposiumRegistration(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return created(c, dto.NewRegistrationResponse(reg))
}

// Decide PUT /symposiums/:symposiumId/registrations/:registrationId.
func (h *SymposiumsHandler) Decide(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	var req dto.DecisionRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	symposiumID, err := pathID(c, h.validator, "symposiumId")
	if err != nil {
		return err
	}
	registrationID, err := pathID(c, h.validator, "registrationId")
	if err != nil {
		return err
	}
	reg, err := h.registrations.DecideSymposiumRegistration(c.UserContext(), actor, symposiumID, registrationID, req.Status)
	if err != nil {
		return err
	}
	return ok(c, dto.NewRegistrationResponse(reg))
}
