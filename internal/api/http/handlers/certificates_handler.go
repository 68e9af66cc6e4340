package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/api/dto"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/service"
	"github.com/spec-kit/symposium-service/internal/validation"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// CertificatesHandler manages certificate endpoints.
type CertificatesHandler struct {
	certificates *service.CertificateService
	validator    *validation.Validator
}

// NewCertificatesHandler constructs handler.
func NewCertificatesHandler(certificates *service.CertificateService, v *validation.Validator) *CertificatesHandler {
	return &CertificatesHandler{certificates: certificates, validator: v}
}

// Generate POST /certificates/:id/generate where :id is the symposium.
func (h *CertificatesHandler) Generate(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	symposiumID, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	var req dto.GenerateCertificateRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}
	cert, err := h.certificates.Issue(c.UserContext(), actor, symposiumID, req.UserID)
	if err != nil {
		return err
	}
	return created(c, dto.NewCertificateResponse(cert))
}

// Get GET /certificates/:id.
func (h *CertificatesHandler) Get(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, h.validator, "id")
	if err != nil {
		return err
	}
	cert, err := h.certificates.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return ok(c, dto.NewCertificateResponse(cert))
}

// Mine GET /certificates/me.
func (h *CertificatesHandler) Mine(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	list, err := h.certificates.ListMine(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return ok(c, dto.NewCertificateResponses(list))
}

// Validate GET /validate-certificate/:code.
func (h *CertificatesHandler) Validate(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return apperrors.NewValidationError("invalid request", []apperrors.ValidationDetail{
			{Field: "code", Message: "is required"},
		})
	}
	result, err := h.certificates.Validate(c.UserContext(), code)
	if err != nil {
		return err
	}
	return ok(c, dto.NewCertificateValidationResponse(result))
}
