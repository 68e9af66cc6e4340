package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/validation"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// bindBody decodes the JSON body into dst and validates it.
func bindBody(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return v.Struct(dst)
}

// pathID returns the named path parameter after checking it is a UUID.
func pathID(c *fiber.Ctx, v *validation.Validator, name string) (string, error) {
	id := c.Params(name)
	if err := v.UUID(name, id); err != nil {
		return "", err
	}
	return id, nil
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}
