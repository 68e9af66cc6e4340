package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/domain"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// Fixed messages returned by the guards.
const (
	MsgOrganizerRequired = "access denied: organizer role required"
	MsgNotOwner          = "access denied: you do not own this resource"
)

// Authorize returns nil when actor holds one of roles. An empty role list
// only requires authentication.
func Authorize(actor domain.AuthContext, roles ...domain.Role) error {
	if actor.UserID == "" {
		return apperrors.NewUnauthorized("authentication required")
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	if len(roles) == 1 && roles[0] == domain.RoleOrganizer {
		return apperrors.NewForbidden(MsgOrganizerRequired)
	}
	return apperrors.NewForbidden("access denied: insufficient role")
}

// AuthorizeOwner returns nil when actor organizes sym.
func AuthorizeOwner(actor domain.AuthContext, sym *domain.Symposium) error {
	if actor.UserID == "" || !sym.OwnedBy(actor.UserID) {
		return apperrors.NewForbidden(MsgNotOwner)
	}
	return nil
}

// RequireRole wraps Authorize for route groups.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := MustFromContext(c)
		if err != nil {
			return err
		}
		if err := Authorize(actor, roles...); err != nil {
			return err
		}
		return c.Next()
	}
}
