package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/repository"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

const authContextKey = "auth_context"

// AuthMiddleware validates bearer tokens and resolves the caller.
type AuthMiddleware struct {
	tokens *TokenManager
	store  repository.Store
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, store repository.Store) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, store: store}
}

// Handle enforces authentication for protected routes. The stored role is
// authoritative over the token's claim.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	user, err := m.store.Users().GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(authContextKey, domain.AuthContext{UserID: user.ID, Email: user.Email, Role: user.Role})
	return c.Next()
}

// FromContext retrieves the authenticated caller.
func FromContext(c *fiber.Ctx) (domain.AuthContext, bool) {
	actor, ok := c.Locals(authContextKey).(domain.AuthContext)
	return actor, ok
}

// MustFromContext retrieves the caller or returns an Unauthorized error.
func MustFromContext(c *fiber.Ctx) (domain.AuthContext, error) {
	actor, ok := FromContext(c)
	if !ok || actor.UserID == "" {
		return domain.AuthContext{}, apperrors.NewUnauthorized("authentication required")
	}
	return actor, nil
}
