package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/symposium-service/internal/api/dto"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/service"
	"github.com/spec-kit/symposium-service/internal/validation"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth      *service.AuthService
	catalog   *service.CatalogService
	validator *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, catalog *service.CatalogService, v *validation.Validator) *UsersHandler {
	return &UsersHandler{auth: authService, catalog: catalog, validator: v}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}

	user, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Type,
	})
	if err != nil {
		return err
	}
	return created(c, dto.NewUserResponse(user))
}

// Login handles POST /login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bindBody(c, h.validator, &req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp, User: dto.NewUserResponse(user)})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return ok(c, items)
}

// MySymposiums handles GET /user/symposiums.
func (h *UsersHandler) MySymposiums(c *fiber.Ctx) error {
	actor, err := auth.MustFromContext(c)
	if err != nil {
		return err
	}
	list, err := h.catalog.ListMySymposiums(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.SymposiumDetailResponse, 0, len(list))
	for i := range list {
		items = append(items, dto.NewSymposiumDetailResponse(&list[i].Symposium, list[i].Events))
	}
	return ok(c, items)
}
