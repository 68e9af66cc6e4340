package dto

import (
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

// UserRegisterRequest payload for new accounts.
type UserRegisterRequest struct {
	Name     string      `json:"name" validate:"required,notblank"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=6"`
	Type     domain.Role `json:"type" validate:"required,role"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account. The role is exposed as type.
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Type      domain.Role `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ParticipantResponse is an accepted participant of a symposium or event.
type ParticipantResponse struct {
	UserResponse
	JoinedAt time.Time `json:"joined_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Type:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// NewParticipantResponses maps participations.
func NewParticipantResponses(members []domain.Participation) []ParticipantResponse {
	resp := make([]ParticipantResponse, 0, len(members))
	for i := range members {
		resp = append(resp, ParticipantResponse{
			UserResponse: NewUserResponse(&members[i].User),
			JoinedAt:     members[i].JoinedAt,
		})
	}
	return resp
}
