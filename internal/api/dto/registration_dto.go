package dto

import (
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

// DecisionRequest is the organizer's verdict on a registration.
type DecisionRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// RegistrationResponse response. Exactly one of SymposiumID and EventID is set.
type RegistrationResponse struct {
	ID          string                    `json:"id"`
	UserID      string                    `json:"user_id"`
	SymposiumID *string                   `json:"symposium_id"`
	EventID     *string                   `json:"event_id"`
	Status      domain.RegistrationStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	DecidedAt   *time.Time                `json:"decided_at,omitempty"`
}

func NewRegistrationResponse(r *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		SymposiumID: r.SymposiumID,
		EventID:     r.EventID,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		DecidedAt:   r.DecidedAt,
	}
}

func NewRegistrationResponses(list []domain.Registration) []RegistrationResponse {
	resp := make([]RegistrationResponse, 0, len(list))
	for i := range list {
		resp = append(resp, NewRegistrationResponse(&list[i]))
	}
	return resp
}
