package dto

import (
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

// CreateSymposiumRequest payload.
type CreateSymposiumRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Location    string `json:"location"`
}

// UpdateSymposiumRequest payload. Omitted fields are left unchanged.
type UpdateSymposiumRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Location    *string `json:"location"`
}

// SymposiumResponse response.
type SymposiumResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	OrganizerID string    `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SymposiumDetailResponse is a symposium with its events.
type SymposiumDetailResponse struct {
	SymposiumResponse
	Events []EventResponse `json:"events"`
}

func NewSymposiumResponse(s *domain.Symposium) SymposiumResponse {
	return SymposiumResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Location:    s.Location,
		OrganizerID: s.OrganizerID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewSymposiumResponses(list []domain.Symposium) []SymposiumResponse {
	resp := make([]SymposiumResponse, 0, len(list))
	for i := range list {
		resp = append(resp, NewSymposiumResponse(&list[i]))
	}
	return resp
}

func NewSymposiumDetailResponse(s *domain.Symposium, events []domain.Event) SymposiumDetailResponse {
	return SymposiumDetailResponse{
		SymposiumResponse: NewSymposiumResponse(s),
		Events:            NewEventResponses(events),
	}
}
