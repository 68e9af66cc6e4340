package dto

import (
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

// CreateEventRequest payload.
type CreateEventRequest struct {
	SymposiumID string            `json:"symposium_id" validate:"required,uuid"`
	Name        string            `json:"name" validate:"required,notblank,max=200"`
	Description string            `json:"description"`
	Date        string            `json:"date" validate:"required"`
	StartTime   string            `json:"start_time" validate:"required,hhmm"`
	EndTime     string            `json:"end_time" validate:"required,hhmm"`
	Capacity    int               `json:"capacity" validate:"required,gt=0"`
	Level       domain.EventLevel `json:"level" validate:"required,event_level"`
	Location    string            `json:"location"`
}

// UpdateEventRequest payload. Omitted fields are left unchanged.
type UpdateEventRequest struct {
	Name        *string            `json:"name" validate:"omitempty,notblank,max=200"`
	Description *string            `json:"description"`
	Date        *string            `json:"date"`
	StartTime   *string            `json:"start_time" validate:"omitempty,hhmm"`
	EndTime     *string            `json:"end_time" validate:"omitempty,hhmm"`
	Capacity    *int               `json:"capacity" validate:"omitempty,gt=0"`
	Level       *domain.EventLevel `json:"level" validate:"omitempty,event_level"`
	Location    *string            `json:"location"`
}

// EventResponse response. Date is a calendar date, times are HH:MM.
type EventResponse struct {
	ID          string            `json:"id"`
	SymposiumID string            `json:"symposium_id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Date        string            `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Capacity    int               `json:"capacity"`
	Level       domain.EventLevel `json:"level"`
	Location    string            `json:"location"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func NewEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		SymposiumID: e.SymposiumID,
		Name:        e.Name,
		Description: e.Description,
		Date:        e.Date.Format(DateLayout),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Capacity:    e.Capacity,
		Level:       e.Level,
		Location:    e.Location,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func NewEventResponses(list []domain.Event) []EventResponse {
	resp := make([]EventResponse, 0, len(list))
	for i := range list {
		resp = append(resp, NewEventResponse(&list[i]))
	}
	return resp
}
