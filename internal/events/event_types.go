package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/symposium-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRegistrationRequested EventType = "registration.requested"
	EventRegistrationDecided   EventType = "registration.decided"
	EventCertificateIssued     EventType = "certificate.issued"
	EventSymposiumDeleted      EventType = "symposium.deleted"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// ActorFrom converts the caller of a service operation.
func ActorFrom(auth domain.AuthContext) Actor {
	return Actor{UserID: auth.UserID, Role: auth.Role}
}

// Event represents a domain event emitted by services. Payload carries the
// JSON encoding of one of the *Payload types below.
type Event struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Actor       Actor           `json:"actor"`
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEvent builds an event with a fresh id and encodes payload.
func NewEvent(eventType EventType, aggregateID string, actor Actor, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Actor:       actor,
		Timestamp:   time.Now().UTC(),
		Payload:     raw,
	}, nil
}

// Decode unmarshals the payload into dest.
func (e Event) Decode(dest any) error {
	return json.Unmarshal(e.Payload, dest)
}

// RegistrationRequestedPayload payload.
type RegistrationRequestedPayload struct {
	RegistrationID string            `json:"registration_id"`
	UserID         string            `json:"user_id"`
	TargetKind     domain.TargetKind `json:"target_kind"`
	TargetID       string            `json:"target_id"`
}

// RegistrationDecidedPayload payload.
type RegistrationDecidedPayload struct {
	RegistrationID string                    `json:"registration_id"`
	UserID         string                    `json:"user_id"`
	TargetKind     domain.TargetKind         `json:"target_kind"`
	TargetID       string                    `json:"target_id"`
	OldStatus      domain.RegistrationStatus `json:"old_status"`
	NewStatus      domain.RegistrationStatus `json:"new_status"`
}

// CertificateIssuedPayload payload.
type CertificateIssuedPayload struct {
	CertificateID string `json:"certificate_id"`
	UserID        string `json:"user_id"`
	SymposiumID   string `json:"symposium_id"`
	Code          string `json:"code"`
}

// SymposiumDeletedPayload payload.
type SymposiumDeletedPayload struct {
	SymposiumID string `json:"symposium_id"`
	Name        string `json:"name"`
}
