package domain

import (
	"errors"
	"fmt"
	"time"
)

// RegistrationStatus enumerates lifecycle states for registrations.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationAccepted RegistrationStatus = "accepted"
	RegistrationRejected RegistrationStatus = "rejected"
)

var (
	// ErrInvalidDecision is returned for decisions other than accepted or rejected.
	ErrInvalidDecision = errors.New("decision must be accepted or rejected")
	// ErrRegistrationDecided is returned when a decided registration is asked to change state.
	ErrRegistrationDecided = errors.New("registration already decided")
)

// ParseDecision converts organizer input into a terminal status.
func ParseDecision(raw string) (RegistrationStatus, error) {
	switch RegistrationStatus(raw) {
	case RegistrationAccepted:
		return RegistrationAccepted, nil
	case RegistrationRejected:
		return RegistrationRejected, nil
	case RegistrationPending:
		return "", ErrInvalidDecision
	}
	return "", ErrInvalidDecision
}

// Terminal reports whether no transition leaves s.
func (s RegistrationStatus) Terminal() bool {
	switch s {
	case RegistrationAccepted, RegistrationRejected:
		return true
	case RegistrationPending:
		return false
	}
	return false
}

// Decide applies decision to s. changed is false when s already equals the
// decision, which makes repeated decisions idempotent.
func (s RegistrationStatus) Decide(decision RegistrationStatus) (next RegistrationStatus, changed bool, err error) {
	if !decision.Terminal() {
		return s, false, ErrInvalidDecision
	}
	switch s {
	case RegistrationPending:
		return decision, true, nil
	case RegistrationAccepted, RegistrationRejected:
		if s == decision {
			return s, false, nil
		}
		return s, false, ErrRegistrationDecided
	}
	return s, false, fmt.Errorf("unknown registration status %q", s)
}

// TargetKind distinguishes symposium registrations from event registrations.
type TargetKind string

const (
	TargetSymposium TargetKind = "symposium"
	TargetEvent     TargetKind = "event"
)

// Registration is one user's request to join one symposium or one event.
// Exactly one of SymposiumID and EventID is set.
type Registration struct {
	ID          string
	UserID      string
	SymposiumID *string
	EventID     *string
	Status      RegistrationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DecidedAt   *time.Time
}

// NewSymposiumRegistration builds a pending request for a symposium.
func NewSymposiumRegistration(userID, symposiumID string) *Registration {
	return &Registration{UserID: userID, SymposiumID: &symposiumID, Status: RegistrationPending}
}

// NewEventRegistration builds a pending request for an event.
func NewEventRegistration(userID, eventID string) *Registration {
	return &Registration{UserID: userID, EventID: &eventID, Status: RegistrationPending}
}

// Target returns the kind and id of the registration's target.
func (r *Registration) Target() (TargetKind, string) {
	if r.EventID != nil {
		return TargetEvent, *r.EventID
	}
	if r.SymposiumID != nil {
		return TargetSymposium, *r.SymposiumID
	}
	return "", ""
}

// BelongsToSymposium reports whether r targets symposiumID directly.
func (r *Registration) BelongsToSymposium(symposiumID string) bool {
	return r.SymposiumID != nil && *r.SymposiumID == symposiumID
}

// BelongsToEvent reports whether r targets eventID.
func (r *Registration) BelongsToEvent(eventID string) bool {
	return r.EventID != nil && *r.EventID == eventID
}
