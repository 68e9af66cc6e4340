package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/symposium-service/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with a uniqueness rule or a
	// concurrent update.
	ErrConflict = errors.New("record conflicts with existing state")
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// SymposiumRepository persists symposiums.
type SymposiumRepository interface {
	Create(ctx context.Context, symposium *domain.Symposium) error
	Update(ctx context.Context, symposium *domain.Symposium) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Symposium, error)
	List(ctx context.Context) ([]domain.Symposium, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]domain.Symposium, error)
}

// EventRepository persists events.
//
// LockByID reads an event and holds it against concurrent deciders until the
// surrounding transaction ends.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	LockByID(ctx context.Context, id string) (*domain.Event, error)
	ListBySymposium(ctx context.Context, symposiumID string) ([]domain.Event, error)
	CountBySymposium(ctx context.Context, symposiumID string) (int, error)
}

// RegistrationRepository persists registration requests.
//
// Create returns ErrConflict when the user already has a registration for the
// same target; the check and the insert are a single statement.
// UpdateStatus returns ErrConflict when the stored status is no longer from.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *domain.Registration) error
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	FindForSymposium(ctx context.Context, userID, symposiumID string) (*domain.Registration, error)
	FindForEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.RegistrationStatus, decidedAt time.Time) error
	ListPendingByOrganizer(ctx context.Context, organizerID string) ([]domain.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Registration, error)
}

// ParticipantRepository persists accepted memberships. Adds are idempotent.
type ParticipantRepository interface {
	AddToSymposium(ctx context.Context, userID, symposiumID string, joinedAt time.Time) error
	AddToEvent(ctx context.Context, userID, eventID string, joinedAt time.Time) error
	IsSymposiumParticipant(ctx context.Context, userID, symposiumID string) (bool, error)
	IsEventParticipant(ctx context.Context, userID, eventID string) (bool, error)
	ListBySymposium(ctx context.Context, symposiumID string) ([]domain.Participation, error)
	ListByEvent(ctx context.Context, eventID string) ([]domain.Participation, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}

// CertificateRepository persists issued certificates.
type CertificateRepository interface {
	Create(ctx context.Context, certificate *domain.Certificate) error
	GetByID(ctx context.Context, id string) (*domain.Certificate, error)
	GetByCode(ctx context.Context, code string) (*domain.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error)
	CountBySymposium(ctx context.Context, symposiumID string) (int, error)
}

// Store aggregates repositories that share one connection or transaction.
type Store interface {
	Users() UserRepository
	Symposiums() SymposiumRepository
	Events() EventRepository
	Registrations() RegistrationRepository
	Participants() ParticipantRepository
	Certificates() CertificateRepository

	// WithTx runs fn against a Store bound to one transaction. The
	// transaction commits when fn returns nil. Nested calls reuse the
	// outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error

	Ping(ctx context.Context) error
}
