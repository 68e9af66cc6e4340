package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/repository"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// RegistrationService runs the request and approval workflow for
// symposium and event registrations.
type RegistrationService struct {
	store  repository.Store
	logger *zap.Logger
	events publisher
	now    Clock
}

// RegistrationDependencies bundles collaborators for the registration service.
type RegistrationDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := loggerOrNop(deps.Logger)
	return &RegistrationService{
		store:  deps.Store,
		logger: logger,
		events: publisher{dispatcher: deps.Dispatcher, logger: logger},
		now:    clockOrDefault(deps.Clock),
	}
}

// RequestSymposiumRegistration files a pending request for actor to join a symposium.
func (s *RegistrationService) RequestSymposiumRegistration(ctx context.Context, actor domain.AuthContext, symposiumID string) (*domain.Registration, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	if _, err := s.store.Symposiums().GetByID(ctx, symposiumID); err != nil {
		return nil, notFoundOr(err, "symposium")
	}

	find := func(ctx context.Context) (*domain.Registration, error) {
		return s.store.Registrations().FindForSymposium(ctx, actor.UserID, symposiumID)
	}
	if err := checkDuplicate(ctx, find); err != nil {
		return nil, err
	}
	return s.insert(ctx, actor, domain.NewSymposiumRegistration(actor.UserID, symposiumID), find)
}

// RequestEventRegistration files a pending request for actor to join an
// event. Actor must already be accepted into the event's symposium.
func (s *RegistrationService) RequestEventRegistration(ctx context.Context, actor domain.AuthContext, eventID string) (*domain.Registration, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	ev, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event")
	}

	find := func(ctx context.Context) (*domain.Registration, error) {
		return s.store.Registrations().FindForEvent(ctx, actor.UserID, eventID)
	}
	if err := checkDuplicate(ctx, find); err != nil {
		return nil, err
	}

	parent, err := s.store.Registrations().FindForSymposium(ctx, actor.UserID, ev.SymposiumID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewNotEligible("you must be accepted into the symposium first")
	case err != nil:
		return nil, err
	case parent.Status != domain.RegistrationAccepted:
		return nil, apperrors.NewNotEligible("you must be accepted into the symposium first")
	}

	return s.insert(ctx, actor, domain.NewEventRegistration(actor.UserID, eventID), find)
}

// insert stores reg. A unique-key collision means a concurrent request won
// the race; the stored row is reported as the duplicate.
func (s *RegistrationService) insert(ctx context.Context, actor domain.AuthContext, reg *domain.Registration, find func(context.Context) (*domain.Registration, error)) (*domain.Registration, error) {
	if err := s.store.Registrations().Create(ctx, reg); err != nil {
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		if dupErr := checkDuplicate(ctx, find); dupErr != nil {
			return nil, dupErr
		}
		return nil, apperrors.NewConflict("registration already exists")
	}

	kind, targetID := reg.Target()
	s.logger.Info("registration requested",
		zap.String("registration_id", reg.ID),
		zap.String("user_id", reg.UserID),
		zap.String("target_kind", string(kind)),
		zap.String("target_id", targetID))
	s.events.publish(ctx, events.EventRegistrationRequested, reg.ID, actor, events.RegistrationRequestedPayload{
		RegistrationID: reg.ID,
		UserID:         reg.UserID,
		TargetKind:     kind,
		TargetID:       targetID,
	})
	return reg, nil
}

// checkDuplicate maps an existing registration to its duplicate error.
func checkDuplicate(ctx context.Context, find func(context.Context) (*domain.Registration, error)) error {
	existing, err := find(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return duplicateError(existing.Status)
}

func duplicateError(status domain.RegistrationStatus) error {
	switch status {
	case domain.RegistrationPending:
		return apperrors.NewConflictCode(apperrors.CodeDuplicatePending, "a registration request is already pending")
	case domain.RegistrationAccepted:
		return apperrors.NewConflictCode(apperrors.CodeDuplicateActive, "you are already registered")
	case domain.RegistrationRejected:
		return apperrors.NewConflictCode(apperrors.CodePreviouslyRejected, "your registration was rejected and cannot be requested again")
	}
	return apperrors.NewInternalError(fmt.Errorf("unknown registration status %q", status))
}

// DecideSymposiumRegistration accepts or rejects a registration for a
// symposium owned by actor.
func (s *RegistrationService) DecideSymposiumRegistration(ctx context.Context, actor domain.AuthContext, symposiumID, registrationID, rawDecision string) (*domain.Registration, error) {
	decision, err := parseDecision(rawDecision)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	sym, err := s.store.Symposiums().GetByID(ctx, symposiumID)
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, err
	}
	reg, err := s.store.Registrations().GetByID(ctx, registrationID)
	if err != nil {
		return nil, notFoundOr(err, "registration")
	}
	if !reg.BelongsToSymposium(symposiumID) {
		return nil, apperrors.NewNotFound("registration")
	}

	return s.decide(ctx, actor, reg, decision, decisionHooks{
		associate: func(ctx context.Context, tx repository.Store) error {
			return tx.Participants().AddToSymposium(ctx, reg.UserID, symposiumID, s.now())
		},
	})
}

// DecideEventRegistration accepts or rejects a registration for an event
// whose symposium is owned by actor. Accepting fails once the event is full.
func (s *RegistrationService) DecideEventRegistration(ctx context.Context, actor domain.AuthContext, eventID, registrationID, rawDecision string) (*domain.Registration, error) {
	decision, err := parseDecision(rawDecision)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	ev, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event")
	}
	sym, err := s.store.Symposiums().GetByID(ctx, ev.SymposiumID)
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, err
	}
	reg, err := s.store.Registrations().GetByID(ctx, registrationID)
	if err != nil {
		return nil, notFoundOr(err, "registration")
	}
	if !reg.BelongsToEvent(eventID) {
		return nil, apperrors.NewNotFound("registration")
	}

	return s.decide(ctx, actor, reg, decision, decisionHooks{
		beforeAccept: func(ctx context.Context, tx repository.Store) error {
			locked, err := tx.Events().LockByID(ctx, eventID)
			if err != nil {
				return notFoundOr(err, "event")
			}
			joined, err := tx.Participants().CountByEvent(ctx, eventID)
			if err != nil {
				return err
			}
			if joined >= locked.Capacity {
				return apperrors.NewConflictCode(apperrors.CodeEventFull, "event has reached its capacity")
			}
			return nil
		},
		associate: func(ctx context.Context, tx repository.Store) error {
			return tx.Participants().AddToEvent(ctx, reg.UserID, eventID, s.now())
		},
	})
}

type decisionHooks struct {
	// beforeAccept runs inside the transaction before a pending registration
	// becomes accepted.
	beforeAccept func(context.Context, repository.Store) error
	// associate upserts the participant association on acceptance.
	associate func(context.Context, repository.Store) error
}

func (s *RegistrationService) decide(ctx context.Context, actor domain.AuthContext, reg *domain.Registration, decision domain.RegistrationStatus, hooks decisionHooks) (*domain.Registration, error) {
	from := reg.Status
	next, changed, err := from.Decide(decision)
	if err != nil {
		if errors.Is(err, domain.ErrRegistrationDecided) {
			return nil, apperrors.NewConflictCode(apperrors.CodeAlreadyDecided, fmt.Sprintf("registration already %s", from))
		}
		return nil, err
	}

	decidedAt := s.now()
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if changed {
			if next == domain.RegistrationAccepted && hooks.beforeAccept != nil {
				if err := hooks.beforeAccept(ctx, tx); err != nil {
					return err
				}
			}
			if err := tx.Registrations().UpdateStatus(ctx, reg.ID, from, next, decidedAt); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return apperrors.NewConflictCode(apperrors.CodeAlreadyDecided, "registration was decided concurrently")
				}
				return err
			}
		}
		if next == domain.RegistrationAccepted && hooks.associate != nil {
			return hooks.associate(ctx, tx)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return reg, nil
	}

	reg.Status = next
	reg.DecidedAt = &decidedAt
	reg.UpdatedAt = decidedAt

	kind, targetID := reg.Target()
	s.logger.Info("registration decided",
		zap.String("registration_id", reg.ID),
		zap.String("organizer_id", actor.UserID),
		zap.String("from", string(from)),
		zap.String("to", string(next)))
	s.events.publish(ctx, events.EventRegistrationDecided, reg.ID, actor, events.RegistrationDecidedPayload{
		RegistrationID: reg.ID,
		UserID:         reg.UserID,
		TargetKind:     kind,
		TargetID:       targetID,
		OldStatus:      from,
		NewStatus:      next,
	})
	return reg, nil
}

func parseDecision(raw string) (domain.RegistrationStatus, error) {
	decision, err := domain.ParseDecision(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid request", []apperrors.ValidationDetail{
			{Field: "status", Message: "must be one of: accepted rejected"},
		})
	}
	return decision, nil
}

// ListPendingForOrganizer returns pending registrations for symposiums
// owned by actor and for the events under them, oldest first.
func (s *RegistrationService) ListPendingForOrganizer(ctx context.Context, actor domain.AuthContext) ([]domain.Registration, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	return s.store.Registrations().ListPendingByOrganizer(ctx, actor.UserID)
}

// ListMyRegistrations returns every registration filed by actor, newest first.
func (s *RegistrationService) ListMyRegistrations(ctx context.Context, actor domain.AuthContext) ([]domain.Registration, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	return s.store.Registrations().ListByUser(ctx, actor.UserID)
}

// ListSymposiumParticipants returns the accepted participants of a
// symposium owned by actor.
func (s *RegistrationService) ListSymposiumParticipants(ctx context.Context, actor domain.AuthContext, symposiumID string) (*domain.Symposium, []domain.Participation, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, nil, err
	}
	sym, err := s.store.Symposiums().GetByID(ctx, symposiumID)
	if err != nil {
		return nil, nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, nil, err
	}
	members, err := s.store.Participants().ListBySymposium(ctx, symposiumID)
	if err != nil {
		return nil, nil, err
	}
	return sym, members, nil
}

// ListEventParticipants returns the accepted participants of an event whose
// symposium is owned by actor.
func (s *RegistrationService) ListEventParticipants(ctx context.Context, actor domain.AuthContext, eventID string) ([]domain.Participation, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	ev, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, notFoundOr(err, "event")
	}
	sym, err := s.store.Symposiums().GetByID(ctx, ev.SymposiumID)
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, err
	}
	return s.store.Participants().ListByEvent(ctx, eventID)
}
