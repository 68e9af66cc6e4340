package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/cache"
	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/repository"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// CatalogService manages symposiums and their events.
type CatalogService struct {
	store  repository.Store
	cache  *cache.CacheHelper
	logger *zap.Logger
	events publisher
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	Store      repository.Store
	Cache      *cache.CacheHelper
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SymposiumInput describes a new symposium.
type SymposiumInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
}

// SymposiumPatch carries the fields to change; nil leaves a field untouched.
type SymposiumPatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
}

// EventInput describes a new event.
type EventInput struct {
	SymposiumID string
	Name        string
	Description string
	Date        time.Time
	StartTime   string
	EndTime     string
	Capacity    int
	Level       domain.EventLevel
	Location    string
}

// EventPatch carries the fields to change; nil leaves a field untouched.
type EventPatch struct {
	Name        *string
	Description *string
	Date        *time.Time
	StartTime   *string
	EndTime     *string
	Capacity    *int
	Level       *domain.EventLevel
	Location    *string
}

// SymposiumWithEvents pairs a symposium with its events.
type SymposiumWithEvents struct {
	Symposium domain.Symposium
	Events    []domain.Event
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := loggerOrNop(deps.Logger)
	c := deps.Cache
	if c == nil {
		c = cache.NewCacheHelper(nil, "", 0, logger)
	}
	return &CatalogService{
		store:  deps.Store,
		cache:  c,
		logger: logger,
		events: publisher{dispatcher: deps.Dispatcher, logger: logger},
	}
}

// CreateSymposium creates a symposium owned by actor.
func (s *CatalogService) CreateSymposium(ctx context.Context, actor domain.AuthContext, in SymposiumInput) (*domain.Symposium, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	sym := &domain.Symposium{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		StartDate:   in.StartDate.UTC(),
		EndDate:     in.EndDate.UTC(),
		Location:    in.Location,
		OrganizerID: actor.UserID,
	}
	if err := validateSymposiumDates(sym); err != nil {
		return nil, err
	}
	if err := s.store.Symposiums().Create(ctx, sym); err != nil {
		return nil, err
	}

	s.cache.SafeDelete(ctx, cache.KeySymposiumList)
	s.logger.Info("symposium created", zap.String("symposium_id", sym.ID), zap.String("organizer_id", actor.UserID))
	return sym, nil
}

// UpdateSymposium applies patch to a symposium the actor owns.
func (s *CatalogService) UpdateSymposium(ctx context.Context, actor domain.AuthContext, id string, patch SymposiumPatch) (*domain.Symposium, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	var updated *domain.Symposium
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		sym, err := tx.Symposiums().GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "symposium")
		}
		if err := auth.AuthorizeOwner(actor, sym); err != nil {
			return err
		}

		if patch.Name != nil {
			sym.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			sym.Description = *patch.Description
		}
		if patch.StartDate != nil {
			sym.StartDate = patch.StartDate.UTC()
		}
		if patch.EndDate != nil {
			sym.EndDate = patch.EndDate.UTC()
		}
		if patch.Location != nil {
			sym.Location = *patch.Location
		}
		if err := validateSymposiumDates(sym); err != nil {
			return err
		}
		if patch.StartDate != nil || patch.EndDate != nil {
			evs, err := tx.Events().ListBySymposium(ctx, sym.ID)
			if err != nil {
				return err
			}
			for i := range evs {
				if !withinSymposium(sym, evs[i].Date) {
					return apperrors.NewValidationError("symposium dates exclude existing events", []apperrors.ValidationDetail{
						{Field: "start_date", Message: "events of this symposium fall outside the new date range"},
					})
				}
			}
		}
		if err := tx.Symposiums().Update(ctx, sym); err != nil {
			return notFoundOr(err, "symposium")
		}
		updated = sym
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.SafeDelete(ctx, cache.KeySymposium(id), cache.KeySymposiumList)
	s.logger.Info("symposium updated", zap.String("symposium_id", id))
	return updated, nil
}

// DeleteSymposium removes a symposium without events or certificates.
// Its registrations and participant associations go with it.
func (s *CatalogService) DeleteSymposium(ctx context.Context, actor domain.AuthContext, id string) error {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return err
	}
	var deleted *domain.Symposium
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		sym, err := tx.Symposiums().GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "symposium")
		}
		if err := auth.AuthorizeOwner(actor, sym); err != nil {
			return err
		}
		eventCount, err := tx.Events().CountBySymposium(ctx, id)
		if err != nil {
			return err
		}
		if eventCount > 0 {
			return apperrors.NewConflict("symposium still has events; delete them first")
		}
		certCount, err := tx.Certificates().CountBySymposium(ctx, id)
		if err != nil {
			return err
		}
		if certCount > 0 {
			return apperrors.NewConflict("symposium has issued certificates and cannot be deleted")
		}
		if err := tx.Symposiums().Delete(ctx, id); err != nil {
			return notFoundOr(err, "symposium")
		}
		deleted = sym
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.SafeDelete(ctx, cache.KeySymposium(id), cache.KeySymposiumList, cache.KeySymposiumEvents(id))
	s.events.publish(ctx, events.EventSymposiumDeleted, id, actor, events.SymposiumDeletedPayload{SymposiumID: id, Name: deleted.Name})
	s.logger.Info("symposium deleted", zap.String("symposium_id", id))
	return nil
}

// GetSymposium returns one symposium.
func (s *CatalogService) GetSymposium(ctx context.Context, id string) (*domain.Symposium, error) {
	sym, err := cache.Remember(ctx, s.cache, cache.KeySymposium(id), func(ctx context.Context) (*domain.Symposium, error) {
		return s.store.Symposiums().GetByID(ctx, id)
	})
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	return sym, nil
}

// ListSymposiums returns every symposium ordered by start date.
func (s *CatalogService) ListSymposiums(ctx context.Context) ([]domain.Symposium, error) {
	return cache.Remember(ctx, s.cache, cache.KeySymposiumList, s.store.Symposiums().List)
}

// ListSymposiumEvents returns the events of a symposium. An existing
// symposium without events is reported as NotFound.
func (s *CatalogService) ListSymposiumEvents(ctx context.Context, symposiumID string) ([]domain.Event, error) {
	if _, err := s.GetSymposium(ctx, symposiumID); err != nil {
		return nil, err
	}
	list, err := cache.Remember(ctx, s.cache, cache.KeySymposiumEvents(symposiumID), func(ctx context.Context) ([]domain.Event, error) {
		return s.store.Events().ListBySymposium(ctx, symposiumID)
	})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, apperrors.NewDomainError(apperrors.CodeNotFound, "no events found for this symposium", http.StatusNotFound)
	}
	return list, nil
}

// ListMySymposiums returns the symposiums organized by actor with their events.
func (s *CatalogService) ListMySymposiums(ctx context.Context, actor domain.AuthContext) ([]SymposiumWithEvents, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	syms, err := s.store.Symposiums().ListByOrganizer(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(syms) == 0 {
		return nil, apperrors.NewDomainError(apperrors.CodeNotFound, "no symposiums found for this user", http.StatusNotFound)
	}
	result := make([]SymposiumWithEvents, 0, len(syms))
	for _, sym := range syms {
		evs, err := s.store.Events().ListBySymposium(ctx, sym.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, SymposiumWithEvents{Symposium: sym, Events: evs})
	}
	return result, nil
}

// CreateEvent adds an event to a symposium the actor owns.
func (s *CatalogService) CreateEvent(ctx context.Context, actor domain.AuthContext, in EventInput) (*domain.Event, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	sym, err := s.store.Symposiums().GetByID(ctx, in.SymposiumID)
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, err
	}

	ev := &domain.Event{
		SymposiumID: sym.ID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Date:        dateOnly(in.Date),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Capacity:    in.Capacity,
		Level:       in.Level,
		Location:    in.Location,
	}
	if err := validateEvent(sym, ev); err != nil {
		return nil, err
	}
	if err := s.store.Events().Create(ctx, ev); err != nil {
		return nil, err
	}

	s.cache.SafeDelete(ctx, cache.KeySymposiumEvents(sym.ID))
	s.logger.Info("event created", zap.String("event_id", ev.ID), zap.String("symposium_id", sym.ID))
	return ev, nil
}

// UpdateEvent applies patch to an event whose symposium the actor owns.
func (s *CatalogService) UpdateEvent(ctx context.Context, actor domain.AuthContext, id string, patch EventPatch) (*domain.Event, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	var updated *domain.Event
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		ev, sym, err := s.eventWithOwner(ctx, tx, actor, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			ev.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			ev.Description = *patch.Description
		}
		if patch.Date != nil {
			ev.Date = dateOnly(*patch.Date)
		}
		if patch.StartTime != nil {
			ev.StartTime = *patch.StartTime
		}
		if patch.EndTime != nil {
			ev.EndTime = *patch.EndTime
		}
		if patch.Capacity != nil {
			ev.Capacity = *patch.Capacity
		}
		if patch.Level != nil {
			ev.Level = *patch.Level
		}
		if patch.Location != nil {
			ev.Location = *patch.Location
		}
		if err := validateEvent(sym, ev); err != nil {
			return err
		}
		if patch.Capacity != nil {
			joined, err := tx.Participants().CountByEvent(ctx, ev.ID)
			if err != nil {
				return err
			}
			if ev.Capacity < joined {
				return apperrors.NewValidationError("invalid request", []apperrors.ValidationDetail{
					{Field: "capacity", Message: "must not be below the number of accepted participants"},
				})
			}
		}
		if err := tx.Events().Update(ctx, ev); err != nil {
			return notFoundOr(err, "event")
		}
		updated = ev
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.SafeDelete(ctx, cache.KeySymposiumEvents(updated.SymposiumID))
	s.logger.Info("event updated", zap.String("event_id", id))
	return updated, nil
}

// DeleteEvent removes an event with its registrations and associations.
func (s *CatalogService) DeleteEvent(ctx context.Context, actor domain.AuthContext, id string) error {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return err
	}
	ev, _, err := s.eventWithOwner(ctx, s.store, actor, id)
	if err != nil {
		return err
	}
	if err := s.store.Events().Delete(ctx, id); err != nil {
		return notFoundOr(err, "event")
	}

	s.cache.SafeDelete(ctx, cache.KeySymposiumEvents(ev.SymposiumID))
	s.logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

// GetEvent returns one event.
func (s *CatalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ev, err := s.store.Events().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "event")
	}
	return ev, nil
}

func (s *CatalogService) eventWithOwner(ctx context.Context, store repository.Store, actor domain.AuthContext, id string) (*domain.Event, *domain.Symposium, error) {
	ev, err := store.Events().GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOr(err, "event")
	}
	sym, err := store.Symposiums().GetByID(ctx, ev.SymposiumID)
	if err != nil {
		return nil, nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, nil, err
	}
	return ev, sym, nil
}

func validateSymposiumDates(sym *domain.Symposium) error {
	if sym.EndDate.Before(sym.StartDate) {
		return apperrors.NewValidationError("invalid request", []apperrors.ValidationDetail{
			{Field: "end_date", Message: "must not be before start_date"},
		})
	}
	return nil
}

func validateEvent(sym *domain.Symposium, ev *domain.Event) error {
	var details []apperrors.ValidationDetail
	if ev.StartTime >= ev.EndTime {
		details = append(details, apperrors.ValidationDetail{Field: "end_time", Message: "must be after start_time"})
	}
	if ev.Capacity <= 0 {
		details = append(details, apperrors.ValidationDetail{Field: "capacity", Message: "must be greater than 0"})
	}
	if !ev.Level.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "level", Message: "must be one of: beginner intermediate advanced"})
	}
	if !withinSymposium(sym, ev.Date) {
		details = append(details, apperrors.ValidationDetail{Field: "date", Message: "must fall within the symposium dates"})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid request", details)
	}
	return nil
}

func withinSymposium(sym *domain.Symposium, date time.Time) bool {
	day := dateOnly(date)
	return !day.Before(dateOnly(sym.StartDate)) && !day.After(dateOnly(sym.EndDate))
}
