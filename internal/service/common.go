package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/repository"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

// Clock returns the current time. Services take one so tests can move time.
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return func() time.Time { return time.Now().UTC() }
	}
	return c
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// notFoundOr maps repository.ErrNotFound to a NotFound error for resource.
func notFoundOr(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource)
	}
	return err
}

// publisher sends domain events after the state change is committed.
// Delivery failures are logged and never fail the request.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, eventType events.EventType, aggregateID string, actor domain.AuthContext, payload any) {
	if p.dispatcher == nil {
		return
	}
	event, err := events.NewEvent(eventType, aggregateID, events.ActorFrom(actor), payload)
	if err == nil {
		err = p.dispatcher.Publish(ctx, event)
	}
	if err != nil {
		p.logger.Warn("failed to publish domain event",
			zap.String("event_type", string(eventType)),
			zap.String("aggregate_id", aggregateID),
			zap.Error(err))
	}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
