package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/config"
	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/repository"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	store      repository.Store
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, store repository.Store, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		store:      store,
		logger:     loggerOrNop(logger).Named("notifications"),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() error {
	if n.dispatcher == nil {
		return nil
	}
	subscriptions := map[events.EventType]events.EventHandler{
		events.EventRegistrationRequested: n.handleRegistrationRequested,
		events.EventRegistrationDecided:   n.handleRegistrationDecided,
		events.EventCertificateIssued:     n.handleCertificateIssued,
	}
	for eventType, handler := range subscriptions {
		if err := n.dispatcher.Subscribe(eventType, handler); err != nil {
			return err
		}
	}
	return nil
}

func (n *NotificationService) handleRegistrationRequested(ctx context.Context, event events.Event) error {
	var payload events.RegistrationRequestedPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}
	n.logger.Info("RegistrationRequested",
		zap.String("registration_id", payload.RegistrationID),
		zap.String("target_kind", string(payload.TargetKind)),
		zap.String("target_id", payload.TargetID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRegistrationDecided(ctx context.Context, event events.Event) error {
	var payload events.RegistrationDecidedPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}
	n.logger.Info("RegistrationDecided",
		zap.String("registration_id", payload.RegistrationID),
		zap.String("status", string(payload.NewStatus)))

	subject := "Your registration was rejected"
	if payload.NewStatus == domain.RegistrationAccepted {
		subject = "Your registration was accepted"
	}
	n.sendEmailNotificationStub(ctx, event, payload.UserID, subject)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCertificateIssued(ctx context.Context, event events.Event) error {
	var payload events.CertificateIssuedPayload
	if err := event.Decode(&payload); err != nil {
		return err
	}
	n.logger.Info("CertificateIssued",
		zap.String("certificate_id", payload.CertificateID),
		zap.String("symposium_id", payload.SymposiumID))
	n.sendEmailNotificationStub(ctx, event, payload.UserID, "Your certificate is ready: "+payload.Code)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, userID, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || n.store == nil {
		return
	}
	user, err := n.store.Users().GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("notification recipient lookup failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", user.Email),
		zap.String("subject", subject),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("aggregate_id", event.AggregateID),
		zap.String("event_type", string(event.Type)))
}
