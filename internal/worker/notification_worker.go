package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the event bus.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) error {
	if notificationService == nil {
		return nil
	}
	if err := notificationService.RegisterHandlers(); err != nil {
		return err
	}
	logger.Info("notification worker started")
	return nil
}
