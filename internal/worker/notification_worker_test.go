package worker

import (
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/config"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/service"
)

func TestStartNotificationWorker(t *testing.T) {
	if err := StartNotificationWorker(nil, zap.NewNop()); err != nil {
		t.Fatalf("nil service: %v", err)
	}

	bus := events.NewInMemoryBus(zap.NewNop(), nil)
	t.Cleanup(func() { _ = bus.Close() })
	ns := service.NewNotificationService(bus, nil, zap.NewNop(), config.NotificationConfig{})
	if err := StartNotificationWorker(ns, zap.NewNop()); err != nil {
		t.Fatalf("start: %v", err)
	}
}
