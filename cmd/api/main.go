package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/symposium-service/internal/api/http"
	"github.com/spec-kit/symposium-service/internal/api/http/handlers"
	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/config"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/observability"
	"github.com/spec-kit/symposium-service/internal/persistence"
	"github.com/spec-kit/symposium-service/internal/repository"
	"github.com/spec-kit/symposium-service/internal/repository/sqlite"
	"github.com/spec-kit/symposium-service/internal/service"
	"github.com/spec-kit/symposium-service/internal/validation"
	"github.com/spec-kit/symposium-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore := openStore(ctx, cfg, logger)
	defer closeStore()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()
	cacheHelper := redis.Cache(cfg.App.Name+":", logger)

	metrics := observability.NewMetrics()
	bus, err := events.NewBus(cfg.Events, logger, metrics)
	if err != nil {
		logger.Fatal("failed to create event bus", zap.Error(err))
	}
	defer bus.Close() //nolint:errcheck

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{Store: store, Logger: logger})
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		Store:      store,
		Cache:      cacheHelper,
		Dispatcher: bus,
		Logger:     logger,
	})
	registrationService := service.NewRegistrationService(service.RegistrationDependencies{
		Store:      store,
		Dispatcher: bus,
		Logger:     logger,
	})
	certificateService := service.NewCertificateService(service.CertificateDependencies{
		Store:      store,
		Cache:      cacheHelper,
		Dispatcher: bus,
		Logger:     logger,
	})
	exportService := service.NewExportService(registrationService)
	notificationService := service.NewNotificationService(bus, store, logger, cfg.Notification)

	if err := worker.StartNotificationWorker(notificationService, logger); err != nil {
		logger.Fatal("failed to start notification worker", zap.Error(err))
	}

	authMiddleware := auth.NewAuthMiddleware(authService.Tokens(), store)
	validator := validation.New()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis, metrics),
		Users:          handlers.NewUsersHandler(authService, catalogService, validator),
		Symposiums:     handlers.NewSymposiumsHandler(catalogService, registrationService, exportService, validator),
		Events:         handlers.NewEventsHandler(catalogService, registrationService, validator),
		Registrations:  handlers.NewRegistrationsHandler(registrationService),
		Certificates:   handlers.NewCertificatesHandler(certificateService, validator),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("storage", cfg.Storage.Driver))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

// openStore connects the storage backend selected by STORAGE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func()) {
	if cfg.Storage.Driver == config.StorageDriverSQLite {
		db, err := persistence.OpenSQLite(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			logger.Fatal("failed to open sqlite", zap.Error(err))
		}
		return sqlite.New(db), func() { closeDB(db, logger) }
	}

	pool, err := persistence.OpenPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to open postgres", zap.Error(err))
	}
	return repository.NewPostgresStore(pool), pool.Close
}

func closeDB(db *sql.DB, logger *zap.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("close sqlite", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
