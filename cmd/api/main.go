package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/gupta1123/fieldsales-teams/internal/api/http"
	"github.com/gupta1123/fieldsales-teams/internal/api/http/handlers"
	"github.com/gupta1123/fieldsales-teams/internal/auth"
	"github.com/gupta1123/fieldsales-teams/internal/config"
	"github.com/gupta1123/fieldsales-teams/internal/events"
	"github.com/gupta1123/fieldsales-teams/internal/observability"
	"github.com/gupta1123/fieldsales-teams/internal/persistence"
	"github.com/gupta1123/fieldsales-teams/internal/repository"
	"github.com/gupta1123/fieldsales-teams/internal/service"
	"github.com/gupta1123/fieldsales-teams/internal/upstream"
	"github.com/gupta1123/fieldsales-teams/internal/worker"
)

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

	metrics := observability.NewMetrics()
	crm := upstream.NewClient(cfg.Upstream, logger, metrics)

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	auditRepo := repository.NewMemoryAuditRepository()
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		auditRepo = repository.NewAuditRepository(pg.PoolHandle())
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	filterRepo := repository.NewMemoryFilterStateRepository()
	if redis.Reachable {
		filterRepo = repository.NewRedisFilterStateRepository(redis.Client, cfg.Redis.KeyPrefix, cfg.Redis.TTL())
	} else {
		logger.Warn("filter state kept in memory")
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartSubscribers(auditService, notificationService)

	teamService := service.NewTeamService(service.TeamDependencies{
		CRM:        crm,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	workflow := service.NewTeamWorkflow(crm, dispatcher, logger)
	employeeService := service.NewEmployeeService(crm)
	filterService := service.NewFilterStateService(filterRepo, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		UnescapePath: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics,
		handlers.DependencyCheck{Name: "crm", Required: true, Ping: crm.Ping},
		handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping},
		handlers.DependencyCheck{Name: "redis", Ping: redis.Ping},
	)

	err = httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Teams:          handlers.NewTeamsHandler(teamService, workflow, auditService),
		Employees:      handlers.NewEmployeesHandler(employeeService, teamService),
		Filters:        handlers.NewFiltersHandler(filterService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		RateLimit:      cfg.RateLimit,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
