package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/abcall/issue-service/internal/api/http"
	"github.com/abcall/issue-service/internal/api/http/handlers"
	"github.com/abcall/issue-service/internal/assistant"
	"github.com/abcall/issue-service/internal/authclient"
	"github.com/abcall/issue-service/internal/config"
	"github.com/abcall/issue-service/internal/events"
	"github.com/abcall/issue-service/internal/observability"
	"github.com/abcall/issue-service/internal/persistence"
	"github.com/abcall/issue-service/internal/repository"
	"github.com/abcall/issue-service/internal/service"
	"github.com/abcall/issue-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	issueRepo := repository.NewIssueRepository(pg.PoolHandle())
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		AuthClient: authclient.New(cfg.AuthService),
		Assistant:  assistant.New(cfg.Assistant),
		Dispatcher: dispatcher,
		Cache:      redis,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	dashboardHandler := handlers.NewDashboardHandler(issueService)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Issues:    handlers.NewIssuesHandler(issueService, dashboardHandler, cfg.Upload, logger),
		Dashboard: dashboardHandler,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
