package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sisyflow/sisyflow/internal/ai"
	httptransport "github.com/sisyflow/sisyflow/internal/api/http"
	"github.com/sisyflow/sisyflow/internal/api/http/handlers"
	"github.com/sisyflow/sisyflow/internal/auth"
	"github.com/sisyflow/sisyflow/internal/config"
	"github.com/sisyflow/sisyflow/internal/events"
	"github.com/sisyflow/sisyflow/internal/observability"
	"github.com/sisyflow/sisyflow/internal/persistence"
	"github.com/sisyflow/sisyflow/internal/repository"
	"github.com/sisyflow/sisyflow/internal/service"
	"github.com/sisyflow/sisyflow/internal/worker"
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

	pool := pg.PoolHandle()
	profileRepo := repository.NewProfileRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	sessionRepo := repository.NewAISessionRepository(pool)
	aiErrorRepo := repository.NewAIErrorRepository(pool)
	docRepo := repository.NewDocumentationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	revoked := auth.NewRedisRevocationStore(redis.Client)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		ProfileRepo: profileRepo,
		Revoked:     revoked,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		ProfileRepo: profileRepo,
		Dispatcher:  dispatcher,
	})
	aiService := service.NewAIService(service.AIDependencies{
		Analyzer:    ai.NewClient(cfg.AI),
		SessionRepo: sessionRepo,
		ErrorRepo:   aiErrorRepo,
		TicketRepo:  ticketRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	docService := service.NewDocumentationService(docRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewSessionMiddleware(
		authService.TokenManager(), profileRepo, revoked, cfg.Auth.SessionCookieName)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService, cfg.Auth),
		Profiles:      handlers.NewProfilesHandler(),
		Users:         handlers.NewUsersHandler(authService),
		Tickets:       handlers.NewTicketsHandler(ticketService),
		AI:            handlers.NewAIHandler(aiService),
		AIErrors:      handlers.NewAIErrorsHandler(aiService),
		Documentation: handlers.NewDocumentationHandler(docService),
		Session:       sessionMiddleware,
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
