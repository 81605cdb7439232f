package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/creator-platform/internal/api/http"
	"github.com/spec-kit/creator-platform/internal/api/http/handlers"
	"github.com/spec-kit/creator-platform/internal/auth"
	"github.com/spec-kit/creator-platform/internal/config"
	"github.com/spec-kit/creator-platform/internal/events"
	"github.com/spec-kit/creator-platform/internal/observability"
	"github.com/spec-kit/creator-platform/internal/persistence"
	"github.com/spec-kit/creator-platform/internal/repository"
	"github.com/spec-kit/creator-platform/internal/service"
	"github.com/spec-kit/creator-platform/internal/worker"
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
	accountRepo := repository.NewAccountRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	rankingRepo := repository.NewRankingRepository(pool)
	sessionRepo := repository.NewSessionRepository(redis.Client)

	sessionManager := auth.NewSessionManager(
		cfg.Auth.CookieSecret,
		cfg.Auth.SessionTTL(),
		cfg.Auth.SessionRefreshWindow(),
		auth.SessionDependencies{
			SessionRepo: sessionRepo,
			AccountRepo: accountRepo,
			ProfileRepo: profileRepo,
		},
		logger,
	)

	dispatcher := events.NewInMemoryDispatcher()
	accessService := service.NewAccessService(orderRepo, requestRepo, logger)

	authService := service.NewAuthService(service.AuthDependencies{
		AccountRepo: accountRepo,
		ProfileRepo: profileRepo,
		Sessions:    sessionManager,
	}, cfg.Auth.BcryptCost, logger)

	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:   orderRepo,
		RequestRepo: requestRepo,
		ProfileRepo: profileRepo,
		Access:      accessService,
		Dispatcher:  dispatcher,
	}, cfg.Orders.PlatformFeePercent, cfg.Orders.CancelWindow(), logger)

	profileService := service.NewProfileService(service.ProfileDependencies{
		ProfileRepo: profileRepo,
		RankingRepo: rankingRepo,
		Access:      accessService,
		Dispatcher:  dispatcher,
	}, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(),
		Auth:              handlers.NewAuthHandler(authService),
		Orders:            handlers.NewOrdersHandler(orderService),
		Profiles:          handlers.NewProfilesHandler(profileService),
		SessionMiddleware: auth.NewSessionMiddleware(sessionManager),
		LoginPath:         cfg.App.LoginPath,
		ForbiddenPath:     cfg.App.ForbiddenPath,
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
