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

	httptransport "github.com/spec-kit/restaurant-orders/internal/api/http"
	"github.com/spec-kit/restaurant-orders/internal/api/http/handlers"
	"github.com/spec-kit/restaurant-orders/internal/auth"
	"github.com/spec-kit/restaurant-orders/internal/config"
	"github.com/spec-kit/restaurant-orders/internal/events"
	"github.com/spec-kit/restaurant-orders/internal/hours"
	"github.com/spec-kit/restaurant-orders/internal/observability"
	"github.com/spec-kit/restaurant-orders/internal/persistence"
	"github.com/spec-kit/restaurant-orders/internal/repository"
	"github.com/spec-kit/restaurant-orders/internal/service"
	"github.com/spec-kit/restaurant-orders/internal/timing"
	"github.com/spec-kit/restaurant-orders/internal/worker"
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

	loc, err := time.LoadLocation(cfg.Hours.Timezone)
	if err != nil {
		logger.Fatal("invalid restaurant timezone", zap.String("timezone", cfg.Hours.Timezone), zap.Error(err))
	}

	pool := pg.PoolHandle()
	orderRepo := repository.NewOrderRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)

	scheduleSource := persistence.NewCachedScheduleSource(scheduleRepo, redis, cfg.Hours.ScheduleCacheTTL(), logger)

	resolver := hours.NewResolver(loc, cfg.Hours.DeliveryCutoff(), cfg.Hours.LookaheadDays)
	guard := hours.NewGuard(resolver, cfg.Hours.GraceAfterOpen())
	calculator := timing.NewCalculator(cfg.Timing.DefaultPrepMinutes, cfg.Timing.AutoCancelAfter())

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notifications.RegisterHandlers()

	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:       orderRepo,
		ReservationRepo: reservationRepo,
		Schedule:        scheduleSource,
		Guard:           guard,
		Calculator:      calculator,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
	})
	adminService := service.NewAdminService(service.AdminDependencies{
		OrderRepo:       orderRepo,
		ReservationRepo: reservationRepo,
		Calculator:      calculator,
		Dispatcher:      dispatcher,
		Notifier:        notifications,
		Logger:          logger,
	})
	hoursService := service.NewHoursService(scheduleSource, resolver, scheduleRepo, scheduleSource, logger)

	sweeper := worker.NewSweeper(worker.SweeperDependencies{
		OrderRepo:       orderRepo,
		ReservationRepo: reservationRepo,
		Notifier:        notifications,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
		Logger:          logger,
		EscalateAfter:   cfg.Timing.EscalateAfter(),
		Interval:        cfg.Timing.SweepInterval(),
		StaffEmail:      cfg.Notification.StaffEmail,
	})
	go sweeper.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenManager(cfg.Auth.JWTSecret))

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Hours:          handlers.NewHoursHandler(hoursService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Admin:          handlers.NewAdminHandler(adminService, hoursService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)
	cancel()

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
