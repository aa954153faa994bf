package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/venue-floor-planner/internal/config"
	"github.com/iliyamo/venue-floor-planner/internal/database"
	"github.com/iliyamo/venue-floor-planner/internal/handler"
	"github.com/iliyamo/venue-floor-planner/internal/logging"
	"github.com/iliyamo/venue-floor-planner/internal/middleware"
	"github.com/iliyamo/venue-floor-planner/internal/queue"
	"github.com/iliyamo/venue-floor-planner/internal/repository"
	"github.com/iliyamo/venue-floor-planner/internal/router"
	"github.com/iliyamo/venue-floor-planner/internal/service"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Fatal("connect database", "err", err)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("migrate schema", "err", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	layouts := repository.NewLayoutRepo(db)
	reservations := repository.NewReservationRepo(db)

	var events service.EventPublisher
	amqpURL := queue.URLFromEnv()
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(amqpURL, logger)
		consumer := &queue.Consumer{URL: amqpURL, Dir: cfg.AuditDir, Logger: logger.WithPrefix("events")}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event consumer stopped", "err", err)
			}
		}()
	}

	svc := service.New(layouts, reservations, events, cfg.PlannerOptions(logger.WithPrefix("planner")))

	sweeper := &service.Sweeper{
		Reservations: reservations,
		Tokens:       tokens,
		Window:       cfg.ReservationWindow,
		Interval:     cfg.SweepInterval,
		Logger:       logger.WithPrefix("sweeper"),
	}
	go sweeper.Run(ctx)

	rdb := config.NewRedisClient(config.LoadRedisConfig(), logger)
	if rdb != nil {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	router.Register(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		DB:        db,
		Auth: handler.NewAuthHandler(handler.AuthSettings{
			JWTSecret:  cfg.JWTSecret,
			AccessTTL:  cfg.AccessTTL,
			RefreshTTL: cfg.RefreshTTL,
			BcryptCost: cfg.BcryptCost,
		}, users, tokens),
		Layouts:      handler.NewLayoutHandler(svc),
		Reservations: handler.NewReservationHandler(svc),
		Redis:        rdb,
		Cache:        config.LoadCacheConfig(),
		RateLimit:    config.LoadRateLimitConfig(),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
