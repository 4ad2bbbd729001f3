package main // Entry point of the reservation API

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/stay-reservation/internal/config"
	"github.com/iliyamo/stay-reservation/internal/database"
	"github.com/iliyamo/stay-reservation/internal/handler"
	"github.com/iliyamo/stay-reservation/internal/middleware"
	"github.com/iliyamo/stay-reservation/internal/queue"
	"github.com/iliyamo/stay-reservation/internal/repository"
	"github.com/iliyamo/stay-reservation/internal/router"
	"github.com/iliyamo/stay-reservation/internal/scheduler"
	"github.com/iliyamo/stay-reservation/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	logger, closer := config.NewLogger(config.LoadLogConfig())
	defer closer.Close()
	log := logger.WithField("component", "server")

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}

	rdb := config.NewRedisClient(logger.WithField("component", "redis"))
	if rdb != nil {
		defer rdb.Close()
	}

	var dispatcher queue.Dispatcher
	if amqpCfg := config.LoadAMQPConfig(); amqpCfg.Enabled {
		dispatcher = queue.NewPublisher(amqpCfg, logger.WithField("component", "publisher"))
	} else {
		dispatcher = queue.LogDispatcher{Log: logger.WithField("component", "publisher")}
	}

	bookingCfg := config.LoadBookingConfig()
	svc := service.New(repository.NewStore(db), dispatcher, bookingCfg, logger.WithField("component", "service"))

	schedCfg := config.LoadSchedulerConfig()
	locker := scheduler.NewLocker(rdb, schedCfg.Prefix, schedCfg.LockTTL, logger.WithField("component", "sweep-lock"))
	sched := scheduler.New(svc, locker, schedCfg, bookingCfg.Location, logger.WithField("component", "scheduler"))
	if schedCfg.Enabled {
		go sched.Start(ctx)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger.WithField("component", "http")))

	httpLog := logger.WithField("component", "handler")
	router.RegisterRoutes(e, router.Handlers{
		Health:   handler.Health(db),
		Bookings: handler.NewBookingHandler(svc, httpLog),
		Calendar: handler.NewCalendarHandler(svc, httpLog),
		Owner:    handler.NewOwnerHandler(svc, httpLog),
		Admin:    handler.NewAdminHandler(sched, httpLog),
	}, router.Middlewares{
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger.WithField("component", "ratelimit")),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger.WithField("component", "cache")),
	}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	// Let in-flight notifications finish before the process exits.
	svc.Wait()
}
