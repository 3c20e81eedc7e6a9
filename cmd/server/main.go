package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/chat"
	"github.com/fasthotel/hotel-api/internal/config"
	"github.com/fasthotel/hotel-api/internal/database"
	"github.com/fasthotel/hotel-api/internal/handler"
	"github.com/fasthotel/hotel-api/internal/logging"
	"github.com/fasthotel/hotel-api/internal/middleware"
	"github.com/fasthotel/hotel-api/internal/queue"
	"github.com/fasthotel/hotel-api/internal/repository"
	"github.com/fasthotel/hotel-api/internal/router"
	"github.com/fasthotel/hotel-api/internal/service"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		log.WithError(err).Fatal("database unavailable")
	}
	defer db.Close()

	if cfg.DBMigrate {
		if err := database.Migrate(db); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
	}

	rdb := config.NewRedisClient(ctx) // nil when Redis is not reachable
	if rdb != nil {
		defer rdb.Close()
	}

	var events ports.EventPublisher = queue.Noop{}
	if cfg.RabbitURL != "" {
		events = queue.NewPublisher(cfg.RabbitURL, log)

		eventLog := logging.File(cfg.EventLogPath, 10)
		defer eventLog.Close()
		go func() {
			if err := queue.NewConsumer(cfg.RabbitURL, eventLog, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("reservation event consumer stopped")
			}
		}()
	}

	store := repository.NewStore(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	authSvc := service.NewAuthService(users, tokens, service.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}, log)
	userSvc := service.NewUserService(users, tokens, cfg.BcryptCost, log)
	chatSvc := service.NewChatService(repository.NewChatRepo(db), store.Guests(), log)

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPass != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPass); err != nil {
			log.WithError(err).Fatal("seeding admin account failed")
		}
	}

	hub := chat.NewHub(chatSvc, cfg.ChatOrigins, log)
	if rdb != nil {
		b := chat.NewRedisBroadcaster(rdb, hub, log)
		hub.UseBroadcaster(b)
		go func() {
			if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("chat fan-out stopped")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Users:        handler.NewUserHandler(userSvc),
		Rooms:        handler.NewRoomHandler(service.NewRoomService(store, log)),
		Reservations: handler.NewReservationHandler(service.NewReservationService(store, events, log)),
		Guests:       handler.NewGuestHandler(service.NewGuestService(store, log)),
		Catalog:      handler.NewCatalogHandler(service.NewCatalogService(store)),
		Charges:      handler.NewChargeHandler(service.NewChargeService(store, log)),
		Payments:     handler.NewPaymentHandler(service.NewPaymentService(store, log)),
		Reports:      handler.NewReportHandler(service.NewReportService(repository.NewReportRepo(db))),
		Chat:         handler.NewChatHandler(chatSvc, hub, log),
	}, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		DB:        store,
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "env": cfg.Env}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
