package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coach-portal-api/core/cache"
	"coach-portal-api/core/config"
	"coach-portal-api/core/constants"
	"coach-portal-api/core/database"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/queue"
	"coach-portal-api/core/storage"
	"coach-portal-api/modules/auth"
	"coach-portal-api/modules/booking"
	"coach-portal-api/modules/calendar"
	calendarEntity "coach-portal-api/modules/calendar/entity"
	calendarRepository "coach-portal-api/modules/calendar/repository"
	"coach-portal-api/modules/document"
	"coach-portal-api/modules/message"
	"coach-portal-api/modules/notification"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Run boots the whole application: config, logging, storage backends, the
// background worker and the HTTP server. It blocks until SIGINT/SIGTERM and
// then shuts everything down gracefully.
func Run() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.Get()

	logger.Init(cfg.Logger.Level, cfg.Logger.Format)

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	objectStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	queueClient := queue.NewClient(redisAddr, cfg.Redis.Password, cfg.Redis.DB)
	defer queueClient.Close()

	if err := seedCalendarCredentials(cfg, &db); err != nil {
		logger.Warn("calendar credential seeding skipped", "error", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(constants.TaskEmailSend, queue.HandleEmailSendTask)

	auth.Init(e, &db, redisCache)
	booking.Init(e, &db, redisCache, queueClient)
	calendar.Init(e, &db, redisCache, mux)
	message.Init(e, &db, redisCache)
	document.Init(e, &db, redisCache, objectStorage)
	notification.Init(e, &db, redisCache)

	worker := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr, Password: cfg.Redis.Password, DB: cfg.Redis.DB},
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				constants.QueueDefault: 3,
				constants.QueueSync:    2,
			},
		},
	)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("worker stopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
		}
	}()
	logger.Info("server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	worker.Shutdown()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// seedCalendarCredentials copies provider credentials from the environment
// into the database so every instance agrees on one set.
func seedCalendarCredentials(cfg *config.Config, db database.IDatabase) error {
	repo := calendarRepository.NewCalendarRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	providers := []struct {
		name         string
		clientID     string
		clientSecret string
	}{
		{"google", cfg.Google.ClientID, cfg.Google.ClientSecret},
		{"outlook", cfg.Outlook.ClientID, cfg.Outlook.ClientSecret},
	}
	for _, p := range providers {
		if p.clientID == "" || p.clientSecret == "" {
			continue
		}
		credential := &calendarEntity.CalendarCredential{
			Provider:     p.name,
			ClientID:     p.clientID,
			ClientSecret: p.clientSecret,
		}
		if err := repo.UpsertCredential(ctx, credential); err != nil {
			return err
		}
		logger.Info("calendar credentials seeded", "provider", p.name)
	}
	return nil
}
