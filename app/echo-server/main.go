package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexiDaily/app/echo-server/router"
	"lexiDaily/business/scheduler"
	"lexiDaily/business/selection"
	userService "lexiDaily/business/user"
	"lexiDaily/business/words"
	"lexiDaily/internal/middleware"
	"lexiDaily/internal/repository/notification"
	psqlRepo "lexiDaily/internal/repository/postgres"
	redisRepo "lexiDaily/internal/repository/redis"
	"lexiDaily/internal/rest"
	"lexiDaily/pkg/config"
	"lexiDaily/pkg/database"
	redisdb "lexiDaily/pkg/database/redis"
	"lexiDaily/pkg/logger"
	"lexiDaily/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting LexiDaily", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}

	// Push gateway collaborator
	pushRepo := notification.NewPushRepository(
		notification.PushConfig{
			PushBaseURL:           cfg.Push.PushBaseUrl,
			PushBasicAuthUsername: cfg.Push.PushBasicAuthUsername,
			PushBasicAuthPassword: cfg.Push.PushBasicAuthPassword,
		},
	)

	// Init validate
	validate := validator.New()

	// Init repo
	wordRepo := psqlRepo.NewWordRepository(db)
	cycleRepo := psqlRepo.NewCycleRepository(db)
	userCycleRepo := psqlRepo.NewUserCycleRepository(db)
	dailyRepo := psqlRepo.NewDailyWordRepository(db)
	userWordRepo := psqlRepo.NewUserWordRepository(db)
	scheduleRepo := psqlRepo.NewScheduleRepository(db)
	deliveryRepo := psqlRepo.NewDeliveryRepository(db)
	userRepo := psqlRepo.NewUserRepository(db)
	analyticsRepo := psqlRepo.NewAnalyticsRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(redisClient)
	wordCache := redisRepo.NewDailyWordCache(redisClient)

	// Init service
	selectionService := selection.NewService(wordRepo, cycleRepo, userCycleRepo, dailyRepo, userWordRepo, wordCache)
	schedulerService := scheduler.NewService(scheduleRepo, deliveryRepo, selectionService, pushRepo, analyticsRepo, cfg.Scheduler.BatchSize)
	wordService := words.NewWordService(wordRepo)
	usrService := userService.NewUserService(userRepo, tokenRepo, validate)

	// Init handler
	wordHandler := rest.NewWordOfDayHandler(selectionService)
	scheduleHandler := rest.NewScheduleHandler(schedulerService)
	wordAdminHandler := rest.NewWordAdminHandler(wordService)
	userHandler := rest.NewUserHandler(usrService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddlewareWithRedis(usrService)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupWordRoutes(api, wordHandler, authRequired)
	router.SetupScheduleRoutes(api, scheduleHandler, authRequired)
	router.SetupAdminWordRoutes(api, wordAdminHandler, authRequired, adminOnly)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Scheduler loop: drives proactive word deliveries
	schedulerDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.Scheduler.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				runCtx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.Interval)
				if err := schedulerService.RunDueSchedules(runCtx, time.Now()); err != nil {
					logger.Error("Scheduler run failed", "error", err)
				}
				cancel()
			case <-schedulerDone:
				return
			}
		}
	}()

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	close(schedulerDone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisdb.CloseRedisClient(redisClient); err != nil {
		logger.Error("Failed to close Redis client", "error", err)
	}

	logger.Info("Server stopped")
}
