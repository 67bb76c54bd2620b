package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canchas/config"
	"canchas/cron"
	"canchas/database"
	submissionRepo "canchas/database/repository/submission"
	"canchas/handlers"
	"canchas/middleware"
	"canchas/routes"
	"canchas/services/api"
	"canchas/services/reservation"
	"canchas/services/session"
	"canchas/services/tasks"
	"canchas/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()

	loc := config.Location()

	// Create the Gin router.
	router := gin.New()
	if err := router.SetTrustedProxies(config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("main: invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	journal := submissionRepo.NewMongoSubmissionRepo()
	if err := journal.EnsureIndexes(); err != nil {
		logger.Warn("main: failed to ensure submission indexes", zap.Error(err))
	}

	// backend client and queue.
	backend := api.NewClient(
		config.AppConfig.APIBaseURL,
		config.AppConfig.APITimeout,
		config.AppConfig.APIRequestsPerSec,
		logger.Named("backend"),
	)
	asynqClient := asynq.NewClient(cron.RedisOpt())
	defer asynqClient.Close()
	compensations := &tasks.CompensationQueue{
		Client:   asynqClient,
		MaxRetry: config.AppConfig.CompensationMaxRetry,
	}

	// services.
	sessionService := &session.DefaultSessionService{
		API:    backend,
		Cache:  utils.GetSessionCacheClient(),
		TTL:    config.AppConfig.SessionTTL,
		Logger: logger.Named("session"),
	}

	plannerService := &reservation.DefaultPlannerService{
		API:   backend,
		Store: reservation.NewRedisDraftStore(utils.GetDraftCacheClient(), config.AppConfig.DraftTTL),
		Submitter: &reservation.Submitter{
			API:      backend,
			Journal:  journal,
			Queue:    compensations,
			Clock:    reservation.RealClock{},
			Location: loc,
			Origin:   config.AppConfig.PublicOrigin,
			Logger:   logger.Named("submit"),
		},
		Clock:    reservation.RealClock{},
		Location: loc,
		Logger:   logger.Named("planner"),
	}

	worker := cron.InitCompensationWorker(backend, journal, config.AppConfig.APIServiceToken)

	ctx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(ctx,
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetDraftCacheClient()},
		database.MongoClient,
	)

	authHandler := handlers.NewAuthHandler(sessionService)
	reservationHandler := handlers.NewReservationHandler(plannerService)
	qrHandler := handlers.NewQRHandler(config.AppConfig.PublicOrigin)
	adminHandler := handlers.NewAdminHandler(journal)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		SessionAuth: middleware.SessionAuthMiddleware(sessionService),

		// Auth endpoints.
		LoginHandler:  authHandler.LoginHandler,
		LogoutHandler: authHandler.LogoutHandler,
		MeHandler:     authHandler.MeHandler,

		// Reservation endpoints.
		GetCanchaHandler:    reservationHandler.GetCanchaHandler,
		StartDraftHandler:   reservationHandler.StartDraftHandler,
		GetDraftHandler:     reservationHandler.GetDraftHandler,
		SetFechaHandler:     reservationHandler.SetFechaHandler,
		SetCupoHandler:      reservationHandler.SetCupoHandler,
		ToggleSlotHandler:   reservationHandler.ToggleSlotHandler,
		ConfirmHandler:      reservationHandler.ConfirmHandler,
		DiscardDraftHandler: reservationHandler.DiscardDraftHandler,

		// QR endpoints.
		GetQRHandler: qrHandler.GetQRHandler,

		// Admin endpoints.
		ListSubmissionsHandler: adminHandler.ListSubmissionsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	if err := database.MongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
