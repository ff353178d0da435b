// File: homely/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homely/config"
	"homely/cron"
	"homely/database"
	bookingRepoPkg "homely/database/repository/booking"
	catalogRepoPkg "homely/database/repository/catalog"
	requestRepoPkg "homely/database/repository/request"
	"homely/handlers"
	"homely/middleware"
	"homely/routes"
	"homely/services/catalog"
	"homely/services/lifecycle"
	"homely/services/negotiation"
	"homely/services/notify"
	"homely/services/tasks"
	"homely/services/tracking"
	"homely/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitTrackingClient()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	requestRepo := requestRepoPkg.NewMongoRequestRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()

	// services.
	catalogService := &catalog.DefaultCatalogService{
		Repo:  catalogRepo,
		Cache: utils.GetCacheClient(),
	}

	notifier := notify.NewFCMNotificationService()
	enqueuer := tasks.NewAsynqEnqueuer()

	negotiationService := &negotiation.DefaultNegotiationService{
		Requests: requestRepo,
		Bookings: bookingRepo,
		Notifier: notifier,
		Tasks:    enqueuer,
	}

	lifecycleService := &lifecycle.DefaultLifecycleService{
		Bookings:  bookingRepo,
		Catalog:   catalogRepo,
		Directory: catalogService,
		Tasks:     enqueuer,
	}

	trackingService := &tracking.DefaultTrackingService{
		Channel:   tracking.NewRedisChannel(utils.GetTrackingClient()),
		Estimator: tracking.NewGoogleDistanceEstimator(),
	}

	// Assemble the handler bundle and register all routes.
	handlerBundle := handlers.NewHandlerBundle(
		negotiationService,
		lifecycleService,
		trackingService,
		catalogService,
	)
	routes.SetupRouter(router, handlerBundle)

	// Background worker for accept reconciliation and recurrence retries.
	if !config.AppConfig.WorkerDisabled {
		cron.InitWorker(negotiationService, lifecycleService)
	}

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetTrackingClient()},
		database.MongoClient,
	)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
