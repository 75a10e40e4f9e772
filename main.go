package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carenow/config"
	"carenow/cron"
	"carenow/database"
	bookingRepoPkg "carenow/database/repository/booking"
	deviceRepoPkg "carenow/database/repository/device"
	partnerRepoPkg "carenow/database/repository/partner"
	"carenow/handlers"
	"carenow/middleware"
	"carenow/routes"
	"carenow/services/booking"
	"carenow/services/matching"
	"carenow/services/notification"
	"carenow/services/tasks"
	"carenow/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	partnerRepo := partnerRepoPkg.NewMongoPartnerRepo()
	deviceRepo := deviceRepoPkg.NewMongoDeviceRepo()

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	if err := bookingRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create booking indexes: %v", err)
	}
	if err := partnerRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create partner indexes: %v", err)
	}

	// Services.
	notificationService := notification.NewFCMNotificationService(deviceRepo, utils.FCMClient, logger)

	availabilityChecker := &matching.DefaultAvailabilityChecker{
		BookingRepo: bookingRepo,
	}
	matchingService := &matching.DefaultMatchingService{
		PartnerRepo:  partnerRepo,
		Availability: availabilityChecker,
		CacheClient:  utils.GetCacheClient(),
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	bookingService := &booking.DefaultBookingService{
		Repo:      bookingRepo,
		Matcher:   matchingService,
		Notifier:  notificationService,
		Reminders: tasks.NewAsynqReminderScheduler(asynqClient),
		Clock:     utils.RealClock{},
	}
	paymentService := booking.NewPaymentService(bookingRepo, logger)

	// Background workers and monitors.
	cron.StartReminderWorker(notificationService)
	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

	// Handlers.
	bookingHandler := handlers.NewBookingHandler(bookingService, paymentService, logger)
	partnerHandler := handlers.NewPartnerHandler(matchingService, partnerRepo)
	deviceHandler := handlers.NewDeviceHandler(deviceRepo)

	handlerBundle := &handlers.HandlerBundle{
		// Booking endpoints.
		CreateBooking:   bookingHandler.CreateBooking,
		GetBooking:      bookingHandler.GetBooking,
		ListBookings:    bookingHandler.ListBookings,
		AcceptBooking:   bookingHandler.AcceptBooking,
		StartBooking:    bookingHandler.StartBooking,
		CompleteBooking: bookingHandler.CompleteBooking,
		CancelBooking:   bookingHandler.CancelBooking,
		ProcessPayment:  bookingHandler.ProcessPayment,

		// Partner endpoints.
		MatchPartners:  partnerHandler.MatchPartners,
		GetTopRated:    partnerHandler.GetTopRated,
		GetPartnerByID: partnerHandler.GetPartnerByID,

		// Device endpoints.
		UpdateDeviceToken: deviceHandler.UpdateToken,
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
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
