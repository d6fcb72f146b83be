package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/pawsitivelybooked/server/internal/application"
	"github.com/pawsitivelybooked/server/internal/auth"
	"github.com/pawsitivelybooked/server/internal/config"
	"github.com/pawsitivelybooked/server/internal/database"
	"github.com/pawsitivelybooked/server/internal/events"
	"github.com/pawsitivelybooked/server/internal/geo"
	"github.com/pawsitivelybooked/server/internal/handler"
	"github.com/pawsitivelybooked/server/internal/logger"
	"github.com/pawsitivelybooked/server/internal/middleware"
	"github.com/pawsitivelybooked/server/internal/notification"
	"github.com/pawsitivelybooked/server/internal/repository"
	"github.com/pawsitivelybooked/server/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "pawsitivelybooked-server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting pawsitivelybooked-server",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.FacilityModel{},
			&repository.FacilityPhotoModel{},
			&repository.DogModel{},
			&repository.BookingModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	// Initialize Kafka producer
	producer := events.NewProducer(cfg.KafkaBrokers, log)
	defer func() { _ = producer.Close() }()

	// Initialize Redis-backed geocoder
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = redisClient.Close() }()
	geocoder := geo.NewHTTPGeocoder(cfg.Geocoder, redisClient, log)

	// Initialize outbound mail
	mailer := notification.NewSMTPSender(cfg.SMTP)

	// Initialize photo storage
	photoStore, err := storage.NewLocalPhotoStore(cfg.UploadRoot)
	if err != nil {
		log.Fatal("failed to initialize photo storage", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	facilityRepo := repository.NewGormFacilityRepository(db)
	dogRepo := repository.NewGormDogRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	sweepStore := repository.NewGormSweepStore(db)

	// Initialize application services
	userService := application.NewUserService(userRepo, jwtManager, geocoder, log)
	facilityService := application.NewFacilityService(facilityRepo, geocoder, photoStore, log)
	dogService := application.NewDogService(dogRepo, log)
	bookingService := application.NewBookingService(bookingRepo, facilityRepo, userRepo, mailer, producer, log)
	lifecycleService := application.NewLifecycleService(
		sweepStore, facilityRepo, userRepo, mailer, producer, cfg.Sweep.ExpireElapsed, log)

	// Start the lifecycle sweep scheduler
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go lifecycleService.Start(ctx, cfg.Sweep.Interval)

	// Initialize HTTP handlers
	userHandler := handler.NewUserHandler(userService)
	facilityHandler := handler.NewFacilityHandler(facilityService)
	dogHandler := handler.NewDogHandler(dogService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	adminHandler := handler.NewAdminHandler(bookingService, lifecycleService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Health check
	router.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Register routes
	userHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	facilityHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	dogHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down pawsitivelybooked-server...")

	// Stop the sweep scheduler
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("pawsitivelybooked-server stopped")
}
