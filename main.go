package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"casaligan-admin-server/config"
	"casaligan-admin-server/database"
	"casaligan-admin-server/events"
	"casaligan-admin-server/jobs"
	"casaligan-admin-server/middleware"
	"casaligan-admin-server/routes"
	"casaligan-admin-server/services"
	"casaligan-admin-server/telemetry"
	ws "casaligan-admin-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()
	cfg := config.AppConfig

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		runSeed(cfg)
		return
	}

	// Set Gin mode
	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracing := telemetry.Setup(cfg.Telemetry)

	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		log.Printf("⚠️ Unknown timezone %q, using UTC: %v", cfg.Booking.Timezone, err)
		loc = time.UTC
	}

	// Initialize database
	if err := database.Initialize(cfg.Database); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	store := database.NewBookingStore(database.GetDB())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live booking feed for open consoles
	hub := ws.NewHub(cfg.Server.AllowedOrigins)
	go hub.Run(ctx)

	publishers := services.MultiPublisher{hub}
	if cfg.RabbitMQ.URL != "" {
		publisher, err := events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, booking events stay local: %v", err)
		} else {
			defer publisher.Close()
			publishers = append(publishers, publisher)
			log.Printf("📡 Publishing booking events to exchange %s", cfg.RabbitMQ.Exchange)
		}
	}

	var writeQuota *middleware.WriteQuota
	if cfg.Redis.Addr != "" {
		writeQuota, err = middleware.NewWriteQuota(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.WriteQuotaPerMinute, time.Minute)
		if err != nil {
			log.Fatal("Failed to configure write quota:", err)
		}
		defer writeQuota.Close()
		log.Printf("✅ Booking write quota: %d per minute per admin", cfg.Redis.WriteQuotaPerMinute)
	}

	bookings := services.NewBookingService(store, services.BookingServiceOptions{
		StrictStatus: cfg.Booking.StrictStatus,
		MaxWindow:    cfg.Booking.MaxWindow,
		Location:     loc,
	})
	bookingRouter := services.NewBookingRouter(store, bookings, publishers)
	auth := services.NewAdminAuthService(database.NewAdminDirectory(database.GetDB()))

	if !cfg.Booking.StrictStatus {
		log.Println("⚠️ Lenient status mode: unknown booking statuses are shown as pending")
	}

	rateLimiter := middleware.NewRateLimiter(time.Hour)
	cleanupJob := jobs.NewLimiterCleanupJob(rateLimiter, 10*time.Minute)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	router := routes.NewRouter(routes.Dependencies{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           auth,
		Bookings: routes.NewBookingHandler(bookings, bookingRouter, routes.BookingHandlerOptions{
			DefaultPageSize: cfg.Booking.DefaultPageSize,
			MaxPageSize:     cfg.Booking.MaxPageSize,
			Location:        loc,
		}),
		Hub:         hub,
		RateLimiter: rateLimiter,
		WriteQuota:  writeQuota,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           otelhttp.NewHandler(router, "casaligan-admin-server"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown failed: %v", err)
	}
	cancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("⚠️ Tracer shutdown failed: %v", err)
	}
	log.Println("✅ Server stopped")
}

// runSeed migrates the schema and loads demo bookings.
func runSeed(cfg *config.Config) {
	dbCfg := cfg.Database
	dbCfg.AutoMigrate = true
	if err := database.Initialize(dbCfg); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	if err := seedBookings(dbCfg.URL); err != nil {
		log.Fatal("Failed to seed bookings:", err)
	}
}
