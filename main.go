package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkstudio-backend/config"
	"inkstudio-backend/routes"
	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = utils.GenerateJWTSecret()
		logger.Warn("JWT_SECRET not set, using a random secret; sessions will not survive a restart")
	}

	flushSentry, err := config.InitSentry(cfg)
	if err != nil {
		logger.Error("sentry init failed", zap.Error(err))
	}
	defer flushSentry()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := config.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	loc := cfg.Location()

	var tokens services.TokenStore = services.NewMemoryTokenStore()
	if cfg.RedisURL != "" {
		redisStore, err := services.NewRedisTokenStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisStore.Close()
		tokens = redisStore
	}

	var verifier services.IDTokenVerifier
	if cfg.GoogleClientID != "" {
		verifier = services.NewGoogleVerifier(cfg.GoogleClientID)
	}

	var messenger services.Messenger = services.NewLinkMessenger(logger)
	if cfg.TwilioEnabled() {
		messenger = services.NewTwilioMessenger(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppNumber)
	}

	hub := services.NewSessionHub()
	notifier := services.NewNotifier(db, messenger, logger)
	auth := services.NewAuthService(db, tokens, verifier, hub, logger, services.AuthConfig{
		JWTSecret:   []byte(cfg.JWTSecret),
		TokenTTL:    cfg.JWTExpiry,
		AdminEmails: cfg.AdminEmails,
	})
	images := services.NewLocalImageStore(cfg.UploadDir, cfg.PublicBaseURL)
	profiles := services.NewProfileService(db, images, hub, logger)
	appointments := services.NewAppointmentService(db, hub, notifier, logger, loc)
	promotions := services.NewPromotionService(db, loc)

	reminders := services.NewReminderService(db, notifier, logger, loc)
	if err := reminders.StartScheduler(cfg.ReminderCron); err != nil {
		logger.Fatal("failed to start reminder scheduler", zap.Error(err))
	}

	limiterDone := make(chan struct{})
	authLimiter := utils.NewRateLimiter(10, 5)
	authLimiter.StartCleanup(limiterDone)

	r := routes.SetupRouter(routes.Deps{
		Config:       cfg,
		Logger:       logger,
		Auth:         auth,
		Profiles:     profiles,
		Appointments: appointments,
		Promotions:   promotions,
		Hub:          hub,
		AuthLimiter:  authLimiter,
	})
	if !cfg.IsProduction() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Close websocket streams first so Shutdown does not wait on them.
	hub.Close()
	close(limiterDone)
	reminders.StopScheduler()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	auth.Wait()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("database close error", zap.Error(err))
		}
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
