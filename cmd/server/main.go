package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/api"
	"github.com/hugh/go-taskboard/internal/api/middleware"
	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/database"
	"github.com/hugh/go-taskboard/internal/projects"
	"github.com/hugh/go-taskboard/internal/store"
	"github.com/hugh/go-taskboard/pkg/config"
	"github.com/hugh/go-taskboard/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLoggerTo(os.Stdout, cfg.Server.Env, cfg.Server.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting taskboard server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Versioned migrations run through taskctl; AutoMigrate is for scratch
	// databases only.
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Error("failed to auto-migrate", "error", err)
			os.Exit(1)
		}
		logger.Warn("schema created with AutoMigrate")
	}

	// Connect to Redis. Without it logout cannot revoke tokens.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, token revocation disabled", "error", err)
		_ = redisClient.Close()
		redisClient = nil
	}
	cancelPing()

	// Initialize services
	st := store.New(db)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry()).WithIssuer(cfg.JWT.Issuer)
	authService := auth.NewService(st, jwtService, auth.NewRevoker(redisClient), logger)
	projectService := projects.NewService(st, access.NewAuthorizer(st), logger)

	var metrics *middleware.Metrics
	if cfg.Server.MetricsEnabled {
		metrics = middleware.NewMetrics("taskboard", logger)
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		DB:             db,
		Redis:          redisClient,
		Logger:         logger,
		AuthService:    authService,
		Projects:       projectService,
		Metrics:        metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
		LoginRateLimit: cfg.RateLimit.LoginPerMinute,
		UserRateLimit:  cfg.RateLimit.UserPerMinute,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	router.Close()

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	// Close database connection
	if err := database.Close(db); err != nil {
		logger.Error("closing database", "error", err)
	}

	logger.Info("server stopped")
}
