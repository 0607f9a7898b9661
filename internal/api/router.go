package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/go-taskboard/internal/api/handlers"
	"github.com/hugh/go-taskboard/internal/api/middleware"
	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/projects"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiters' background cleanup.
func (rt *Router) Close() {
	for _, l := range rt.limiters {
		l.Stop()
	}
}

// rateLimit builds a limiter the router owns and returns its middleware.
func (rt *Router) rateLimit(requests, windowSeconds int, key func(*http.Request) string) func(http.Handler) http.Handler {
	l := middleware.NewRateLimiter(requests, windowSeconds)
	rt.limiters = append(rt.limiters, l)
	return l.Middleware(key)
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	AuthService    auth.Authenticator
	Projects       *projects.Service
	Metrics        *middleware.Metrics // nil disables /metrics
	AllowedOrigins []string            // CORS allowed origins
	RateLimitReqs  int                 // Rate limit requests per window
	RateLimitSecs  int                 // Rate limit window in seconds
	LoginRateLimit int                 // Login attempts per minute per client, 0 disables
	UserRateLimit  int                 // Authenticated requests per minute per user, 0 disables
}

func NewRouter(cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()
	rt := &Router{Router: r}

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(rt.rateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs, middleware.ByClientIP))
	}

	// CORS - restrict to configured origins
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	projectHandler := handlers.NewProjectHandler(cfg.Projects)
	boardHandler := handlers.NewBoardHandler(cfg.Projects)
	userHandler := handlers.NewUserHandler(cfg.AuthService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Group(func(r chi.Router) {
			if cfg.LoginRateLimit > 0 {
				r.Use(rt.rateLimit(cfg.LoginRateLimit, 60, middleware.ByClientIP))
			}
			r.Post("/auth/login", authHandler.Login)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.AuthService))
			if cfg.UserRateLimit > 0 {
				r.Use(rt.rateLimit(cfg.UserRateLimit, 60, middleware.ByUser))
			}

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
			r.Get("/users", userHandler.List)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", projectHandler.Get)
					r.Patch("/", projectHandler.Update)
					r.Delete("/", projectHandler.Delete)

					r.Get("/members", projectHandler.ListMembers)
					r.Post("/members", projectHandler.AddMember)
					r.Patch("/members/{userID}", projectHandler.UpdateMember)
					r.Delete("/members/{userID}", projectHandler.RemoveMember)

					r.Get("/boards", boardHandler.ListBoards)
					r.Post("/boards", boardHandler.CreateBoard)
				})
			})

			r.Route("/boards/{id}", func(r chi.Router) {
				r.Get("/", boardHandler.GetBoard)
				r.Patch("/", boardHandler.UpdateBoard)
				r.Delete("/", boardHandler.DeleteBoard)

				r.Get("/tasks", boardHandler.ListTasks)
				r.Post("/tasks", boardHandler.CreateTask)
			})

			r.Route("/tasks/{id}", func(r chi.Router) {
				r.Get("/", boardHandler.GetTask)
				r.Patch("/", boardHandler.UpdateTask)
				r.Delete("/", boardHandler.DeleteTask)

				r.Get("/comments", boardHandler.ListComments)
				r.Post("/comments", boardHandler.AddComment)
			})
		})
	})

	return rt
}
