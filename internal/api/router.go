// Package api provides the HTTP API for SakayMap.
package api

import (
	"context"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sakaymap/sakaymap/internal/api/handler"
	"github.com/sakaymap/sakaymap/internal/api/middleware"
	"github.com/sakaymap/sakaymap/internal/auth"
	"github.com/sakaymap/sakaymap/internal/directions"
	"github.com/sakaymap/sakaymap/internal/places"
	"github.com/sakaymap/sakaymap/internal/provider/resilience"
	"github.com/sakaymap/sakaymap/internal/review"
	"github.com/sakaymap/sakaymap/internal/trip"
	"github.com/sakaymap/sakaymap/internal/user"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	AllowedOrigins    []string
	Metrics           *middleware.Metrics
	ProviderRegistry  *resilience.Registry
	ReadyFunc         func(ctx context.Context) error
	AuthService       *auth.Service
	UserService       *user.Service
	ReviewService     *review.Service
	PlacesService     *places.Service
	DirectionsService *directions.Service
	TripSessions      *trip.SessionManager
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "sakaymap-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))        // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))      // Panic recovery
	r.Use(chimiddleware.RealIP)                 // Real IP extraction
	r.Use(middleware.CORS(cfg.AllowedOrigins))  // Browser clients
	r.Use(middleware.SecurityHeaders)           // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)                // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)           // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ProviderRegistry, cfg.ReadyFunc)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.UserService)
	reviewHandler := handler.NewReviewHandler(cfg.ReviewService)
	adminHandler := handler.NewAdminHandler(cfg.UserService)
	placesHandler := handler.NewPlacesHandler(cfg.PlacesService)
	routeHandler := handler.NewRouteHandler(cfg.DirectionsService)
	tripHandler := handler.NewTripHandler(cfg.TripSessions)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/resend-otp", authHandler.ResendOTP)
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Place search (public) - standard rate limiting
		r.Route("/places", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/autocomplete", placesHandler.Autocomplete)
			r.Get("/reverse", placesHandler.ReverseGeocode)
			r.Get("/{placeId}", placesHandler.Resolve)
		})

		// Routes endpoint - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/routes:compute", routeHandler.ComputeRoutes)

		// Me endpoints (authenticated) - user-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", meHandler.GetMe)
			r.Put("/profile", meHandler.UpdateProfile)
		})

		// Reviews (authenticated)
		r.Route("/reviews", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", reviewHandler.ListReviews)
			r.Post("/", reviewHandler.CreateReview)
		})

		// Trip planning sessions (authenticated)
		r.Route("/trip", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", tripHandler.GetTrip)
			r.Post("/routes", tripHandler.FetchRoutes)
			r.Post("/routes/{index}/select", tripHandler.SelectRoute)
			r.Post("/close", tripHandler.CloseTrip)
			r.Post("/modal/drag", tripHandler.DragModal)
		})

		// Admin endpoints (authenticated, admin role required)
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin)
			r.Use(standardRateLimit)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/role", adminHandler.UpdateRole)
		})
	})

	return r
}
