// Package api provides the HTTP API for Tripfolio.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/api/handler"
	"github.com/tripfolio/tripfolio/internal/api/middleware"
	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/fxrates"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/internal/template"
	"github.com/tripfolio/tripfolio/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version          string
	BuildTime        string
	Logger           zerolog.Logger
	ServiceName      string
	Metrics          *middleware.Metrics
	AuthService      *auth.Service
	DevAuthEnabled   bool
	TripService      *trip.Service
	ItineraryService *itinerary.Service
	TemplateService  *template.Service
	FxService        *fxrates.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tripfolio-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	tripHandler := handler.NewTripHandler(cfg.TripService)
	itineraryHandler := handler.NewItineraryHandler(cfg.ItineraryService)
	templateHandler := handler.NewTemplateHandler(cfg.TemplateService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)             // 10 req/min
	expensiveRateLimit := middleware.RateLimitByUser(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
			if cfg.DevAuthEnabled {
				r.Post("/dev", authHandler.DevLogin)
			}
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Trips (authenticated) - user-based rate limiting
		r.Route("/trips", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", tripHandler.ListTrips)
			r.Post("/", tripHandler.CreateTrip)
			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.Delete("/", tripHandler.DeleteTrip)
				// Template replay is the expensive write path
				r.With(expensiveRateLimit).Post("/apply-template", templateHandler.ApplyToTrip)
			})
		})

		// Itineraries (authenticated)
		r.Route("/itineraries", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Route("/{itineraryId}", func(r chi.Router) {
				r.Get("/", itineraryHandler.GetItinerary)
				r.With(expensiveRateLimit).Post("/apply-template", templateHandler.ApplyToItinerary)
			})
		})

		// Exchange rates for pricing display (authenticated)
		if cfg.FxService != nil {
			fxHandler := handler.NewFxHandler(cfg.FxService)
			r.Route("/fx", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(standardRateLimit)
				r.Get("/rates", fxHandler.GetRates)
				r.Get("/convert", fxHandler.Convert)
			})
		}

		// Template library (authenticated)
		r.Route("/templates", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)
			r.Get("/", templateHandler.ListTemplates)
			r.Post("/from-itinerary", templateHandler.SaveFromItinerary)
			r.Post("/from-package", templateHandler.SaveFromPackage)
			r.Route("/{templateId}", func(r chi.Router) {
				r.Get("/", templateHandler.GetTemplate)
				r.Patch("/", templateHandler.UpdateTemplate)
				r.Delete("/", templateHandler.DeleteTemplate)
			})
		})
	})

	return r
}
