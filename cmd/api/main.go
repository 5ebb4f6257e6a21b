// Package main provides the entrypoint for the Tripfolio API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/activity"
	"github.com/tripfolio/tripfolio/internal/api"
	"github.com/tripfolio/tripfolio/internal/api/middleware"
	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/database"
	"github.com/tripfolio/tripfolio/internal/fxrates"
	"github.com/tripfolio/tripfolio/internal/fxrates/exchangeratehost"
	"github.com/tripfolio/tripfolio/internal/itinerary"
	"github.com/tripfolio/tripfolio/internal/telemetry"
	"github.com/tripfolio/tripfolio/internal/template"
	"github.com/tripfolio/tripfolio/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripfolio-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Tripfolio API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "https://api.tripfolio.io"
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     jwtIssuer,
		Audience:   serviceName,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	devAuthEnabled := os.Getenv("AUTH_DEV_MODE") == "true"
	if devAuthEnabled {
		log.Warn().Msg("dev auth endpoint enabled - not secure for production")
	}

	// Initialize domain repositories
	tripRepo := trip.NewPostgresRepository(pool)
	itineraryRepo := itinerary.NewPostgresRepository(pool)
	activityRepo := activity.NewPostgresRepository(pool)
	detailStore := activity.NewPostgresDetailStore(pool)
	templateRepo := template.NewPostgresRepository(pool)
	transactor := database.NewPgxTransactor(pool)

	// Initialize services
	tripService := trip.NewService(tripRepo)
	activityService := activity.NewService(activityRepo, detailStore, log)
	itineraryService := itinerary.NewService(itineraryRepo, activityRepo, detailStore)

	extractor := template.NewExtractor(itineraryRepo, activityRepo, detailStore, log)
	applier := template.NewApplier(tripRepo, itineraryRepo, activityService, transactor, log)
	templateService := template.NewService(templateRepo, extractor, applier, log)
	log.Info().Msg("template engine initialized")

	// Initialize exchange rates service
	fxProvider := exchangeratehost.NewClient(exchangeratehost.ClientConfig{
		APIKey: os.Getenv("FX_API_KEY"),
		Logger: log,
	})
	fxMetrics, err := middleware.NewProviderMetrics(exchangeratehost.ProviderName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}
	fxService := fxrates.NewService(fxrates.ServiceConfig{
		Provider: fxProvider,
		Logger:   log,
		Metrics:  fxMetrics,
	})
	log.Info().Msg("fx rates service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:          Version,
		BuildTime:        BuildTime,
		Logger:           log,
		ServiceName:      serviceName,
		Metrics:          metrics,
		AuthService:      authService,
		DevAuthEnabled:   devAuthEnabled,
		TripService:      tripService,
		ItineraryService: itineraryService,
		TemplateService:  templateService,
		FxService:        fxService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
