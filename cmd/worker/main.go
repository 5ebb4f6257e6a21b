// Package main provides the entrypoint for the Tripfolio background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripfolio/tripfolio/internal/fxrates"
	"github.com/tripfolio/tripfolio/internal/fxrates/exchangeratehost"
	"github.com/tripfolio/tripfolio/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripfolio-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting Tripfolio worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the fx rates service and refresh job
	fxProvider := exchangeratehost.NewClient(exchangeratehost.ClientConfig{
		APIKey: os.Getenv("FX_API_KEY"),
		Logger: log,
	})
	fxService := fxrates.NewService(fxrates.ServiceConfig{
		Provider: fxProvider,
		Logger:   log,
	})

	refreshConfig := worker.DefaultRefreshConfig()
	if bases := os.Getenv("FX_REFRESH_BASES"); bases != "" {
		refreshConfig.Bases = strings.Split(bases, ",")
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:    refreshConfig,
		Logger:    log,
		FxService: fxService,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub-triggered refresh; fall back to a ticker loop otherwise
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscriptionName := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscriptionName != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscriptionName,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().Msg("pubsub not configured, falling back to interval refresh")

		interval := time.Hour
		if raw := os.Getenv("FX_REFRESH_INTERVAL"); raw != "" {
			if parsed, err := time.ParseDuration(raw); err == nil {
				interval = parsed
			}
		}

		go func() {
			refreshJob.Run(ctx)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					refreshJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
