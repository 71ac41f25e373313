// Package main provides the entrypoint for the SmartMove background worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/config"
	"github.com/smartmove/smartmove/internal/database"
	"github.com/smartmove/smartmove/internal/geo"
	"github.com/smartmove/smartmove/internal/incident"
	"github.com/smartmove/smartmove/internal/incident/cityfeed"
	"github.com/smartmove/smartmove/internal/prediction"
	"github.com/smartmove/smartmove/internal/provider/resilience"
	"github.com/smartmove/smartmove/internal/publisher"
	"github.com/smartmove/smartmove/internal/traffic"
	"github.com/smartmove/smartmove/internal/traffic/tomtom"
	"github.com/smartmove/smartmove/internal/trip"
	"github.com/smartmove/smartmove/internal/weather"
	"github.com/smartmove/smartmove/internal/weather/openmeteo"
	"github.com/smartmove/smartmove/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smartmove-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SmartMove worker")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Trip storage: postgres when configured so the worker refreshes
	// the same trips the API serves.
	var tripService *trip.Service
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		tripService = trip.NewService(trip.NewPostgresRepository(pool))
		log.Info().Str("host", dbConfig.Host).Msg("database connected")
	}

	registry := resilience.NewRegistry()
	resolver := geo.NewResolver(geo.ResolverConfig{Logger: log})

	var routingProvider traffic.Provider
	if cfg.Providers.Routing.BaseURL != "" {
		routingProvider = tomtom.NewClient(tomtom.ClientConfig{
			BaseURL:  cfg.Providers.Routing.BaseURL,
			APIKey:   cfg.Providers.Routing.APIKey,
			Timeout:  cfg.Providers.Routing.Timeout.Std(),
			Registry: registry,
			Logger:   log,
		})
	}

	weatherProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:  cfg.Providers.Weather.BaseURL,
		Registry: registry,
		Logger:   log,
	})

	var incidentProvider incident.Provider
	if cfg.Providers.Incidents.BaseURL != "" {
		incidentProvider = cityfeed.NewClient(cityfeed.ClientConfig{
			BaseURL:  cfg.Providers.Incidents.BaseURL,
			APIKey:   cfg.Providers.Incidents.APIKey,
			Registry: registry,
			Logger:   log,
		})
	}

	var sink prediction.Sink
	if cfg.PubSub.Enabled && cfg.PubSub.ProjectID != "" {
		pub, err := publisher.NewPubSub(ctx, publisher.PubSubConfig{
			ProjectID: cfg.PubSub.ProjectID,
			TopicName: cfg.PubSub.Topic,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub publisher")
		}
		defer func() {
			if closeErr := pub.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()
		sink = pub
		log.Info().
			Str("project_id", cfg.PubSub.ProjectID).
			Str("topic", cfg.PubSub.Topic).
			Msg("pubsub publisher initialized")
	} else {
		sink = publisher.NewNop()
		log.Info().Msg("pubsub not configured, predictions are not published")
	}

	predictionService := prediction.NewService(prediction.ServiceConfig{
		Routes: traffic.NewService(traffic.ServiceConfig{
			Provider: routingProvider,
			Resolver: resolver,
			Logger:   log,
		}),
		Weather: weather.NewService(weather.ServiceConfig{
			Provider: weatherProvider,
			Resolver: resolver,
			Logger:   log,
		}),
		Incidents: incident.NewService(incident.ServiceConfig{
			Provider: incidentProvider,
			Logger:   log,
		}),
		Sink:   sink,
		Logger: log,
	})

	job := worker.NewSampleJob(worker.SampleJobConfig{
		Config: worker.SampleConfig{
			Interval: cfg.Worker.Interval.Std(),
		},
		Predictions: predictionService,
		Trips:       tripService,
		Logger:      log,
	})

	// Health endpoint for the container platform
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"version": Version,
			"job":     job.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	go job.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
