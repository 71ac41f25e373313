// Package main provides the entrypoint for the SmartMove API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/api"
	"github.com/smartmove/smartmove/internal/api/handler"
	"github.com/smartmove/smartmove/internal/api/middleware"
	"github.com/smartmove/smartmove/internal/config"
	"github.com/smartmove/smartmove/internal/database"
	"github.com/smartmove/smartmove/internal/geo"
	"github.com/smartmove/smartmove/internal/incident"
	"github.com/smartmove/smartmove/internal/incident/cityfeed"
	"github.com/smartmove/smartmove/internal/prediction"
	"github.com/smartmove/smartmove/internal/provider/resilience"
	"github.com/smartmove/smartmove/internal/publisher"
	"github.com/smartmove/smartmove/internal/telemetry"
	"github.com/smartmove/smartmove/internal/traffic"
	"github.com/smartmove/smartmove/internal/traffic/tomtom"
	"github.com/smartmove/smartmove/internal/trip"
	"github.com/smartmove/smartmove/internal/weather"
	"github.com/smartmove/smartmove/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smartmove-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting SmartMove API")

	// Load configuration
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize OpenTelemetry
	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Server.Env,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		Enabled:        cfg.Telemetry.Enabled,
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

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database when configured; trips fall back to an
	// in-memory store otherwise.
	var tripRepo trip.Repository
	var dbPinger handler.Pinger
	if os.Getenv("DB_HOST") != "" {
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
		tripRepo = trip.NewPostgresRepository(pool)
		dbPinger = pool
	} else {
		log.Warn().Msg("DB_HOST not set, monitored trips are stored in memory")
		tripRepo = trip.NewInMemoryRepository()
	}

	// Shared provider health registry
	registry := resilience.NewRegistry()

	// Location resolver backing every fallback path
	resolver := geo.NewResolver(geo.ResolverConfig{Logger: log})

	// Routing provider (optional)
	var routingProvider traffic.Provider
	if cfg.Providers.Routing.BaseURL != "" {
		routingProvider = tomtom.NewClient(tomtom.ClientConfig{
			BaseURL:  cfg.Providers.Routing.BaseURL,
			APIKey:   cfg.Providers.Routing.APIKey,
			Timeout:  cfg.Providers.Routing.Timeout.Std(),
			Registry: registry,
			Logger:   log,
		})
		log.Info().Str("base_url", cfg.Providers.Routing.BaseURL).Msg("routing provider initialized")
	} else {
		log.Warn().Msg("routing provider not configured, estimates use the fallback model")
	}

	// Weather provider (defaults to the public Open-Meteo API)
	weatherProvider := openmeteo.NewClient(openmeteo.ClientConfig{
		BaseURL:  cfg.Providers.Weather.BaseURL,
		Registry: registry,
		Logger:   log,
	})

	// Incident provider (optional)
	var incidentProvider incident.Provider
	if cfg.Providers.Incidents.BaseURL != "" {
		incidentProvider = cityfeed.NewClient(cityfeed.ClientConfig{
			BaseURL:  cfg.Providers.Incidents.BaseURL,
			APIKey:   cfg.Providers.Incidents.APIKey,
			Registry: registry,
			Logger:   log,
		})
		log.Info().Str("base_url", cfg.Providers.Incidents.BaseURL).Msg("incident provider initialized")
	}

	// Event publisher
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

	// Domain services
	routeService := traffic.NewService(traffic.ServiceConfig{
		Provider: routingProvider,
		Resolver: resolver,
		Logger:   log,
	})
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: weatherProvider,
		Resolver: resolver,
		Logger:   log,
	})
	incidentService := incident.NewService(incident.ServiceConfig{
		Provider: incidentProvider,
		Logger:   log,
	})

	predictionService := prediction.NewService(prediction.ServiceConfig{
		Routes:    routeService,
		Weather:   weatherService,
		Incidents: incidentService,
		Sink:      sink,
		Logger:    log,
	})
	log.Info().Msg("prediction engine initialized")

	tripService := trip.NewService(tripRepo)
	log.Info().Msg("trip service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		PredictionService: predictionService,
		TripService:       tripService,
		ProviderRegistry:  registry,
		Database:          dbPinger,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
