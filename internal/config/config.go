// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "30s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `yaml:"port" validate:"gte=1,lte=65535"`
	Env  string `yaml:"env" validate:"oneof=development staging production"`
}

// ProviderConfig holds the settings for one external provider.
type ProviderConfig struct {
	BaseURL string   `yaml:"baseUrl"`
	APIKey  string   `yaml:"apiKey"`
	Timeout Duration `yaml:"timeout"`
}

// ProvidersConfig groups the external data providers.
type ProvidersConfig struct {
	Routing   ProviderConfig `yaml:"routing"`
	Weather   ProviderConfig `yaml:"weather"`
	Incidents ProviderConfig `yaml:"incidents"`
}

// PubSubConfig holds event publishing settings.
type PubSubConfig struct {
	Enabled   bool   `yaml:"enabled"`
	ProjectID string `yaml:"projectId"`
	Topic     string `yaml:"topic"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	OTLPEndpoint string `yaml:"otlpEndpoint"`
}

// WorkerConfig holds background worker settings.
type WorkerConfig struct {
	Interval Duration `yaml:"interval" validate:"gte=0"`
}

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`
	PubSub    PubSubConfig    `yaml:"pubsub"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Worker    WorkerConfig    `yaml:"worker"`
}

// Default returns the configuration used when no file or overrides
// are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Env:  "development",
		},
		Providers: ProvidersConfig{
			Routing:   ProviderConfig{Timeout: Duration(5 * time.Second)},
			Weather:   ProviderConfig{Timeout: Duration(5 * time.Second)},
			Incidents: ProviderConfig{Timeout: Duration(5 * time.Second)},
		},
		PubSub: PubSubConfig{
			Topic: "trip-predictions",
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: "localhost:4317",
		},
		Worker: WorkerConfig{
			Interval: Duration(60 * time.Second),
		},
	}
}

// Load reads configuration from the given YAML file (optional),
// applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values.
func applyEnvOverrides(cfg *Config) {
	if port := os.Getenv("APP_PORT"); port != "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			cfg.Server.Port = p
		}
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Server.Env = env
	}

	if v := os.Getenv("ROUTING_BASE_URL"); v != "" {
		cfg.Providers.Routing.BaseURL = v
	}
	if v := os.Getenv("ROUTING_API_KEY"); v != "" {
		cfg.Providers.Routing.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.Providers.Weather.BaseURL = v
	}
	if v := os.Getenv("INCIDENTS_BASE_URL"); v != "" {
		cfg.Providers.Incidents.BaseURL = v
	}
	if v := os.Getenv("INCIDENTS_API_KEY"); v != "" {
		cfg.Providers.Incidents.APIKey = v
	}

	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		cfg.PubSub.ProjectID = v
		cfg.PubSub.Enabled = true
	}
	if v := os.Getenv("PUBSUB_TOPIC"); v != "" {
		cfg.PubSub.Topic = v
	}

	if os.Getenv("OTEL_ENABLED") == "true" {
		cfg.Telemetry.Enabled = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}

	if v := os.Getenv("WORKER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Worker.Interval = Duration(d)
		}
	}
}
