package incident

import (
	"context"

	"github.com/rs/zerolog"
)

// Provider defines the interface for incident data providers.
type Provider interface {
	// GetActiveIncidents fetches the current list of active incidents.
	GetActiveIncidents(ctx context.Context) ([]Incident, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the incident service.
type ServiceConfig struct {
	// Provider is the incident data provider. Optional; when nil
	// every fetch returns an empty list.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides the active incident list. Fetch never fails; any
// provider error yields an empty list.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new incident service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Fetch returns the currently active incidents, or an empty list when
// the provider is unavailable.
func (s *Service) Fetch(ctx context.Context) []Incident {
	if s.provider == nil {
		return nil
	}

	incidents, err := s.provider.GetActiveIncidents(ctx)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Msg("incident provider failed, assuming no incidents")
		return nil
	}
	return incidents
}
