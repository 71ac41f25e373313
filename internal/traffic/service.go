package traffic

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/geo"
)

const (
	// fallbackSource marks estimates produced without a provider.
	fallbackSource = "fallback"

	// maxTrafficVariation is the upper bound of the synthetic traffic
	// delay applied on the fallback path, as a fraction of the base.
	maxTrafficVariation = 0.15

	// mediumRiskDelayMinutes is the delay above which a fallback
	// estimate is classified MEDIUM instead of LOW.
	mediumRiskDelayMinutes = 5.0
)

// ServiceConfig holds the dependencies for the route estimator.
type ServiceConfig struct {
	// Provider is the external routing provider. Optional; when nil
	// every estimate takes the fallback path.
	Provider Provider

	// Resolver supplies distances for the fallback path (required).
	Resolver *geo.Resolver

	// Rand is the random source for synthetic traffic variation.
	// Optional; defaults to a time-seeded source.
	Rand *rand.Rand

	// Logger for estimator operations.
	Logger zerolog.Logger
}

// Service produces baseline route estimates, preferring the external
// provider and degrading to a self-contained estimate on any failure.
type Service struct {
	provider Provider
	resolver *geo.Resolver
	rand     *rand.Rand
	logger   zerolog.Logger
}

// NewService creates a new route estimator service.
func NewService(cfg ServiceConfig) *Service {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		provider: cfg.Provider,
		resolver: cfg.Resolver,
		rand:     rnd,
		logger:   cfg.Logger,
	}
}

// Estimate returns a baseline route estimate for the trip. Provider
// failures never propagate; the fallback estimate is always usable.
func (s *Service) Estimate(ctx context.Context, req RouteRequest) *RouteEstimate {
	if s.provider != nil {
		estimate, err := s.provider.GetRoute(ctx, req)
		if err == nil && estimate != nil && estimate.DurationMinutes > 0 {
			if estimate.Source == "" {
				estimate.Source = s.provider.Name()
			}
			return estimate
		}
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("provider", s.provider.Name()).
				Str("origin", req.Origin).
				Str("destination", req.Destination).
				Msg("routing provider failed, using fallback estimate")
		}
	}
	return s.fallbackEstimate(req)
}

// fallbackEstimate builds an estimate from resolved distance, a
// speed-tier duration model, and a synthetic 0-15% traffic variation.
func (s *Service) fallbackEstimate(req RouteRequest) *RouteEstimate {
	distanceKm := s.resolver.ResolveDistanceKm(req.Origin, req.Destination)
	base := geo.EstimateDurationMinutes(distanceKm)
	delay := s.rand.Float64() * maxTrafficVariation * base

	risk := RiskLow
	if delay > mediumRiskDelayMinutes {
		risk = RiskMedium
	}

	estimate := &RouteEstimate{
		DistanceKm:          round1(distanceKm),
		DurationMinutes:     round1(base + delay),
		TrafficDelayMinutes: round1(delay),
		RiskLevel:           risk,
		Source:              fallbackSource,
	}

	s.logger.Debug().
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Float64("distance_km", estimate.DistanceKm).
		Float64("duration_min", estimate.DurationMinutes).
		Str("risk", string(risk)).
		Msg("built fallback route estimate")

	return estimate
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
