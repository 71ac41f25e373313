// Package traffic provides baseline route estimates for a trip,
// preferring an external routing provider and falling back to a
// self-contained geospatial estimator.
package traffic

import (
	"context"
	"errors"

	"github.com/smartmove/smartmove/internal/geo"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates the provider could not produce a route for the pair.
	ErrNoRouteFound = errors.New("no route found between the given locations")
	// ErrIncompleteRoute indicates the provider answered without a usable duration.
	ErrIncompleteRoute = errors.New("provider route is missing a duration")
)

// Mode represents a transport mode.
type Mode string

const (
	ModeDriving Mode = "driving"
	ModeTransit Mode = "transit"
	ModeWalking Mode = "walking"
)

// ParseMode normalizes a free-text transport mode, defaulting to driving.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeTransit:
		return ModeTransit
	case ModeWalking:
		return ModeWalking
	default:
		return ModeDriving
	}
}

// RiskLevel classifies the congestion risk of a route estimate.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RouteRequest identifies the trip to estimate.
type RouteRequest struct {
	Origin      string
	Destination string
	Mode        Mode
}

// RouteEstimate is the baseline distance/duration pair for a trip.
type RouteEstimate struct {
	DistanceKm          float64
	DurationMinutes     float64
	TrafficDelayMinutes float64
	RiskLevel           RiskLevel
	Geometry            []geo.Coordinate // optional, provider routes only
	Source              string           // provider name or "fallback"
}

// Provider defines the interface for routing providers.
type Provider interface {
	// GetRoute retrieves a route estimate for the trip.
	GetRoute(ctx context.Context, req RouteRequest) (*RouteEstimate, error)
	// Name returns the provider identifier for logging and health tracking.
	Name() string
}

// Error provides detailed error information from a routing provider.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
