// Package weather provides current-condition snapshots for a trip
// origin, with a synthesized local fallback when the provider fails.
package weather

import (
	"errors"
	"strings"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Snapshot represents the weather conditions relevant to a trip.
type Snapshot struct {
	// Condition is a short free-text description ("Clear", "Rain", ...).
	Condition string

	// TemperatureC is the air temperature in Celsius.
	TemperatureC float64

	// VisibilityMeters is the horizontal visibility.
	VisibilityMeters float64

	// WindSpeedKmh is the wind speed in km/h.
	WindSpeedKmh float64

	// Source identifies where the snapshot came from.
	Source string

	// FetchedAt is when the snapshot was obtained.
	FetchedAt time.Time
}

// HasRain reports whether the condition indicates rain.
func (s *Snapshot) HasRain() bool {
	c := strings.ToLower(s.Condition)
	return strings.Contains(c, "rain") || strings.Contains(c, "pluie")
}

// HasFogCondition reports whether the condition text itself mentions
// fog, regardless of visibility.
func (s *Snapshot) HasFogCondition() bool {
	c := strings.ToLower(s.Condition)
	return strings.Contains(c, "fog") || strings.Contains(c, "brouillard")
}

// HasFog reports whether fog conditions apply, either by condition
// text or by visibility below 1km.
func (s *Snapshot) HasFog() bool {
	if s.HasFogCondition() {
		return true
	}
	return s.VisibilityMeters > 0 && s.VisibilityMeters < 1000
}

// IsObserved reports whether the snapshot came from a real provider
// rather than a locally generated fallback.
func (s *Snapshot) IsObserved() bool {
	return s.Source != "" && s.Source != "synthetic" && s.Source != "default"
}

// Default returns a neutral snapshot used when no data is available.
func Default() *Snapshot {
	return &Snapshot{
		Condition:        "Clear",
		TemperatureC:     22,
		VisibilityMeters: 10000,
		WindSpeedKmh:     10,
		Source:           "default",
	}
}
