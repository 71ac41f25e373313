// Package geo resolves free-text location names to coordinates and
// realistic road distances, with a haversine fallback when a pair is
// not covered by the curated distance graph.
package geo

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrLocationNotFound indicates a name matched nothing in the location table.
var ErrLocationNotFound = errors.New("location not found")

const (
	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// roadFactor corrects straight-line distance to road distance.
	roadFactor = 1.3
)

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	// Logger for resolver operations.
	Logger zerolog.Logger

	// Rand is the random source for the estimated distance bands used
	// when neither the graph nor coordinates cover a pair.
	// If nil, a clock-seeded source is used.
	Rand *rand.Rand
}

// Resolver answers coordinate, distance, and duration queries against
// the static location tables.
type Resolver struct {
	logger zerolog.Logger
	rand   *rand.Rand
}

// NewResolver creates a new Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resolver{
		logger: cfg.Logger,
		rand:   rnd,
	}
}

// NormalizeName lowercases a location name, strips everything except
// letters, digits, and spaces, and collapses repeated whitespace.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ResolveCoordinates resolves a free-text name to coordinates.
// Tries an exact match on the normalized name, then a substring match
// in either direction. Returns ErrLocationNotFound when nothing matches.
func (r *Resolver) ResolveCoordinates(name string) (Coordinate, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Coordinate{}, ErrLocationNotFound
	}

	if c, ok := locationCoords[normalized]; ok {
		return c, nil
	}

	for key, c := range locationCoords {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return c, nil
		}
	}

	return Coordinate{}, ErrLocationNotFound
}

// ResolveDistanceKm returns a realistic road distance between two named
// locations. Lookup order: exact pair in the distance graph, substring
// match within the origin's adjacency list, substring match across the
// whole graph, haversine between resolved coordinates, and finally a
// magnitude band based on whether both names are in the same metro area.
func (r *Resolver) ResolveDistanceKm(origin, destination string) float64 {
	originKey := NormalizeName(origin)
	destKey := NormalizeName(destination)

	if adjacency, ok := distanceGraph[originKey]; ok {
		if km, ok := adjacency[destKey]; ok {
			return km
		}
		for key, km := range adjacency {
			if strings.Contains(destKey, key) || strings.Contains(key, destKey) {
				return km
			}
		}
	}

	for outerKey, adjacency := range distanceGraph {
		if !strings.Contains(originKey, outerKey) && !strings.Contains(outerKey, originKey) {
			continue
		}
		for innerKey, km := range adjacency {
			if strings.Contains(destKey, innerKey) || strings.Contains(innerKey, destKey) {
				return km
			}
		}
	}

	originCoord, originErr := r.ResolveCoordinates(origin)
	destCoord, destErr := r.ResolveCoordinates(destination)
	if originErr == nil && destErr == nil {
		return HaversineKm(originCoord, destCoord) * roadFactor
	}

	if r.sameMetroArea(origin, destination) {
		km := 5 + r.rand.Float64()*10 // 5-15 km within the metro area
		r.logger.Debug().
			Str("origin", origin).
			Str("destination", destination).
			Float64("distance_km", km).
			Msg("estimated same-area distance")
		return km
	}

	km := 50 + r.rand.Float64()*50 // 50-100 km between cities
	r.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Float64("distance_km", km).
		Msg("estimated inter-city distance")
	return km
}

// EstimateDurationMinutes converts a distance into a driving duration
// using average speeds by distance tier. Short urban trips average
// well below free-flow speed because of lights and turns.
func EstimateDurationMinutes(distanceKm float64) float64 {
	var averageSpeed float64
	switch {
	case distanceKm <= 5:
		averageSpeed = 18
	case distanceKm <= 15:
		averageSpeed = 22
	case distanceKm <= 30:
		averageSpeed = 30
	case distanceKm <= 100:
		averageSpeed = 60
	default:
		averageSpeed = 90
	}

	minutes := distanceKm / averageSpeed * 60
	return math.Max(2, minutes)
}

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(a, b Coordinate) float64 {
	latDelta := toRadians(b.Lat - a.Lat)
	lonDelta := toRadians(b.Lon - a.Lon)

	h := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(lonDelta/2)*math.Sin(lonDelta/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

// sameMetroArea reports whether both names match the metro keyword list.
func (r *Resolver) sameMetroArea(origin, destination string) bool {
	return matchesMetro(origin) && matchesMetro(destination)
}

func matchesMetro(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range metroKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
