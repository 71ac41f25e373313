package weather

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/geo"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// GetCurrent fetches current weather conditions for a location.
	GetCurrent(ctx context.Context, lat, lon float64) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// syntheticSource marks snapshots generated locally.
const syntheticSource = "synthetic"

// conditionWeight pairs a condition with its sampling weight.
type conditionWeight struct {
	condition string
	weight    int
}

// syntheticConditions is the weighted distribution used when the
// provider is unavailable.
var syntheticConditions = []conditionWeight{
	{"Clear", 50},
	{"Partly cloudy", 25},
	{"Overcast", 15},
	{"Rain", 7},
	{"Drizzle", 3},
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider. Optional; when nil every
	// fetch produces a synthetic snapshot.
	Provider Provider

	// Resolver maps origin names to coordinates (required).
	Resolver *geo.Resolver

	// Rand is the random source for synthetic snapshots.
	// Optional; defaults to a time-seeded source.
	Rand *rand.Rand

	// Clock is the time source (optional, defaults to the real clock).
	Clock clockwork.Clock

	// CacheTTL is how long to cache weather data (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Points within the same grid cell share cached data.
	CacheGridSize float64

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides weather snapshots with caching and a synthetic
// fallback. Fetch never fails.
type Service struct {
	provider      Provider
	resolver      *geo.Resolver
	rand          *rand.Rand
	clock         clockwork.Clock
	cacheTTL      time.Duration
	cacheGridSize float64
	logger        zerolog.Logger

	mu    sync.Mutex
	cache map[string]*cachedSnapshot
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at the equator
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Service{
		provider:      cfg.Provider,
		resolver:      cfg.Resolver,
		rand:          rnd,
		clock:         clock,
		cacheTTL:      cacheTTL,
		cacheGridSize: cacheGridSize,
		logger:        cfg.Logger,
		cache:         make(map[string]*cachedSnapshot),
	}
}

// Fetch returns current weather for the named origin. Unresolvable
// names fall back to the city center, and provider failures fall back
// to a synthetic snapshot, so the result is always usable.
func (s *Service) Fetch(ctx context.Context, origin string) *Snapshot {
	coord, err := s.resolver.ResolveCoordinates(origin)
	if err != nil {
		s.logger.Debug().
			Str("origin", origin).
			Msg("origin not resolved, using city center for weather")
		coord = geo.CasablancaCenter
	}

	cacheKey := s.cacheKey(coord.Lat, coord.Lon)

	s.mu.Lock()
	if cached, ok := s.cache[cacheKey]; ok && s.clock.Now().Before(cached.expiresAt) {
		s.mu.Unlock()
		return cached.snapshot
	}
	s.mu.Unlock()

	snapshot := s.fetchFromProvider(ctx, coord)
	if snapshot == nil {
		return s.synthesize()
	}

	s.mu.Lock()
	s.cache[cacheKey] = &cachedSnapshot{
		snapshot:  snapshot,
		expiresAt: s.clock.Now().Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return snapshot
}

func (s *Service) fetchFromProvider(ctx context.Context, coord geo.Coordinate) *Snapshot {
	if s.provider == nil {
		return nil
	}

	snapshot, err := s.provider.GetCurrent(ctx, coord.Lat, coord.Lon)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Float64("lat", coord.Lat).
			Float64("lon", coord.Lon).
			Msg("weather provider failed, synthesizing snapshot")
		return nil
	}
	return snapshot
}

// synthesize builds a plausible snapshot from the weighted condition
// distribution and fixed value ranges.
func (s *Service) synthesize() *Snapshot {
	return &Snapshot{
		Condition:        s.sampleCondition(),
		TemperatureC:     math.Round(18 + s.rand.Float64()*12),
		VisibilityMeters: math.Round(8000 + s.rand.Float64()*2000),
		WindSpeedKmh:     math.Round(s.rand.Float64() * 25),
		Source:           syntheticSource,
		FetchedAt:        s.clock.Now(),
	}
}

func (s *Service) sampleCondition() string {
	total := 0
	for _, cw := range syntheticConditions {
		total += cw.weight
	}

	roll := s.rand.Intn(total)
	for _, cw := range syntheticConditions {
		roll -= cw.weight
		if roll < 0 {
			return cw.condition
		}
	}
	return syntheticConditions[0].condition
}

// cacheKey groups nearby points into grid cells to reduce API calls.
func (s *Service) cacheKey(lat, lon float64) string {
	gridLat := math.Floor(lat/s.cacheGridSize) * s.cacheGridSize
	gridLon := math.Floor(lon/s.cacheGridSize) * s.cacheGridSize
	return fmt.Sprintf("%.2f:%.2f", gridLat, gridLon)
}

// InvalidateCache clears all cached snapshots.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSnapshot)
}
