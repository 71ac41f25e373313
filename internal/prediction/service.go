package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/geo"
	"github.com/smartmove/smartmove/internal/incident"
	"github.com/smartmove/smartmove/internal/traffic"
	"github.com/smartmove/smartmove/internal/weather"
)

// DefaultFetchTimeout bounds each individual upstream fetch.
const DefaultFetchTimeout = 3 * time.Second

// Sink receives finished predictions for downstream propagation.
// Implementations must not block and must swallow their own failures.
type Sink interface {
	Publish(ctx context.Context, p *Enriched)
}

// ServiceConfig holds the dependencies for the prediction engine.
type ServiceConfig struct {
	// Routes produces the baseline estimate (required).
	Routes *traffic.Service

	// Weather produces the current-condition snapshot (required).
	Weather *weather.Service

	// Incidents produces the active incident list (required).
	Incidents *incident.Service

	// Sink receives finished predictions (optional).
	Sink Sink

	// Clock is the time source (optional, defaults to the real clock).
	Clock clockwork.Clock

	// FetchTimeout bounds each upstream fetch (default: 3s).
	FetchTimeout time.Duration

	// Logger for engine operations.
	Logger zerolog.Logger
}

// Service is the trip prediction engine. Predict always returns a
// complete result; upstream failures degrade to local fallbacks
// inside the individual services.
type Service struct {
	routes       *traffic.Service
	weather      *weather.Service
	incidents    *incident.Service
	sink         Sink
	clock        clockwork.Clock
	fetchTimeout time.Duration
	logger       zerolog.Logger
}

// NewService creates a new prediction engine.
func NewService(cfg ServiceConfig) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Service{
		routes:       cfg.Routes,
		weather:      cfg.Weather,
		incidents:    cfg.Incidents,
		sink:         cfg.Sink,
		clock:        clock,
		fetchTimeout: fetchTimeout,
		logger:       cfg.Logger,
	}
}

// Predict produces the enriched prediction for the requested trip.
func (s *Service) Predict(ctx context.Context, req Request) *Enriched {
	mode := traffic.ParseMode(req.TransportMode)
	departure := s.resolveDeparture(req)

	estimate, snapshot, incidents := s.fetchContext(ctx, req, mode)

	base := estimate.DurationMinutes
	if base < 1 {
		base = 1
	}

	wd := weatherDelta(snapshot, mode)
	id := incidentDelta(len(incidents), mode)
	pd := peakDelta(departure.Hour(), mode)
	bias := historicalBias(base, mode)
	totalDelta := wd + id + pd + bias

	hasMajor := incident.SummarizeSeverity(incidents) == incident.SeverityMajor
	impact := normalizeImpact(impactSignals{
		baseDuration:     base,
		trafficDelay:     estimate.TrafficDelayMinutes,
		weatherDelta:     wd,
		peakDelta:        pd,
		incidentCount:    len(incidents),
		hasMajorIncident: hasMajor,
	})

	score := riskScore(totalDelta, base)
	predicted := round1(base + totalDelta)

	explain := explanationInput{
		totalDelta:    totalDelta,
		isPeak:        isPeakHour(departure.Hour()),
		snapshot:      snapshot,
		incidentCount: len(incidents),
	}

	result := &Enriched{
		Origin:      req.Origin,
		Destination: req.Destination,
		Timestamp:   s.clock.Now().Format(time.RFC3339),

		PredictedDuration: predicted,
		BaseDuration:      round1(base),
		DistanceKm:        round1(estimate.DistanceKm),
		DurationText:      durationText(predicted),

		DepartureTime: departure.Format("15:04"),
		ArrivalTime:   arrivalTime(departure, predicted),

		RiskLevel:     riskLevel(score),
		RiskScore:     score,
		ImpactFactors: impact,

		IsPeakHour:       isPeakHour(departure.Hour()),
		HasIncidents:     len(incidents) > 0,
		WeatherCondition: snapshot.Condition,
		TrafficCondition: trafficCondition(estimate.RiskLevel),

		ExplanationPoints: explanationPoints(explain),
		AIRecommendation:  recommendation(explain),

		Temperature: snapshot.TemperatureC,
		Visibility:  snapshot.VisibilityMeters,
		WindSpeed:   snapshot.WindSpeedKmh,

		IncidentCount:    len(incidents),
		IncidentSeverity: incident.SummarizeSeverity(incidents),

		ConfidenceScore:      confidenceScore(snapshot.IsObserved(), mode),
		RecommendationOffset: recommendationOffset(totalDelta),

		RouteGeometry: toGeoPoints(estimate.Geometry),
	}

	s.logger.Info().
		Str("origin", req.Origin).
		Str("destination", req.Destination).
		Str("mode", string(mode)).
		Float64("predicted_duration", result.PredictedDuration).
		Int("risk_score", result.RiskScore).
		Str("risk_level", result.RiskLevel).
		Msg("prediction computed")

	if s.sink != nil {
		s.sink.Publish(ctx, result)
	}

	return result
}

// fetchContext issues the three upstream fetches concurrently, each
// with its own timeout. Every fetch degrades internally, so all three
// results are always usable.
func (s *Service) fetchContext(ctx context.Context, req Request, mode traffic.Mode) (*traffic.RouteEstimate, *weather.Snapshot, []incident.Incident) {
	var (
		wg        sync.WaitGroup
		estimate  *traffic.RouteEstimate
		snapshot  *weather.Snapshot
		incidents []incident.Incident
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		estimate = s.routes.Estimate(fetchCtx, traffic.RouteRequest{
			Origin:      req.Origin,
			Destination: req.Destination,
			Mode:        mode,
		})
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		snapshot = s.weather.Fetch(fetchCtx, req.Origin)
	}()

	go func() {
		defer wg.Done()
		fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
		incidents = s.incidents.Fetch(fetchCtx)
	}()

	wg.Wait()

	if snapshot == nil {
		snapshot = weather.Default()
	}

	return estimate, snapshot, incidents
}

// resolveDeparture parses the requested departure, treating missing
// or malformed values as "now".
func (s *Service) resolveDeparture(req Request) time.Time {
	now := s.clock.Now()
	if req.DepartureTime == "" {
		return now
	}

	clock, err := time.Parse("15:04", req.DepartureTime)
	if err != nil {
		s.logger.Debug().
			Str("departure_time", req.DepartureTime).
			Msg("unparseable departure time, using now")
		return now
	}

	day := now
	if req.DepartureDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.DepartureDate); err == nil {
			day = parsed
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location())
}

// trafficCondition renders the route risk level as display text.
func trafficCondition(level traffic.RiskLevel) string {
	switch level {
	case traffic.RiskHigh:
		return "Heavy traffic"
	case traffic.RiskMedium:
		return "Moderate traffic"
	default:
		return "Light traffic"
	}
}

func toGeoPoints(coords []geo.Coordinate) []GeoPoint {
	if len(coords) == 0 {
		return nil
	}
	points := make([]GeoPoint, 0, len(coords))
	for _, c := range coords {
		points = append(points, GeoPoint{Lat: c.Lat, Lon: c.Lon})
	}
	return points
}
