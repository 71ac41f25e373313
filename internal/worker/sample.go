// Package worker provides background job processing for SmartMove.
package worker

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/smartmove/smartmove/internal/prediction"
	"github.com/smartmove/smartmove/internal/trip"
)

// SampleConfig holds configuration for the sample prediction job.
type SampleConfig struct {
	// Interval between job runs. Default: 60 seconds.
	Interval time.Duration

	// Locations is the pool of origin/destination names to sample
	// from. If empty, uses DefaultSampleLocations.
	Locations []string

	// Modes is the pool of transport modes to sample from.
	// If empty, uses driving, transit, and walking.
	Modes []string

	// Timeout bounds each job run. Default: 30 seconds.
	Timeout time.Duration
}

// DefaultSampleLocations returns the default location pool: the
// Casablanca hubs with the densest trip traffic.
func DefaultSampleLocations() []string {
	return []string{
		"Maarif",
		"Technopark",
		"Ain Diab",
		"Sidi Maarouf",
		"Centre Ville",
		"Casa Port",
		"Anfa",
		"Bourgogne",
	}
}

// DefaultSampleConfig returns the default sample job configuration.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Interval:  60 * time.Second,
		Locations: DefaultSampleLocations(),
		Modes:     []string{"driving", "driving", "transit", "walking"},
		Timeout:   30 * time.Second,
	}
}

// SampleJobConfig holds the dependencies for creating a SampleJob.
type SampleJobConfig struct {
	Config      SampleConfig
	Predictions *prediction.Service
	Trips       *trip.Service
	Rand        *rand.Rand
	Clock       clockwork.Clock
	Logger      zerolog.Logger
}

// SampleJob periodically runs a prediction for a random location pair
// and refreshes the predictions of every active monitored trip. The
// prediction engine forwards each result to its sink, so every run
// feeds the downstream event stream.
type SampleJob struct {
	config      SampleConfig
	predictions *prediction.Service
	trips       *trip.Service
	rand        *rand.Rand
	clock       clockwork.Clock
	logger      zerolog.Logger

	metrics *SampleMetrics
}

// SampleMetrics tracks sample job statistics.
type SampleMetrics struct {
	mu sync.RWMutex

	TotalRuns       int64
	SamplesEmitted  int64
	TripsRefreshed  int64
	TripRefreshErrs int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// NewSampleJob creates a new sample prediction job.
func NewSampleJob(cfg SampleJobConfig) *SampleJob {
	config := cfg.Config
	if config.Interval == 0 {
		config.Interval = DefaultSampleConfig().Interval
	}
	if len(config.Locations) == 0 {
		config.Locations = DefaultSampleLocations()
	}
	if len(config.Modes) == 0 {
		config.Modes = DefaultSampleConfig().Modes
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultSampleConfig().Timeout
	}

	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &SampleJob{
		config:      config,
		predictions: cfg.Predictions,
		trips:       cfg.Trips,
		rand:        rnd,
		clock:       clock,
		logger:      cfg.Logger,
		metrics:     &SampleMetrics{},
	}
}

// Start runs the job on its interval until the context is cancelled.
func (j *SampleJob) Start(ctx context.Context) {
	j.logger.Info().
		Dur("interval", j.config.Interval).
		Int("location_pool", len(j.config.Locations)).
		Msg("starting sample prediction job")

	ticker := j.clock.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("sample prediction job stopped")
			return
		case <-ticker.Chan():
			j.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single job run: one sampled prediction plus a
// refresh of all active monitored trips.
func (j *SampleJob) RunOnce(ctx context.Context) {
	start := j.clock.Now()
	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	origin, destination := j.samplePair()
	mode := j.config.Modes[j.rand.Intn(len(j.config.Modes))]

	result := j.predictions.Predict(runCtx, prediction.Request{
		Origin:        origin,
		Destination:   destination,
		TransportMode: mode,
	})

	j.logger.Debug().
		Str("origin", origin).
		Str("destination", destination).
		Str("mode", mode).
		Float64("predicted_min", result.PredictedDuration).
		Str("risk", result.RiskLevel).
		Msg("emitted sample prediction")

	refreshed, failed := j.refreshActiveTrips(runCtx)

	j.metrics.mu.Lock()
	j.metrics.TotalRuns++
	j.metrics.SamplesEmitted++
	j.metrics.TripsRefreshed += int64(refreshed)
	j.metrics.TripRefreshErrs += int64(failed)
	j.metrics.LastRunAt = j.clock.Now()
	j.metrics.LastRunDuration = j.clock.Now().Sub(start)
	j.metrics.mu.Unlock()
}

// samplePair picks two distinct locations from the pool.
func (j *SampleJob) samplePair() (string, string) {
	origin := j.config.Locations[j.rand.Intn(len(j.config.Locations))]
	destination := j.config.Locations[j.rand.Intn(len(j.config.Locations))]
	for destination == origin {
		destination = j.config.Locations[j.rand.Intn(len(j.config.Locations))]
	}
	return origin, destination
}

// refreshActiveTrips re-predicts every active monitored trip and
// stores the new duration. Errors are counted, not propagated.
func (j *SampleJob) refreshActiveTrips(ctx context.Context) (refreshed, failed int) {
	if j.trips == nil {
		return 0, 0
	}

	active, err := j.trips.ListActive(ctx)
	if err != nil {
		j.logger.Warn().Err(err).Msg("failed to list active trips")
		return 0, 1
	}

	for _, t := range active {
		result := j.predictions.Predict(ctx, prediction.Request{
			Origin:        t.Origin,
			Destination:   t.Destination,
			TransportMode: string(t.TransportMode),
		})

		if err := j.trips.RecordPrediction(ctx, t.ID, result.PredictedDuration); err != nil {
			j.logger.Warn().
				Err(err).
				Str("trip_id", t.ID).
				Msg("failed to record trip prediction")
			failed++
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		j.logger.Info().
			Int("refreshed", refreshed).
			Int("failed", failed).
			Msg("refreshed active trip predictions")
	}
	return refreshed, failed
}

// GetMetrics returns a copy of the current metrics.
func (j *SampleJob) GetMetrics() SampleMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return SampleMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SamplesEmitted:  j.metrics.SamplesEmitted,
		TripsRefreshed:  j.metrics.TripsRefreshed,
		TripRefreshErrs: j.metrics.TripRefreshErrs,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *SampleJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"samples_emitted":   m.SamplesEmitted,
		"trips_refreshed":   m.TripsRefreshed,
		"trip_refresh_errs": m.TripRefreshErrs,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
	}
}
