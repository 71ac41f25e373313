package prediction

import (
	"github.com/smartmove/smartmove/internal/traffic"
	"github.com/smartmove/smartmove/internal/weather"
)

// Delta magnitudes, in minutes.
const (
	rainDelayMinutes   = 5.0
	fogDelayMinutes    = 8.0
	perIncidentMinutes = 10.0
	peakDrivingMinutes = 20.0
	peakTransitMinutes = 15.0

	// historicalBiasFactor corrects the baseline's systematic
	// optimism for driving trips.
	historicalBiasFactor = 0.10
)

// weatherDelta returns the additional minutes attributable to the
// current weather. Walking trips are unaffected.
func weatherDelta(snapshot *weather.Snapshot, mode traffic.Mode) float64 {
	if mode == traffic.ModeWalking || snapshot == nil {
		return 0
	}
	if snapshot.HasRain() {
		return rainDelayMinutes
	}
	if snapshot.HasFogCondition() {
		return fogDelayMinutes
	}
	return 0
}

// incidentDelta returns the additional minutes attributable to active
// incidents. Only driving trips are affected.
func incidentDelta(count int, mode traffic.Mode) float64 {
	if mode == traffic.ModeWalking || mode == traffic.ModeTransit {
		return 0
	}
	return float64(count) * perIncidentMinutes
}

// isPeakHour reports whether the local hour falls in a peak window.
func isPeakHour(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 20)
}

// peakDelta returns the additional minutes for peak-hour departures.
func peakDelta(hour int, mode traffic.Mode) float64 {
	if !isPeakHour(hour) || mode == traffic.ModeWalking {
		return 0
	}
	if mode == traffic.ModeTransit {
		return peakTransitMinutes
	}
	return peakDrivingMinutes
}

// historicalBias returns the fixed optimism correction applied to
// driving baselines.
func historicalBias(baseDuration float64, mode traffic.Mode) float64 {
	if mode != traffic.ModeDriving {
		return 0
	}
	return baseDuration * historicalBiasFactor
}
