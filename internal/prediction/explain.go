package prediction

import (
	"fmt"

	"github.com/smartmove/smartmove/internal/weather"
)

// explanationInput carries the signals the generator reads.
type explanationInput struct {
	totalDelta    float64
	isPeak        bool
	snapshot      *weather.Snapshot
	incidentCount int
}

// explanationPoints builds the ordered list of short explanation
// strings. Each line appears only when its triggering condition holds.
func explanationPoints(in explanationInput) []string {
	points := make([]string, 0, 4)

	if in.totalDelta > 0 {
		points = append(points, fmt.Sprintf("Expected delay of %.0f minutes over the baseline estimate", in.totalDelta))
	}
	if in.isPeak {
		points = append(points, "Departure falls within a peak traffic window")
	}
	if in.snapshot != nil {
		if in.snapshot.HasFog() {
			points = append(points, "Fog is reducing visibility along the route")
		} else if in.snapshot.HasRain() {
			points = append(points, "Rain is slowing traffic along the route")
		}
	}
	if in.incidentCount > 0 {
		points = append(points, fmt.Sprintf("%d active incident(s) reported on the network", in.incidentCount))
	}

	return points
}

// recommendation picks a single advisory by priority.
func recommendation(in explanationInput) string {
	switch {
	case in.totalDelta > 15:
		savings := in.totalDelta * offsetFactor
		return fmt.Sprintf("Consider delaying departure to save an estimated %.0f minutes", savings)
	case in.isPeak:
		return "Peak traffic period, allow extra time for your trip"
	case in.snapshot != nil && in.snapshot.HasRain():
		return "Rain reported, drive carefully on slippery roads"
	default:
		return "Conditions are optimal for your trip"
	}
}
