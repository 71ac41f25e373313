package prediction

import (
	"math"

	"github.com/smartmove/smartmove/internal/traffic"
)

const (
	baseConfidence            = 0.95
	missingWeatherPenalty     = 0.10
	transitUncertaintyPenalty = 0.15
	minConfidence             = 0.5

	// offsetFactor is the share of the total delta a traveler could
	// save by shifting departure out of the disruption window.
	offsetFactor = 0.4
)

// riskScore converts the total delta into a 0-100 score relative to
// the baseline duration.
func riskScore(totalDelta, baseDuration float64) int {
	if baseDuration < 1 {
		baseDuration = 1
	}
	score := int(math.Round(totalDelta / baseDuration * 100))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// riskLevel classifies a risk score.
func riskLevel(score int) string {
	switch {
	case score > 30:
		return "HIGH"
	case score > 10:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// confidenceScore measures data completeness on a 0.5-1.0 scale.
func confidenceScore(weatherAvailable bool, mode traffic.Mode) float64 {
	confidence := baseConfidence
	if !weatherAvailable {
		confidence -= missingWeatherPenalty
	}
	if mode == traffic.ModeTransit {
		confidence -= transitUncertaintyPenalty
	}
	if confidence < minConfidence {
		confidence = minConfidence
	}
	return confidence
}

// recommendationOffset is the minutes a traveler could save by
// delaying departure, when the delay is worth reacting to.
func recommendationOffset(totalDelta float64) float64 {
	if totalDelta > 10 {
		return round1(totalDelta * offsetFactor)
	}
	return 0
}
