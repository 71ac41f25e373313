// Package prediction implements the trip duration prediction engine:
// a baseline route estimate corrected by weather, incident and
// peak-hour deltas, with a risk score, a confidence score and
// generated explanations.
package prediction

// Request describes the trip to predict.
type Request struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
	TransportMode string `json:"transportMode,omitempty"`
}

// ImpactFactors is the percentage share each signal contributes to
// the predicted delay. The four fields always sum to exactly 100.
type ImpactFactors struct {
	Traffic   int `json:"traffic"`
	Weather   int `json:"weather"`
	Incidents int `json:"incidents"`
	PeakHour  int `json:"peakHour"`
}

// GeoPoint is a coordinate pair in the route geometry.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Enriched is the full prediction output record.
type Enriched struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Timestamp   string `json:"timestamp"`

	PredictedDuration float64 `json:"predictedDuration"`
	BaseDuration      float64 `json:"baseDuration"`
	DistanceKm        float64 `json:"distanceKm"`
	DurationText      string  `json:"durationText"`

	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`

	RiskLevel     string        `json:"riskLevel"`
	RiskScore     int           `json:"riskScore"`
	ImpactFactors ImpactFactors `json:"impactFactors"`

	IsPeakHour       bool   `json:"isPeakHour"`
	HasIncidents     bool   `json:"hasIncidents"`
	WeatherCondition string `json:"weatherCondition"`
	TrafficCondition string `json:"trafficCondition"`

	ExplanationPoints []string `json:"explanationPoints"`
	AIRecommendation  string   `json:"aiRecommendation"`

	Temperature float64 `json:"temperature"`
	Visibility  float64 `json:"visibility"`
	WindSpeed   float64 `json:"windSpeed"`

	IncidentCount    int    `json:"incidentCount"`
	IncidentSeverity string `json:"incidentSeverity"`

	ConfidenceScore      float64 `json:"confidenceScore"`
	RecommendationOffset float64 `json:"recommendationOffset"`

	RouteGeometry []GeoPoint `json:"routeGeometry,omitempty"`
}
