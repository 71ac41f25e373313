package models

// PredictionRequest is the body accepted by the prediction endpoint.
type PredictionRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
	TransportMode string `json:"transportMode,omitempty"`
}
