package models

// Trip represents a monitored trip.
type Trip struct {
	ID                      string    `json:"id"`
	Label                   string    `json:"label"`
	Origin                  string    `json:"origin"`
	Destination             string    `json:"destination"`
	TransportMode           string    `json:"transportMode"`
	OriginalDurationMinutes float64   `json:"originalDurationMinutes"`
	LastPredictedMinutes    *float64  `json:"lastPredictedMinutes,omitempty"`
	Active                  bool      `json:"active"`
	CreatedAt               Timestamp `json:"createdAt"`
	UpdatedAt               Timestamp `json:"updatedAt"`
}

// TripCreateRequest is the request body for creating a trip.
type TripCreateRequest struct {
	Label                   string  `json:"label"`
	Origin                  string  `json:"origin"`
	Destination             string  `json:"destination"`
	TransportMode           string  `json:"transportMode,omitempty"`
	OriginalDurationMinutes float64 `json:"originalDurationMinutes,omitempty"`
}

// TripUpdateRequest is the request body for updating a trip.
// All fields are optional; only provided fields are updated.
type TripUpdateRequest struct {
	Label                *string  `json:"label,omitempty"`
	Origin               *string  `json:"origin,omitempty"`
	Destination          *string  `json:"destination,omitempty"`
	TransportMode        *string  `json:"transportMode,omitempty"`
	LastPredictedMinutes *float64 `json:"lastPredictedMinutes,omitempty"`
	Active               *bool    `json:"active,omitempty"`
}

// PagedTrips is a paginated list of trips.
type PagedTrips struct {
	Items []Trip            `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
