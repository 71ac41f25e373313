// Package trip provides monitored trip management: saved
// origin-destination pairs whose predicted duration is tracked over
// time.
package trip

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
)

// MonitoredTrip represents a saved trip under monitoring.
type MonitoredTrip struct {
	ID                      string
	UserID                  string
	Label                   string
	Origin                  string
	Destination             string
	TransportMode           string
	OriginalDurationMinutes float64
	LastPredictedMinutes    *float64
	Active                  bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
