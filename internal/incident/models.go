// Package incident provides the active-incident feed for trip
// predictions. Fetch failures degrade to an empty list.
package incident

import (
	"errors"
	"strings"
	"time"
)

// ErrProviderUnavailable indicates the incident feed is down.
var ErrProviderUnavailable = errors.New("incident provider unavailable")

// Severity summary labels for a set of incidents.
const (
	SeverityNone  = "NONE"
	SeverityMinor = "MINOR"
	SeverityMajor = "MAJOR"
)

// Incident represents a reported traffic incident.
type Incident struct {
	ID          string
	Type        string
	Severity    string
	Location    string
	Description string
	ReportedAt  time.Time
}

// IsMajor reports whether the incident severity counts as major.
// Severity text is compared case-insensitively.
func (i *Incident) IsMajor() bool {
	s := strings.ToUpper(strings.TrimSpace(i.Severity))
	return s == "HIGH" || s == "MAJOR"
}

// SummarizeSeverity classifies a set of incidents as NONE, MINOR or
// MAJOR.
func SummarizeSeverity(incidents []Incident) string {
	if len(incidents) == 0 {
		return SeverityNone
	}
	for i := range incidents {
		if incidents[i].IsMajor() {
			return SeverityMajor
		}
	}
	return SeverityMinor
}
