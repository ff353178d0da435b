package models

import "time"

// Coordinates is a geographic point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ProviderLocation is the single live-location record kept per provider.
// Last write wins; no history is retained.
type ProviderLocation struct {
	ProviderID  string      `json:"providerId"`
	Coords      Coordinates `json:"coords"`
	LastUpdated time.Time   `json:"lastUpdated"` // stamped server-side on publish
}

// ETAResult carries the human-readable estimate from the distance collaborator.
type ETAResult struct {
	DurationText string `json:"durationText"` // e.g. "15 mins"
	DistanceText string `json:"distanceText"` // e.g. "5.2 km"
}
