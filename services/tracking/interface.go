package tracking

import "homely/models"

// RealtimeChannel is the narrow last-write-wins keyed feed the tracker rides
// on: one current value per key plus change notifications.
type RealtimeChannel interface {
	// Publish overwrites the current value for key and notifies subscribers.
	Publish(key string, value []byte) error
	// Current returns the latest value for key, or ok=false when none exists.
	Current(key string) (value []byte, ok bool, err error)
	// Subscribe registers a handler for future publishes on key and returns
	// a cancel function. Cancelling is synchronous and idempotent, and never
	// affects other subscriptions on the same key.
	Subscribe(key string, handler func(value []byte)) (cancel func(), err error)
}

// DistanceEstimator is the external ETA collaborator.
type DistanceEstimator interface {
	ETA(origin, destination models.Coordinates) (*models.ETAResult, error)
}

// Subscription is a live location feed handle.
type Subscription interface {
	// Cancel stops further updates. Idempotent.
	Cancel()
}

// TrackingService maintains the live position feed keyed by provider id.
type TrackingService interface {
	// PublishLocation overwrites the provider's live-location record,
	// stamping the server time. No history is kept.
	PublishLocation(providerID string, coords models.Coordinates) error
	// CurrentLocation returns the provider's latest location, or nil when
	// the provider has never published.
	CurrentLocation(providerID string) (*models.ProviderLocation, error)
	// Subscribe opens a long-lived feed: onUpdate fires once immediately
	// with the current record (nil if absent) and then on every publish.
	Subscribe(providerID string, onUpdate func(*models.ProviderLocation)) (Subscription, error)
	// ETA estimates travel time and distance between two points.
	ETA(origin, destination models.Coordinates) (*models.ETAResult, error)
}
