package tracking

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"homely/models"
	"homely/utils"

	"go.uber.org/zap"
)

const locationKeyPrefix = "location:"

// DefaultTrackingService is the production TrackingService.
type DefaultTrackingService struct {
	Channel   RealtimeChannel
	Estimator DistanceEstimator // optional; ETA errors without one
}

// PublishLocation overwrites the provider's live-location record.
func (s *DefaultTrackingService) PublishLocation(providerID string, coords models.Coordinates) error {
	if providerID == "" {
		return fmt.Errorf("providerID is required")
	}
	record := models.ProviderLocation{
		ProviderID:  providerID,
		Coords:      coords,
		LastUpdated: time.Now().UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode location record: %w", err)
	}
	return s.Channel.Publish(locationKeyPrefix+providerID, payload)
}

// CurrentLocation returns the provider's latest location, or nil when the
// provider has never published.
func (s *DefaultTrackingService) CurrentLocation(providerID string) (*models.ProviderLocation, error) {
	payload, ok, err := s.Channel.Current(locationKeyPrefix + providerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeLocation(payload), nil
}

type channelSubscription struct {
	once   sync.Once
	cancel func()
}

func (s *channelSubscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe opens a long-lived feed on the provider's location. The handler
// fires once immediately with the current record (nil if absent), then on
// every subsequent publish until the subscription is cancelled.
func (s *DefaultTrackingService) Subscribe(providerID string, onUpdate func(*models.ProviderLocation)) (Subscription, error) {
	key := locationKeyPrefix + providerID

	cancel, err := s.Channel.Subscribe(key, func(payload []byte) {
		onUpdate(decodeLocation(payload))
	})
	if err != nil {
		return nil, err
	}

	current, ok, err := s.Channel.Current(key)
	if err != nil {
		cancel()
		return nil, err
	}
	if ok {
		onUpdate(decodeLocation(current))
	} else {
		onUpdate(nil)
	}

	return &channelSubscription{cancel: cancel}, nil
}

// ETA estimates travel time and distance between two points.
func (s *DefaultTrackingService) ETA(origin, destination models.Coordinates) (*models.ETAResult, error) {
	if s.Estimator == nil {
		return nil, fmt.Errorf("no distance estimator configured")
	}
	return s.Estimator.ETA(origin, destination)
}

func decodeLocation(payload []byte) *models.ProviderLocation {
	var record models.ProviderLocation
	if err := json.Unmarshal(payload, &record); err != nil {
		utils.GetLogger().Warn("dropping malformed location record", zap.Error(err))
		return nil
	}
	return &record
}
