package tracking

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"homely/config"
	"homely/models"
)

// distanceMatrixResponse mirrors the slice of the Google Distance Matrix
// response this service reads.
type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
	ErrorMessage string `json:"error_message"`
}

// GoogleDistanceEstimator calls the Google Distance Matrix API.
type GoogleDistanceEstimator struct {
	HTTPClient *http.Client
}

// NewGoogleDistanceEstimator returns an estimator with a bounded-timeout client.
func NewGoogleDistanceEstimator() *GoogleDistanceEstimator {
	return &GoogleDistanceEstimator{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ETA fetches the estimated travel time and distance between two points.
func (e *GoogleDistanceEstimator) ETA(origin, destination models.Coordinates) (*models.ETAResult, error) {
	apiKey := config.AppConfig.GoogleAPIKey
	if apiKey == "" {
		return nil, fmt.Errorf("google API key is not configured")
	}

	url := fmt.Sprintf(
		"https://maps.googleapis.com/maps/api/distancematrix/json?units=metric&origins=%f,%f&destinations=%f,%f&key=%s",
		origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude, apiKey,
	)

	resp, err := e.HTTPClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("distance matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload distanceMatrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}
	if payload.Status != "OK" || len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		if payload.ErrorMessage != "" {
			return nil, fmt.Errorf("distance matrix error: %s", payload.ErrorMessage)
		}
		return nil, fmt.Errorf("distance matrix returned status %q", payload.Status)
	}

	element := payload.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("no route between points: element status %q", element.Status)
	}
	return &models.ETAResult{
		DurationText: element.Duration.Text,
		DistanceText: element.Distance.Text,
	}, nil
}
