package catalog

import "homely/models"

// ProviderSummary is a provider profile decorated with review aggregates for
// the browse view.
type ProviderSummary struct {
	models.Profile
	AverageRating float64 `json:"averageRating"`
	RatingText    string  `json:"ratingText"` // e.g. "4.5 (12)" or "New"
}

// CatalogService exposes the service catalog and the directory lookups the
// rest of the core enriches with.
type CatalogService interface {
	// ListServices returns the full service catalog.
	ListServices() ([]models.Service, error)
	// GetService returns one catalog entry.
	GetService(id string) (*models.Service, error)
	// ProvidersForService returns providers offering the service, each with
	// their review aggregate.
	ProvidersForService(serviceID string) ([]ProviderSummary, error)
	// ProfileNames resolves display names for user ids. Ids that cannot be
	// resolved are absent from the map; the call itself never fails.
	ProfileNames(ids []string) map[string]string
	// ServiceNames resolves catalog names for service ids, same contract.
	ServiceNames(ids []string) map[string]string
}
