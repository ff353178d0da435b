package catalogRepo

import "homely/models"

// CatalogRepository defines read access to the service catalog and the user
// profile slices the booking core needs, plus review storage.
type CatalogRepository interface {
	// GetService retrieves a catalog entry by id.
	GetService(id string) (*models.Service, error)
	// ListServices retrieves the full catalog.
	ListServices() ([]models.Service, error)
	// ListProvidersForService retrieves providers whose skills include the service.
	ListProvidersForService(serviceID string) ([]models.Profile, error)
	// GetProfile retrieves a single profile by id.
	GetProfile(id string) (*models.Profile, error)
	// GetProfileNames batch-fetches display names for the given user ids.
	// Absent ids are simply missing from the result map.
	GetProfileNames(ids []string) (map[string]string, error)
	// GetServiceNames batch-fetches catalog names for the given service ids.
	GetServiceNames(ids []string) (map[string]string, error)
	// CreateReview inserts a review record.
	CreateReview(review *models.Review) error
	// ListReviewsForProvider retrieves all reviews written against a provider.
	ListReviewsForProvider(providerID string) ([]models.Review, error)
}
