package requestRepo

import "homely/models"

// RequestRepository defines data access for service requests and their
// embedded bid ledgers.
type RequestRepository interface {
	// Create inserts a new request record.
	Create(req *models.ServiceRequest) error
	// GetByID retrieves a request by its unique ID.
	GetByID(id string) (*models.ServiceRequest, error)
	// ListOpen retrieves every request still accepting bids.
	ListOpen() ([]models.ServiceRequest, error)
	// ListByClient retrieves all requests posted by a client.
	ListByClient(clientID string) ([]models.ServiceRequest, error)
	// UpsertBid atomically replaces-or-appends the provider's bid while the
	// request is still open. At most one bid per provider survives.
	UpsertBid(requestID string, bid models.Bid) error
	// MarkBooked flips an open request to booked and records the winning
	// provider.
	MarkBooked(requestID, providerID string) error
	// MarkCancelled flips an open request to cancelled.
	MarkCancelled(requestID string) error
}
