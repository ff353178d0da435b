package negotiation

import "homely/models"

// CreateRequestInput carries the client-supplied fields for a new service
// request. Everything else (id, status, bids, createdAt) is stamped here.
type CreateRequestInput struct {
	ClientID     string  `json:"clientId"`
	ServiceID    string  `json:"serviceId"`
	ServiceName  string  `json:"serviceName"`
	Address      string  `json:"address"`
	StartTime    string  `json:"startTime"` // RFC 3339
	EndTime      string  `json:"endTime"`   // RFC 3339
	OfferedPrice float64 `json:"offeredPrice"`
	Comments     string  `json:"comments"`
}

// Bidder identifies the provider placing a bid.
type Bidder struct {
	ProviderID string `json:"providerId"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatarUrl"`
}

// NegotiationService orchestrates the request/bid/accept lifecycle.
type NegotiationService interface {
	// CreateRequest validates and persists a new open request, returning its id.
	CreateRequest(input CreateRequestInput) (*models.ServiceRequest, error)
	// PlaceBid records the provider's current offer on an open request,
	// replacing any earlier offer from the same provider.
	PlaceBid(requestID string, bidder Bidder, amount float64, comment string) error
	// AcceptBid converts the given provider's bid into a confirmed booking
	// and closes the request. May return a *PartialFailure alongside the
	// booking when the request flip has been deferred to reconciliation.
	AcceptBid(requestID, providerID string) (*models.Booking, error)
	// CancelRequest withdraws an open request from bidding.
	CancelRequest(requestID, clientID string) error
	// ListOpenRequests returns every request currently accepting bids.
	ListOpenRequests() ([]models.ServiceRequest, error)
	// ListClientRequests returns the client's still-open requests.
	ListClientRequests(clientID string) ([]models.ServiceRequest, error)
	// ReconcileAccept re-runs the request status flip for an accepted bid
	// whose second write failed. Idempotent.
	ReconcileAccept(requestID, providerID string) error
}
