package notify

import "homely/models"

// NotificationService sends FCM pushes for negotiation events. Delivery is
// best-effort; failures are logged and never surfaced to the caller.
type NotificationService interface {
	// NotifyBidPlaced tells the request's client a new offer arrived.
	NotifyBidPlaced(req *models.ServiceRequest, bid models.Bid)
	// NotifyBidAccepted tells the winning provider their offer was accepted.
	NotifyBidAccepted(req *models.ServiceRequest, bid models.Bid)
}
