package models

import "time"

// ServiceRequest statuses.
const (
	RequestStatusOpen      = "open"
	RequestStatusBooked    = "booked"
	RequestStatusCancelled = "cancelled"
)

// ServiceRequest is a client-posted job open for competitive bidding.
type ServiceRequest struct {
	ID           string    `bson:"id" json:"id"`
	ClientID     string    `bson:"clientId" json:"clientId"`
	ServiceID    string    `bson:"serviceId" json:"serviceId"`
	ServiceName  string    `bson:"serviceName" json:"serviceName"`
	Address      string    `bson:"address" json:"address"`
	StartTime    time.Time `bson:"startTime" json:"startTime"`
	EndTime      time.Time `bson:"endTime" json:"endTime"`
	OfferedPrice float64   `bson:"offeredPrice" json:"offeredPrice"`
	Comments     string    `bson:"comments,omitempty" json:"comments,omitempty"`
	Status       string    `bson:"status" json:"status"`
	BookedBy     string    `bson:"bookedBy,omitempty" json:"bookedBy,omitempty"` // provider whose bid was accepted
	Bids         []Bid     `bson:"bids" json:"bids"`
	Version      int64     `bson:"version" json:"-"` // optimistic concurrency stamp
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Bid is a provider's priced offer against an open request.
// A request holds at most one bid per provider; re-bidding replaces.
type Bid struct {
	ProviderID     string    `bson:"providerId" json:"providerId"`
	ProviderName   string    `bson:"providerName" json:"providerName"`
	ProviderAvatar string    `bson:"providerAvatar,omitempty" json:"providerAvatar,omitempty"`
	OfferAmount    float64   `bson:"offerAmount" json:"offerAmount"`
	Comment        string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
