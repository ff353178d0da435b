package models

import "time"

// Service is a catalog entry for a bookable domestic service.
type Service struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	BasePrice   float64   `bson:"basePrice,omitempty" json:"basePrice,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Profile is the slice of a user document the booking core reads:
// display name, role and (for providers) the services they offer.
// Account management itself lives outside this server.
type Profile struct {
	ID        string   `bson:"id" json:"id"`
	Name      string   `bson:"name" json:"name"`
	Role      string   `bson:"role" json:"role"` // "client" or "provider"
	AvatarURL string   `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	Skills    []string `bson:"skills,omitempty" json:"skills,omitempty"` // service ids a provider offers
}
