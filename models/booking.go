package models

import "time"

// Booking statuses. Confirmed and in-progress bookings are "active";
// completed and cancelled are terminal and kept for history.
const (
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in-progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

// Recurrence types for a booking.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// Booking represents a confirmed, scheduled job resulting from direct
// scheduling or bid acceptance.
type Booking struct {
	ID              string    `bson:"id" json:"id"`
	UserID          string    `bson:"userId" json:"userId"`
	ProviderID      string    `bson:"providerId" json:"providerId"`
	ServiceID       string    `bson:"serviceId" json:"serviceId"`
	ServiceName     string    `bson:"serviceName" json:"serviceName"`
	ScheduleTime    time.Time `bson:"scheduleTime" json:"scheduleTime"`
	TotalPrice      float64   `bson:"totalPrice" json:"totalPrice"`
	Address         string    `bson:"address" json:"address"`
	CustomNotes     string    `bson:"customNotes,omitempty" json:"customNotes,omitempty"`
	RecurrenceType  string    `bson:"recurrenceType" json:"recurrenceType"`
	Status          string    `bson:"status" json:"status"`
	RatingSubmitted bool      `bson:"ratingSubmitted" json:"ratingSubmitted"`
	RatingSkipped   bool      `bson:"ratingSkipped" json:"ratingSkipped"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`

	// Display-only fields populated by enrichment, never persisted.
	ProviderName string `bson:"-" json:"providerName,omitempty"`
	ClientName   string `bson:"-" json:"clientName,omitempty"`
}

// IsTerminal reports whether no further status transitions are allowed.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// Review is a client's rating of a completed booking's provider.
type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"bookingId"`
	UserID     string    `bson:"userId" json:"userId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Rating     int       `bson:"rating" json:"rating"` // 1..5
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}
