package lifecycle

import "homely/models"

// ScheduleInput carries the client-supplied fields for a directly scheduled
// booking (no bidding round).
type ScheduleInput struct {
	UserID         string  `json:"userId"`
	ProviderID     string  `json:"providerId"`
	ServiceID      string  `json:"serviceId"`
	ServiceName    string  `json:"serviceName"`
	ScheduleTime   string  `json:"scheduleTime"` // RFC 3339
	TotalPrice     float64 `json:"totalPrice"`
	Address        string  `json:"address"`
	CustomNotes    string  `json:"customNotes"`
	RecurrenceType string  `json:"recurrenceType"` // defaults to none
}

// RatingInput carries a client's review of a completed booking.
type RatingInput struct {
	Rating  int    `json:"rating"` // 1..5
	Comment string `json:"comment"`
}

// DirectoryLookup resolves display names for list enrichment. Lookups
// degrade: ids missing from the result map get placeholder names, and a
// lookup failure never fails the parent call.
type DirectoryLookup interface {
	ProfileNames(ids []string) map[string]string
	ServiceNames(ids []string) map[string]string
}

// LifecycleService owns the booking state machine from confirmation through
// completion, including recurrence and the display orderings.
type LifecycleService interface {
	// ScheduleBooking creates a confirmed booking directly, without bidding.
	ScheduleBooking(input ScheduleInput) (*models.Booking, error)
	// UpdateStatus applies a validated status transition. Completing a
	// recurring booking spawns exactly one successor; if that secondary step
	// fails the returned error is a *PartialFailure and the completion
	// stands.
	UpdateStatus(bookingID, newStatus string) (*models.Booking, error)
	// ListForClient returns the client's bookings, enriched and triage-sorted.
	ListForClient(userID string) ([]models.Booking, error)
	// ListForProvider returns the provider's active bookings, enriched,
	// most recent first.
	ListForProvider(providerID string) ([]models.Booking, error)
	// ListActiveForClient is ListForClient minus cancelled rows and
	// completed rows the client has already rated or skipped.
	ListActiveForClient(userID string) ([]models.Booking, error)
	// SubmitRating stores a review for a completed booking and marks it rated.
	SubmitRating(bookingID, userID string, input RatingInput) error
	// SkipRating marks a completed booking as skipped for rating.
	SkipRating(bookingID, userID string) error
	// RetryRecurrence re-attempts successor creation for a completed
	// recurring booking. Idempotent.
	RetryRecurrence(bookingID string) error
}
