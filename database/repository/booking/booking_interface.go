package bookingRepo

import "homely/models"

// BookingRepository defines data access for booking records. Rows are never
// hard-deleted; terminal bookings stay for history.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// ListByUser retrieves a client's bookings restricted to the given statuses.
	ListByUser(userID string, statuses []string) ([]models.Booking, error)
	// ListByProvider retrieves a provider's bookings restricted to the given statuses.
	ListByProvider(providerID string, statuses []string) ([]models.Booking, error)
	// UpdateStatus conditionally moves a booking from one of the expected
	// statuses to the next one.
	UpdateStatus(id string, from []string, to string) error
	// MarkRated sets ratingSubmitted on a completed booking.
	MarkRated(id string) error
	// MarkRatingSkipped sets ratingSkipped on a completed booking.
	MarkRatingSkipped(id string) error
}
