package models

// ReconcileAcceptPayload is the background task payload used to re-run the
// request status flip after an accept-bid whose second write failed.
type ReconcileAcceptPayload struct {
	RequestID  string `json:"requestId"`
	BookingID  string `json:"bookingId"`
	ProviderID string `json:"providerId"`
}

// RecurrencePayload is the background task payload used to retry successor
// creation for a completed recurring booking.
type RecurrencePayload struct {
	BookingID string `json:"bookingId"`
}
