package lifecycle

import (
	"sort"

	"homely/models"
)

// Display bands for the client booking list. Confirmed and in-progress rows
// form one active band; completed and cancelled each get their own.
const (
	bandActive = iota
	bandCompleted
	bandCancelled
	bandUnknown
)

// TriageSort orders bookings for the client view: the active band first
// (confirmed and in-progress together, soonest-first), then completed, then
// cancelled, both history bands most-recent-first.
func TriageSort(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		bi, bj := bandOf(bookings[i].Status), bandOf(bookings[j].Status)
		if bi != bj {
			return bi < bj
		}
		if bi == bandActive {
			return bookings[i].ScheduleTime.Before(bookings[j].ScheduleTime)
		}
		return bookings[i].ScheduleTime.After(bookings[j].ScheduleTime)
	})
}

func bandOf(status string) int {
	switch status {
	case models.BookingStatusConfirmed, models.BookingStatusInProgress:
		return bandActive
	case models.BookingStatusCompleted:
		return bandCompleted
	case models.BookingStatusCancelled:
		return bandCancelled
	default:
		// Unknown statuses sink below history rather than crashing the sort.
		return bandUnknown
	}
}
