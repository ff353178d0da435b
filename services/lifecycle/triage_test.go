package lifecycle

import (
	"testing"
	"time"

	"homely/models"

	"github.com/stretchr/testify/assert"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 10, 0, 0, 0, time.UTC)
}

func TestTriageSortBandsAndDirections(t *testing.T) {
	bookings := []models.Booking{
		{ID: "completed-old", Status: models.BookingStatusCompleted, ScheduleTime: day(time.April, 1)},
		{ID: "confirmed-late", Status: models.BookingStatusConfirmed, ScheduleTime: day(time.June, 5)},
		{ID: "cancelled", Status: models.BookingStatusCancelled, ScheduleTime: day(time.June, 20)},
		{ID: "in-progress", Status: models.BookingStatusInProgress, ScheduleTime: day(time.June, 1)},
		{ID: "completed-new", Status: models.BookingStatusCompleted, ScheduleTime: day(time.May, 1)},
		{ID: "confirmed-soon", Status: models.BookingStatusConfirmed, ScheduleTime: day(time.June, 2)},
	}

	TriageSort(bookings)

	got := make([]string, len(bookings))
	for i, b := range bookings {
		got[i] = b.ID
	}
	// One active band sorted soonest-first regardless of which active status
	// a row holds, then the history bands most-recent-first.
	assert.Equal(t, []string{
		"in-progress",
		"confirmed-soon",
		"confirmed-late",
		"completed-new",
		"completed-old",
		"cancelled",
	}, got)
}

func TestTriageSortInterleavesActiveStatusesByTime(t *testing.T) {
	bookings := []models.Booking{
		{ID: "completed", Status: models.BookingStatusCompleted, ScheduleTime: day(time.May, 1)},
		{ID: "confirmed", Status: models.BookingStatusConfirmed, ScheduleTime: day(time.June, 5)},
		{ID: "in-progress", Status: models.BookingStatusInProgress, ScheduleTime: day(time.June, 1)},
		{ID: "cancelled", Status: models.BookingStatusCancelled, ScheduleTime: day(time.January, 1)},
	}

	TriageSort(bookings)

	got := make([]string, len(bookings))
	for i, b := range bookings {
		got[i] = b.ID
	}
	// An in-progress job scheduled before a confirmed one renders first.
	assert.Equal(t, []string{"in-progress", "confirmed", "completed", "cancelled"}, got)
}

func TestTriageSortUnknownStatusSinks(t *testing.T) {
	bookings := []models.Booking{
		{ID: "weird", Status: "paused", ScheduleTime: day(time.June, 1)},
		{ID: "cancelled", Status: models.BookingStatusCancelled, ScheduleTime: day(time.May, 1)},
		{ID: "confirmed", Status: models.BookingStatusConfirmed, ScheduleTime: day(time.June, 2)},
	}

	TriageSort(bookings)

	assert.Equal(t, "confirmed", bookings[0].ID)
	assert.Equal(t, "cancelled", bookings[1].ID)
	assert.Equal(t, "weird", bookings[2].ID)
}

func TestTriageSortIsStableWithinEqualTimes(t *testing.T) {
	at := day(time.June, 1)
	bookings := []models.Booking{
		{ID: "first", Status: models.BookingStatusConfirmed, ScheduleTime: at},
		{ID: "second", Status: models.BookingStatusConfirmed, ScheduleTime: at},
	}

	TriageSort(bookings)

	assert.Equal(t, "first", bookings[0].ID)
	assert.Equal(t, "second", bookings[1].ID)
}
