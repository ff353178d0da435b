package lifecycle

import (
	"time"

	"homely/models"
)

// NextOccurrence computes the schedule time of a recurring booking's
// successor. The second return value is false when the recurrence type names
// no further occurrence, in which case no successor may be created.
//
// Monthly recurrence clamps the day-of-month to the last valid day of the
// receiving month (Jan 31 -> Feb 28, or Feb 29 in a leap year). Time of day
// is always preserved.
func NextOccurrence(t time.Time, recurrenceType string) (time.Time, bool) {
	switch recurrenceType {
	case models.RecurrenceDaily:
		return t.AddDate(0, 0, 1), true
	case models.RecurrenceWeekly:
		return t.AddDate(0, 0, 7), true
	case models.RecurrenceMonthly:
		return addMonthClamped(t), true
	default:
		return time.Time{}, false
	}
}

func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	// Date() normalizes month overflow, so December rolls into January.
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(next.Year(), next.Month()); day > last {
		day = last
	}
	return time.Date(next.Year(), next.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month; day zero of the
// following month normalizes to its last day.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
