package lifecycle

import (
	"testing"
	"time"

	"homely/models"

	"github.com/stretchr/testify/assert"
)

func TestNextOccurrence(t *testing.T) {
	at := func(value string) time.Time {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			t.Fatalf("bad fixture time %q: %v", value, err)
		}
		return parsed
	}

	tests := []struct {
		name       string
		start      string
		recurrence string
		want       string
		ok         bool
	}{
		{"daily", "2025-03-10T09:30:00Z", models.RecurrenceDaily, "2025-03-11T09:30:00Z", true},
		{"weekly", "2025-03-10T09:30:00Z", models.RecurrenceWeekly, "2025-03-17T09:30:00Z", true},
		{"monthly mid-month", "2025-05-15T14:00:00Z", models.RecurrenceMonthly, "2025-06-15T14:00:00Z", true},
		{"monthly clamps to short month", "2025-01-31T08:00:00Z", models.RecurrenceMonthly, "2025-02-28T08:00:00Z", true},
		{"monthly clamps to leap day", "2024-01-31T08:00:00Z", models.RecurrenceMonthly, "2024-02-29T08:00:00Z", true},
		{"monthly rolls over year", "2025-12-31T23:15:00Z", models.RecurrenceMonthly, "2026-01-31T23:15:00Z", true},
		{"none has no successor", "2025-03-10T09:30:00Z", models.RecurrenceNone, "", false},
		{"unknown has no successor", "2025-03-10T09:30:00Z", "fortnightly", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextOccurrence(at(tc.start), tc.recurrence)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, got.Equal(at(tc.want)), "got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNextOccurrencePreservesTimeOfDay(t *testing.T) {
	start := time.Date(2025, time.March, 31, 17, 45, 30, 0, time.UTC)
	next, ok := NextOccurrence(start, models.RecurrenceMonthly)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.April, 30, 17, 45, 30, 0, time.UTC), next)
}
