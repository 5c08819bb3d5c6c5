package coach

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
)

func testCoach() *Coach {
	var w WeekAvailability
	w[1] = []TimeRange{{Start: "06:00", End: "12:00"}, {Start: "14:00", End: "21:00"}} // Monday
	w[6] = []TimeRange{{Start: "09:00", End: "18:00"}}                                // Saturday
	return &Coach{Name: "Maya", HourlyRate: 40, IsActive: true, Availability: w}
}

func TestAvailableFor(t *testing.T) {
	monday := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)   // a Monday
	saturday := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC) // a Saturday
	tuesday := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)  // no ranges that day

	co := testCoach()

	tests := []struct {
		name       string
		date       time.Time
		start, end string
		want       bool
	}{
		{"fully inside first range", monday, "07:00", "09:00", true},
		{"fully inside second range", monday, "15:00", "17:00", true},
		{"exactly matching a range", monday, "06:00", "12:00", true},
		{"spanning the midday gap", monday, "11:00", "15:00", false},
		{"before opening", monday, "05:00", "07:00", false},
		{"past closing", saturday, "17:00", "19:00", false},
		{"day with no ranges", tuesday, "10:00", "11:00", false},
		{"saturday inside range", saturday, "09:00", "10:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := co.AvailableFor(tt.date, tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailableForBadInput(t *testing.T) {
	co := testCoach()
	monday := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)

	_, err := co.AvailableFor(monday, "7:00", "09:00")
	assert.ErrorIs(t, err, timewindow.ErrBadTimeFormat)
}

func TestWeekAvailabilityValidate(t *testing.T) {
	var ok WeekAvailability
	ok[2] = []TimeRange{{Start: "08:00", End: "12:00"}}
	require.NoError(t, ok.Validate())

	var inverted WeekAvailability
	inverted[2] = []TimeRange{{Start: "12:00", End: "08:00"}}
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidTimeRange)

	var zero WeekAvailability
	zero[3] = []TimeRange{{Start: "10:00", End: "10:00"}}
	assert.ErrorIs(t, zero.Validate(), ErrInvalidTimeRange)

	var malformed WeekAvailability
	malformed[4] = []TimeRange{{Start: "930", End: "10:00"}}
	assert.ErrorIs(t, malformed.Validate(), timewindow.ErrBadTimeFormat)
}

func TestDefaultAvailability(t *testing.T) {
	w := DefaultAvailability()
	require.NoError(t, w.Validate())

	// Weekends are shorter than weekdays.
	assert.Equal(t, []TimeRange{{Start: "09:00", End: "18:00"}}, w[0])
	assert.Equal(t, []TimeRange{{Start: "06:00", End: "21:00"}}, w[3])
	assert.Equal(t, []TimeRange{{Start: "09:00", End: "18:00"}}, w[6])
}
