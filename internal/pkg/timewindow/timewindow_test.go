package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"14:00", 840, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30", 0, true},
		{"09-30", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"09:3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ToMinutes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FromMinutes(0))
	assert.Equal(t, "06:00", FromMinutes(360))
	assert.Equal(t, "09:30", FromMinutes(570))
	assert.Equal(t, "21:59", FromMinutes(1319))
}

func TestFromMinutesRoundTrip(t *testing.T) {
	for m := 0; m < 24*60; m += 7 {
		got, err := ToMinutes(FromMinutes(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		sa, ea, sb, eb int
		want           bool
	}{
		{"identical windows", 540, 600, 540, 600, true},
		{"partial overlap", 540, 600, 570, 630, true},
		{"containment", 540, 720, 570, 600, true},
		{"disjoint", 540, 600, 660, 720, false},
		{"touching boundary is not overlap", 540, 600, 600, 660, false},
		{"touching boundary reversed", 600, 660, 540, 600, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.sa, tt.ea, tt.sb, tt.eb))
		})
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	windows := [][2]int{{360, 420}, {400, 460}, {420, 480}, {0, 1440}, {600, 601}}
	for _, a := range windows {
		for _, b := range windows {
			assert.Equal(t,
				Overlaps(a[0], a[1], b[0], b[1]),
				Overlaps(b[0], b[1], a[0], a[1]),
				"overlap must be symmetric for %v and %v", a, b,
			)
		}
	}
}

func TestOverlapsClock(t *testing.T) {
	got, err := OverlapsClock("09:00", "10:00", "10:00", "11:00")
	require.NoError(t, err)
	assert.False(t, got)

	got, err = OverlapsClock("09:00", "10:30", "10:00", "11:00")
	require.NoError(t, err)
	assert.True(t, got)

	_, err = OverlapsClock("09:00", "10:00", "bad", "11:00")
	assert.ErrorIs(t, err, ErrBadTimeFormat)
}

func TestDayStart(t *testing.T) {
	noisy := time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, DayStart(noisy))

	// Already-normalized input is a fixed point.
	assert.Equal(t, want, DayStart(want))
}

func TestNextDay(t *testing.T) {
	noisy := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, want, NextDay(noisy))

	// Month rollover.
	endOfMonth := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), NextDay(endOfMonth))
}
