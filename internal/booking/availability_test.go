package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/facility-booking-backend/internal/equipment"
)

// stubReader serves canned reservations, applying the same status, date and
// exclude filtering the real repository does in SQL.
type stubReader struct {
	reservations []*Reservation
}

func (s *stubReader) filter(dayStart, dayEnd time.Time, excludeID string, match func(*Reservation) bool) []*Reservation {
	var out []*Reservation
	for _, res := range s.reservations {
		if res.ID == excludeID {
			continue
		}
		if res.Date.Before(dayStart) || !res.Date.Before(dayEnd) {
			continue
		}
		blocking := false
		for _, st := range blockingStatuses {
			if res.Status == st {
				blocking = true
				break
			}
		}
		if !blocking || !match(res) {
			continue
		}
		out = append(out, res)
	}
	return out
}

func (s *stubReader) ListByCourtDay(_ context.Context, courtID string, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error) {
	return s.filter(dayStart, dayEnd, excludeID, func(r *Reservation) bool { return r.CourtID == courtID }), nil
}

func (s *stubReader) ListByCoachDay(_ context.Context, coachID string, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error) {
	return s.filter(dayStart, dayEnd, excludeID, func(r *Reservation) bool {
		return r.CoachID != nil && *r.CoachID == coachID
	}), nil
}

func (s *stubReader) ListEquipmentDay(_ context.Context, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error) {
	return s.filter(dayStart, dayEnd, excludeID, func(r *Reservation) bool { return len(r.Equipment) > 0 }), nil
}

var checkDay = time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC)

func courtRes(id, courtID, start, end string, status Status) *Reservation {
	return &Reservation{
		ID:        id,
		CourtID:   courtID,
		Date:      checkDay,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
}

func TestCheckCourt(t *testing.T) {
	reader := &stubReader{reservations: []*Reservation{
		courtRes("r1", "c1", "10:00", "12:00", StatusConfirmed),
		courtRes("r2", "c1", "15:00", "16:00", StatusCancelled),
		courtRes("r3", "c2", "08:00", "20:00", StatusPending),
	}}
	checker := NewAvailabilityChecker(reader)
	ctx := context.Background()

	tests := []struct {
		name      string
		start     string
		end       string
		available bool
		conflict  string
	}{
		{"overlapping window", "11:00", "13:00", false, "r1"},
		{"contained window", "10:30", "11:30", false, "r1"},
		{"touching end boundary", "12:00", "13:00", true, ""},
		{"touching start boundary", "09:00", "10:00", true, ""},
		{"cancelled does not block", "15:00", "16:00", true, ""},
		{"disjoint window", "18:00", "19:00", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := checker.CheckCourt(ctx, "c1", checkDay, tt.start, tt.end, "")
			require.NoError(t, err)
			assert.Equal(t, tt.available, report.Available)
			if tt.conflict != "" {
				require.NotNil(t, report.Conflict)
				assert.Equal(t, tt.conflict, report.Conflict.ID)
			} else {
				assert.Nil(t, report.Conflict)
			}
		})
	}
}

func TestCheckCourtExclude(t *testing.T) {
	reader := &stubReader{reservations: []*Reservation{
		courtRes("r1", "c1", "10:00", "12:00", StatusConfirmed),
	}}
	checker := NewAvailabilityChecker(reader)

	report, err := checker.CheckCourt(context.Background(), "c1", checkDay, "10:00", "12:00", "r1")
	require.NoError(t, err)
	assert.True(t, report.Available)
}

func TestCheckCourtOtherDay(t *testing.T) {
	res := courtRes("r1", "c1", "10:00", "12:00", StatusConfirmed)
	res.Date = checkDay.AddDate(0, 0, 1)
	checker := NewAvailabilityChecker(&stubReader{reservations: []*Reservation{res}})

	report, err := checker.CheckCourt(context.Background(), "c1", checkDay, "10:00", "12:00", "")
	require.NoError(t, err)
	assert.True(t, report.Available)
}

func TestCheckCoach(t *testing.T) {
	coachID := "co1"
	busy := courtRes("r1", "c1", "10:00", "11:00", StatusConfirmed)
	busy.CoachID = &coachID
	checker := NewAvailabilityChecker(&stubReader{reservations: []*Reservation{busy}})
	ctx := context.Background()

	// No coach requested: trivially available.
	report, err := checker.CheckCoach(ctx, "", checkDay, "10:00", "11:00", "")
	require.NoError(t, err)
	assert.True(t, report.Available)

	report, err = checker.CheckCoach(ctx, "co1", checkDay, "10:30", "11:30", "")
	require.NoError(t, err)
	assert.False(t, report.Available)
	require.NotNil(t, report.Conflict)
	assert.Equal(t, "r1", report.Conflict.ID)

	report, err = checker.CheckCoach(ctx, "co2", checkDay, "10:30", "11:30", "")
	require.NoError(t, err)
	assert.True(t, report.Available)
}

func equipmentRes(id string, start, end string, refs ...EquipmentRef) *Reservation {
	res := courtRes(id, "c1", start, end, StatusConfirmed)
	res.Equipment = refs
	return res
}

func TestCheckEquipmentCapacity(t *testing.T) {
	inventory := []*equipment.Equipment{
		{ID: "e1", Name: "Racket", TotalQuantity: 2},
	}
	// Two confirmed reservations each holding one unit 14:00-15:00.
	reader := &stubReader{reservations: []*Reservation{
		equipmentRes("r1", "14:00", "15:00", EquipmentRef{EquipmentID: "e1", Quantity: 1}),
		equipmentRes("r2", "14:00", "15:00", EquipmentRef{EquipmentID: "e1", Quantity: 1}),
	}}
	checker := NewAvailabilityChecker(reader)
	ctx := context.Background()

	// 14:30-15:30 overlaps both holders: nothing left.
	report, err := checker.CheckEquipment(ctx,
		[]EquipmentRequest{{EquipmentID: "e1", Quantity: 1}},
		inventory, checkDay, "14:30", "15:30", "")
	require.NoError(t, err)
	assert.False(t, report.Available)
	require.Len(t, report.UnavailableItems, 1)
	assert.Equal(t, 1, report.UnavailableItems[0].Requested)
	assert.Equal(t, 0, report.UnavailableItems[0].Available)

	// 15:00-16:00 only touches boundaries: full capacity again.
	report, err = checker.CheckEquipment(ctx,
		[]EquipmentRequest{{EquipmentID: "e1", Quantity: 2}},
		inventory, checkDay, "15:00", "16:00", "")
	require.NoError(t, err)
	assert.True(t, report.Available)
}

func TestCheckEquipmentEdgeCases(t *testing.T) {
	checker := NewAvailabilityChecker(&stubReader{})
	ctx := context.Background()
	inventory := []*equipment.Equipment{{ID: "e1", TotalQuantity: 4}}

	// Empty request list is trivially available.
	report, err := checker.CheckEquipment(ctx, nil, inventory, checkDay, "10:00", "11:00", "")
	require.NoError(t, err)
	assert.True(t, report.Available)

	// Zero quantity lines are skipped.
	report, err = checker.CheckEquipment(ctx,
		[]EquipmentRequest{{EquipmentID: "e1", Quantity: 0}},
		inventory, checkDay, "10:00", "11:00", "")
	require.NoError(t, err)
	assert.True(t, report.Available)

	// Unknown id reports "not found".
	report, err = checker.CheckEquipment(ctx,
		[]EquipmentRequest{{EquipmentID: "missing", Quantity: 1}},
		inventory, checkDay, "10:00", "11:00", "")
	require.NoError(t, err)
	assert.False(t, report.Available)
	require.Len(t, report.UnavailableItems, 1)
	assert.Equal(t, "not found", report.UnavailableItems[0].Reason)
}

func TestCheckAll(t *testing.T) {
	coachID := "co1"
	busyCoach := courtRes("r2", "c9", "10:00", "11:00", StatusConfirmed)
	busyCoach.CoachID = &coachID

	reader := &stubReader{reservations: []*Reservation{
		courtRes("r1", "c1", "10:00", "11:00", StatusConfirmed),
		busyCoach,
	}}
	checker := NewAvailabilityChecker(reader)

	req := CheckRequest{
		CourtID: "c1",
		CoachID: "co1",
		Date:    checkDay,
		Start:   "10:30",
		End:     "11:30",
	}

	report, err := checker.CheckAll(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, report.Available)
	assert.False(t, report.Court.Available)
	assert.False(t, report.Coach.Available)
	assert.True(t, report.Equipment.Available)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, "court", report.Issues[0].Kind)
	assert.Equal(t, "coach", report.Issues[1].Kind)

	// Reads are idempotent: identical result with no intervening writes.
	again, err := checker.CheckAll(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, report, again)
}

func TestGenerateSlots(t *testing.T) {
	reader := &stubReader{reservations: []*Reservation{
		courtRes("r1", "c1", "09:00", "10:00", StatusConfirmed),
	}}
	checker := NewAvailabilityChecker(reader)

	slots, err := checker.GenerateSlots(context.Background(), "c1", checkDay, 60)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	assert.Equal(t, "06:00", slots[0].Start)
	assert.Equal(t, "07:00", slots[0].End)
	assert.Equal(t, "21:00", slots[15].Start)
	assert.Equal(t, "22:00", slots[15].End)

	unavailable := 0
	for _, slot := range slots {
		if !slot.Available {
			unavailable++
			assert.Equal(t, "09:00", slot.Start)
		}
	}
	assert.Equal(t, 1, unavailable)
}

func TestGenerateSlotsCustomDuration(t *testing.T) {
	checker := NewAvailabilityChecker(&stubReader{})

	slots, err := checker.GenerateSlots(context.Background(), "c1", checkDay, 120)
	require.NoError(t, err)
	require.Len(t, slots, 8)
	assert.Equal(t, "20:00", slots[7].Start)
	assert.Equal(t, "22:00", slots[7].End)

	// Non-positive step falls back to one hour.
	slots, err = checker.GenerateSlots(context.Background(), "c1", checkDay, 0)
	require.NoError(t, err)
	assert.Len(t, slots, 16)
}
