package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtflow/facility-booking-backend/internal/coach"
	"github.com/courtflow/facility-booking-backend/internal/court"
	"github.com/courtflow/facility-booking-backend/internal/equipment"
	"github.com/courtflow/facility-booking-backend/internal/pkg/metrics"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
)

// stubRepo is an in-memory Repository. InTransaction runs the callback
// against the same store, which is enough to exercise the re-check logic.
type stubRepo struct {
	stubReader
	nextID   int
	notified map[string]time.Time
}

func newStubRepo(seed ...*Reservation) *stubRepo {
	return &stubRepo{
		stubReader: stubReader{reservations: seed},
		nextID:     100,
		notified:   map[string]time.Time{},
	}
}

func (s *stubRepo) Create(_ context.Context, res *Reservation) error {
	if res.ID == "" {
		res.ID = fmt.Sprintf("res-%d", s.nextID)
		s.nextID++
	}
	res.CreatedAt = time.Now().UTC()
	res.UpdatedAt = res.CreatedAt
	s.reservations = append(s.reservations, res)
	return nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*Reservation, error) {
	for _, res := range s.reservations {
		if res.ID == id {
			return res, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubRepo) List(_ context.Context, filter Filter) ([]*Reservation, int, error) {
	var out []*Reservation
	for _, res := range s.reservations {
		if filter.UserID != "" && res.UserID != filter.UserID {
			continue
		}
		if filter.CourtID != "" && res.CourtID != filter.CourtID {
			continue
		}
		if filter.Status != "" && string(res.Status) != filter.Status {
			continue
		}
		out = append(out, res)
	}
	return out, len(out), nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	for _, res := range s.reservations {
		if res.ID == id {
			res.Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubRepo) CountWaitlistSlot(_ context.Context, courtID string, date time.Time, start, end string) (int, error) {
	count := 0
	for _, res := range s.reservations {
		if res.CourtID == courtID && res.Date.Equal(date) &&
			res.StartTime == start && res.EndTime == end && res.Status == StatusWaitlist {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) NextWaitlistEntry(_ context.Context, courtID string, date time.Time) (*Reservation, error) {
	var next *Reservation
	for _, res := range s.reservations {
		if res.CourtID != courtID || !res.Date.Equal(date) || res.Status != StatusWaitlist {
			continue
		}
		if next == nil || (res.WaitlistPosition != nil && next.WaitlistPosition != nil &&
			*res.WaitlistPosition < *next.WaitlistPosition) {
			next = res
		}
	}
	return next, nil
}

func (s *stubRepo) MarkNotified(_ context.Context, id string, at time.Time) error {
	for _, res := range s.reservations {
		if res.ID == id {
			res.NotifiedAt = &at
			s.notified[id] = at
			return nil
		}
	}
	return ErrNotFound
}

func (s *stubRepo) InTransaction(_ context.Context, fn func(Repository) error) error {
	return fn(s)
}

type stubCourts map[string]*court.Court

func (s stubCourts) GetByID(_ context.Context, id string) (*court.Court, error) {
	if ct, ok := s[id]; ok {
		return ct, nil
	}
	return nil, court.ErrNotFound
}

type stubCoaches map[string]*coach.Coach

func (s stubCoaches) GetByID(_ context.Context, id string) (*coach.Coach, error) {
	if co, ok := s[id]; ok {
		return co, nil
	}
	return nil, coach.ErrNotFound
}

type stubEquipment map[string]*equipment.Equipment

func (s stubEquipment) GetByID(_ context.Context, id string) (*equipment.Equipment, error) {
	if item, ok := s[id]; ok {
		return item, nil
	}
	return nil, equipment.ErrNotFound
}

func (s stubEquipment) ListActive(_ context.Context) ([]*equipment.Equipment, error) {
	out := make([]*equipment.Equipment, 0, len(s))
	for _, item := range s {
		if item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

type noRules struct{}

func (noRules) FindActive(_ context.Context) ([]*pricing.Rule, error) { return nil, nil }

// bookingDay is far enough in the future that past-start checks never trip.
var bookingDay = time.Date(2027, 6, 9, 0, 0, 0, 0, time.UTC)

type fixture struct {
	repo    *stubRepo
	service Service
}

func newFixture(t *testing.T, seed ...*Reservation) *fixture {
	t.Helper()

	repo := newStubRepo(seed...)
	checker := NewAvailabilityChecker(repo)
	engine := pricing.NewEngine(noRules{})

	courts := stubCourts{
		"c1": {ID: "c1", Name: "Center", Type: court.TypeIndoor, BasePrice: 30, IsActive: true},
		"c2": {ID: "c2", Name: "Closed", Type: court.TypeOutdoor, BasePrice: 20, IsActive: false},
	}
	coaches := stubCoaches{
		"co1": {ID: "co1", Name: "Maya", HourlyRate: 40, IsActive: true, Availability: coach.DefaultAvailability()},
	}
	equip := stubEquipment{
		"e1": {ID: "e1", Name: "Racket", TotalQuantity: 4, PricePerHour: 5, IsActive: true},
		"e2": {ID: "e2", Name: "Worn Racket", TotalQuantity: 2, PricePerHour: 5, IsActive: false},
	}

	service := NewService(repo, checker, engine, courts, coaches, equip, metrics.New())
	return &fixture{repo: repo, service: service}
}

func createReq(userID string) CreateRequest {
	return CreateRequest{
		UserID:  userID,
		CourtID: "c1",
		Date:    bookingDay,
		Start:   "14:00",
		End:     "16:00",
	}
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	res, err := f.service.Create(context.Background(), createReq("u1"))
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, StatusConfirmed, res.Status)
	assert.Equal(t, bookingDay, res.Date)
	require.NotNil(t, res.Breakdown)
	assert.Equal(t, 2.0, res.Breakdown.Duration)
	assert.Equal(t, 60.0, res.Breakdown.Total)
}

func TestCreateBookingWithCoachAndEquipment(t *testing.T) {
	f := newFixture(t)

	coachID := "co1"
	req := createReq("u1")
	req.CoachID = &coachID
	req.Equipment = []EquipmentRequest{{EquipmentID: "e1", Quantity: 2}}

	res, err := f.service.Create(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, res.Breakdown)
	assert.Equal(t, 60.0, res.Breakdown.CourtFee)
	assert.Equal(t, 20.0, res.Breakdown.EquipmentFee)
	assert.Equal(t, 80.0, res.Breakdown.CoachFee)
	assert.Equal(t, 160.0, res.Breakdown.Total)
	require.Len(t, res.Equipment, 1)
	assert.Equal(t, 2, res.Equipment[0].Quantity)
}

func TestCreateBookingConflict(t *testing.T) {
	existing := &Reservation{
		ID: "r1", UserID: "u2", CourtID: "c1", Date: bookingDay,
		StartTime: "15:00", EndTime: "17:00", Status: StatusConfirmed,
	}
	f := newFixture(t, existing)

	_, err := f.service.Create(context.Background(), createReq("u1"))
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := createReq("u1")
	req.End = "14:00"
	_, err := f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	req = createReq("u1")
	req.Start = "bad"
	_, err = f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	req = createReq("u1")
	req.CourtID = "nope"
	_, err = f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrCourtNotFound)

	req = createReq("u1")
	req.CourtID = "c2"
	_, err = f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrCourtInactive)

	req = createReq("u1")
	req.Date = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrStartTimePast)
}

func TestCreateBookingEquipmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Deactivated items never reach the inventory snapshot or the price.
	req := createReq("u1")
	req.Equipment = []EquipmentRequest{{EquipmentID: "e2", Quantity: 1}}
	_, err := f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrEquipmentInactive)
	assert.Empty(t, f.repo.reservations)

	req = createReq("u1")
	req.Equipment = []EquipmentRequest{{EquipmentID: "e9", Quantity: 1}}
	_, err = f.service.Create(ctx, req)
	assert.ErrorIs(t, err, ErrEquipmentNotFound)

	_, err = f.service.Quote(ctx, CreateRequest{
		UserID: "u1", CourtID: "c1", Date: bookingDay,
		Start: "14:00", End: "16:00",
		Equipment: []EquipmentRequest{{EquipmentID: "e2", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrEquipmentInactive)
}

func TestCreateBookingCoachOffSchedule(t *testing.T) {
	f := newFixture(t)

	coachID := "co1"
	req := createReq("u1")
	req.CoachID = &coachID
	req.Start = "22:00"
	req.End = "23:00"

	_, err := f.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrCoachOffSchedule)
}

func TestJoinWaitlistPosition(t *testing.T) {
	pos1 := 1
	existing := &Reservation{
		ID: "w1", UserID: "u2", CourtID: "c1", Date: bookingDay,
		StartTime: "14:00", EndTime: "16:00", Status: StatusWaitlist,
		WaitlistPosition: &pos1,
	}
	f := newFixture(t, existing)

	res, err := f.service.JoinWaitlist(context.Background(), createReq("u1"))
	require.NoError(t, err)

	assert.Equal(t, StatusWaitlist, res.Status)
	require.NotNil(t, res.WaitlistPosition)
	assert.Equal(t, 2, *res.WaitlistPosition)
	require.NotNil(t, res.Breakdown)
	assert.Zero(t, res.Breakdown.Total)
}

func TestCancelNotifiesWaitlist(t *testing.T) {
	pos := 1
	confirmed := &Reservation{
		ID: "r1", UserID: "u1", CourtID: "c1", Date: bookingDay,
		StartTime: "14:00", EndTime: "16:00", Status: StatusConfirmed,
	}
	waiting := &Reservation{
		ID: "w1", UserID: "u2", CourtID: "c1", Date: bookingDay,
		StartTime: "14:00", EndTime: "16:00", Status: StatusWaitlist,
		WaitlistPosition: &pos,
	}
	f := newFixture(t, confirmed, waiting)

	res, err := f.service.Cancel(context.Background(), "r1", "u1", false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)

	// The head of the waitlist got its notification stamp.
	_, ok := f.repo.notified["w1"]
	assert.True(t, ok)
	require.NotNil(t, waiting.NotifiedAt)
	// Notification does not promote the entry.
	assert.Equal(t, StatusWaitlist, waiting.Status)
}

func TestCancelPermissions(t *testing.T) {
	confirmed := &Reservation{
		ID: "r1", UserID: "u1", CourtID: "c1", Date: bookingDay,
		StartTime: "14:00", EndTime: "16:00", Status: StatusConfirmed,
	}
	f := newFixture(t, confirmed)
	ctx := context.Background()

	_, err := f.service.Cancel(ctx, "r1", "intruder", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admin may cancel anyone's booking.
	res, err := f.service.Cancel(ctx, "r1", "admin", true)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)

	// Already cancelled.
	_, err = f.service.Cancel(ctx, "r1", "u1", false)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestUpdateStatus(t *testing.T) {
	pending := &Reservation{
		ID: "r1", UserID: "u1", CourtID: "c1", Date: bookingDay,
		StartTime: "14:00", EndTime: "16:00", Status: StatusPending,
	}
	f := newFixture(t, pending)
	ctx := context.Background()

	_, err := f.service.UpdateStatus(ctx, "r1", Status("bogus"), "admin", true)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Not even admins may move a booking onto the waitlist; such an entry
	// would have no position and could never be notified.
	_, err = f.service.UpdateStatus(ctx, "r1", StatusWaitlist, "admin", true)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Owners cannot confirm their own booking.
	_, err = f.service.UpdateStatus(ctx, "r1", StatusConfirmed, "u1", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	res, err := f.service.UpdateStatus(ctx, "r1", StatusConfirmed, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, res.Status)

	// Cancelling through UpdateStatus routes to Cancel, which owners may do.
	res, err = f.service.UpdateStatus(ctx, "r1", StatusCancelled, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
}

func TestListScopedToOwner(t *testing.T) {
	mine := &Reservation{ID: "r1", UserID: "u1", CourtID: "c1", Date: bookingDay, StartTime: "10:00", EndTime: "11:00", Status: StatusConfirmed}
	theirs := &Reservation{ID: "r2", UserID: "u2", CourtID: "c1", Date: bookingDay, StartTime: "12:00", EndTime: "13:00", Status: StatusConfirmed}
	f := newFixture(t, mine, theirs)
	ctx := context.Background()

	reservations, total, err := f.service.List(ctx, Filter{}, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "r1", reservations[0].ID)

	_, total, err = f.service.List(ctx, Filter{}, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestGetByIDAccess(t *testing.T) {
	mine := &Reservation{ID: "r1", UserID: "u1", CourtID: "c1", Date: bookingDay, StartTime: "10:00", EndTime: "11:00", Status: StatusConfirmed}
	f := newFixture(t, mine)
	ctx := context.Background()

	_, err := f.service.GetByID(ctx, "r1", "u2", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	res, err := f.service.GetByID(ctx, "r1", "u2", true)
	require.NoError(t, err)
	assert.Equal(t, "r1", res.ID)
}

func TestCheckAvailabilityAndQuote(t *testing.T) {
	existing := &Reservation{
		ID: "r1", UserID: "u2", CourtID: "c1", Date: bookingDay,
		StartTime: "15:00", EndTime: "17:00", Status: StatusConfirmed,
	}
	f := newFixture(t, existing)
	ctx := context.Background()

	report, err := f.service.CheckAvailability(ctx, createReq("u1"))
	require.NoError(t, err)
	assert.False(t, report.Available)

	// Quote does not care about conflicts; it only prices the window.
	breakdown, err := f.service.Quote(ctx, createReq("u1"))
	require.NoError(t, err)
	assert.Equal(t, 60.0, breakdown.Total)

	// Nothing was persisted by either call.
	assert.Len(t, f.repo.reservations, 1)
}

func TestSlots(t *testing.T) {
	existing := &Reservation{
		ID: "r1", UserID: "u2", CourtID: "c1", Date: bookingDay,
		StartTime: "09:00", EndTime: "10:00", Status: StatusConfirmed,
	}
	f := newFixture(t, existing)
	ctx := context.Background()

	slots, err := f.service.Slots(ctx, "c1", bookingDay, 60)
	require.NoError(t, err)
	require.Len(t, slots, 16)

	_, err = f.service.Slots(ctx, "missing", bookingDay, 60)
	assert.ErrorIs(t, err, ErrCourtNotFound)
}
