package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/courtflow/facility-booking-backend/internal/coach"
	"github.com/courtflow/facility-booking-backend/internal/court"
	"github.com/courtflow/facility-booking-backend/internal/equipment"
	"github.com/courtflow/facility-booking-backend/internal/pkg/metrics"
	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
)

// Narrow lookup interfaces over the reference-data services; the full
// service interfaces stay in their own packages.
type (
	CourtSource interface {
		GetByID(ctx context.Context, id string) (*court.Court, error)
	}
	CoachSource interface {
		GetByID(ctx context.Context, id string) (*coach.Coach, error)
	}
	EquipmentSource interface {
		GetByID(ctx context.Context, id string) (*equipment.Equipment, error)
		ListActive(ctx context.Context) ([]*equipment.Equipment, error)
	}
)

type CreateRequest struct {
	UserID    string
	CourtID   string
	CoachID   *string
	Equipment []EquipmentRequest
	Date      time.Time
	Start     string
	End       string
	Notes     string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string, actorID string, isAdmin bool) (*Reservation, error)
	List(ctx context.Context, filter Filter, actorID string, isAdmin bool) ([]*Reservation, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, actorID string, isAdmin bool) (*Reservation, error)
	Cancel(ctx context.Context, id string, actorID string, isAdmin bool) (*Reservation, error)
	JoinWaitlist(ctx context.Context, req CreateRequest) (*Reservation, error)

	CheckAvailability(ctx context.Context, req CreateRequest) (*CombinedReport, error)
	Quote(ctx context.Context, req CreateRequest) (*pricing.Breakdown, error)
	Slots(ctx context.Context, courtID string, date time.Time, slotMinutes int) ([]Slot, error)
}

type service struct {
	repo      Repository
	checker   *AvailabilityChecker
	engine    *pricing.Engine
	courts    CourtSource
	coaches   CoachSource
	equipment EquipmentSource
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(repo Repository, checker *AvailabilityChecker, engine *pricing.Engine, courts CourtSource, coaches CoachSource, equip EquipmentSource, m *metrics.Metrics) Service {
	return &service{
		repo:      repo,
		checker:   checker,
		engine:    engine,
		courts:    courts,
		coaches:   coaches,
		equipment: equip,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// resolved holds the validated reference data behind one booking request.
type resolved struct {
	court     *court.Court
	coach     *coach.Coach
	inventory []*equipment.Equipment
	lines     []pricing.EquipmentLine
}

func (s *service) validateWindow(req CreateRequest) (startMin, endMin int, err error) {
	startMin, err = timewindow.ToMinutes(req.Start)
	if err != nil {
		return 0, 0, ErrInvalidTimeRange
	}
	endMin, err = timewindow.ToMinutes(req.End)
	if err != nil {
		return 0, 0, ErrInvalidTimeRange
	}
	if endMin <= startMin {
		return 0, 0, ErrInvalidTimeRange
	}
	return startMin, endMin, nil
}

// resolve validates the window and loads court, coach and equipment,
// rejecting inactive or unknown references before any availability work.
func (s *service) resolve(ctx context.Context, req CreateRequest) (*resolved, error) {
	startMin, _, err := s.validateWindow(req)
	if err != nil {
		return nil, err
	}

	bookingStart := timewindow.DayStart(req.Date).Add(time.Duration(startMin) * time.Minute)
	if bookingStart.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	ct, err := s.courts.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, court.ErrNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	if !ct.IsActive {
		return nil, ErrCourtInactive
	}

	out := &resolved{court: ct}

	if req.CoachID != nil && *req.CoachID != "" {
		co, err := s.coaches.GetByID(ctx, *req.CoachID)
		if err != nil {
			if errors.Is(err, coach.ErrNotFound) {
				return nil, ErrCoachNotFound
			}
			return nil, err
		}
		if !co.IsActive {
			return nil, ErrCoachInactive
		}
		onSchedule, err := co.AvailableFor(req.Date, req.Start, req.End)
		if err != nil {
			return nil, ErrInvalidTimeRange
		}
		if !onSchedule {
			return nil, ErrCoachOffSchedule
		}
		out.coach = co
	}

	// The inventory snapshot only ever contains active items, so a
	// deactivated item can never sneak into availability or pricing.
	var active map[string]*equipment.Equipment
	for _, line := range req.Equipment {
		if line.Quantity <= 0 {
			continue
		}
		if active == nil {
			list, err := s.equipment.ListActive(ctx)
			if err != nil {
				return nil, err
			}
			active = make(map[string]*equipment.Equipment, len(list))
			for _, item := range list {
				active[item.ID] = item
			}
		}
		item, ok := active[line.EquipmentID]
		if !ok {
			_, err := s.equipment.GetByID(ctx, line.EquipmentID)
			switch {
			case err == nil:
				return nil, ErrEquipmentInactive
			case errors.Is(err, equipment.ErrNotFound):
				return nil, ErrEquipmentNotFound
			default:
				return nil, err
			}
		}
		out.inventory = append(out.inventory, item)
		out.lines = append(out.lines, pricing.EquipmentLine{Item: item, Quantity: line.Quantity})
	}

	return out, nil
}

func (s *service) checkRequest(req CreateRequest, refs *resolved) CheckRequest {
	coachID := ""
	if refs.coach != nil {
		coachID = refs.coach.ID
	}
	return CheckRequest{
		CourtID:   req.CourtID,
		CoachID:   coachID,
		Equipment: req.Equipment,
		Inventory: refs.inventory,
		Date:      timewindow.DayStart(req.Date),
		Start:     req.Start,
		End:       req.End,
	}
}

// Create prices and commits one reservation. Availability is checked twice:
// once up front for a fast rejection, then again inside the transaction so
// two racing requests cannot both commit overlapping reservations.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	refs, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	check := s.checkRequest(req, refs)
	report, err := s.checker.CheckAll(ctx, check)
	if err != nil {
		return nil, err
	}
	if !report.Available {
		s.metrics.BookingConflicts.Inc()
		return nil, ErrTimeConflict
	}

	breakdown, err := s.engine.CalculatePrice(ctx, pricing.PriceRequest{
		Court:     refs.court,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Equipment: refs.lines,
		Coach:     refs.coach,
	})
	if err != nil {
		return nil, err
	}

	reservation := &Reservation{
		UserID:    req.UserID,
		CourtID:   req.CourtID,
		CoachID:   req.CoachID,
		Equipment: equipmentRefs(req.Equipment),
		Date:      timewindow.DayStart(req.Date),
		StartTime: req.Start,
		EndTime:   req.End,
		Status:    StatusConfirmed,
		Breakdown: breakdown,
		Notes:     req.Notes,
	}

	err = s.repo.InTransaction(ctx, func(txRepo Repository) error {
		txReport, err := NewAvailabilityChecker(txRepo).CheckAll(ctx, check)
		if err != nil {
			return err
		}
		if !txReport.Available {
			return ErrTimeConflict
		}
		return txRepo.Create(ctx, reservation)
	})
	if err != nil {
		if errors.Is(err, ErrTimeConflict) {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	s.metrics.BookingsCreated.Inc()
	return reservation, nil
}

func equipmentRefs(requested []EquipmentRequest) []EquipmentRef {
	refs := make([]EquipmentRef, 0, len(requested))
	for _, line := range requested {
		if line.Quantity <= 0 {
			continue
		}
		refs = append(refs, EquipmentRef{EquipmentID: line.EquipmentID, Quantity: line.Quantity})
	}
	return refs
}

// JoinWaitlist records a waitlist entry for an exact slot. The position is
// the count of existing waitlisted entries for that slot plus one. The
// stored breakdown is zeroed; pricing happens when the entry is promoted.
func (s *service) JoinWaitlist(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if _, err := s.resolve(ctx, req); err != nil {
		return nil, err
	}

	date := timewindow.DayStart(req.Date)
	reservation := &Reservation{
		UserID:    req.UserID,
		CourtID:   req.CourtID,
		CoachID:   req.CoachID,
		Equipment: equipmentRefs(req.Equipment),
		Date:      date,
		StartTime: req.Start,
		EndTime:   req.End,
		Status:    StatusWaitlist,
		Breakdown: &pricing.Breakdown{AppliedRules: []pricing.AppliedRule{}},
		Notes:     req.Notes,
	}

	err := s.repo.InTransaction(ctx, func(txRepo Repository) error {
		count, err := txRepo.CountWaitlistSlot(ctx, req.CourtID, date, req.Start, req.End)
		if err != nil {
			return err
		}
		position := count + 1
		reservation.WaitlistPosition = &position
		return txRepo.Create(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BookingsWaitlisted.Inc()
	return reservation, nil
}

func (s *service) GetByID(ctx context.Context, id string, actorID string, isAdmin bool) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && res.UserID != actorID {
		return nil, ErrPermissionDenied
	}
	return res, nil
}

func (s *service) List(ctx context.Context, filter Filter, actorID string, isAdmin bool) ([]*Reservation, int, error) {
	if !isAdmin {
		filter.UserID = actorID
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus changes a reservation's lifecycle state. Owners may only
// cancel; every other transition is admin-only. Transitioning into the
// waitlist is not allowed: only JoinWaitlist assigns a position, and an
// entry without one could never be picked for notification.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status, actorID string, isAdmin bool) (*Reservation, error) {
	if !status.Valid() || status == StatusWaitlist {
		return nil, ErrInvalidStatus
	}
	if status == StatusCancelled {
		return s.Cancel(ctx, id, actorID, isAdmin)
	}
	if !isAdmin {
		return nil, ErrPermissionDenied
	}

	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	res.Status = status
	return res, nil
}

// Cancel sets the reservation to cancelled, then notifies the head of the
// waitlist for the same court and day. Notification only stamps a
// timestamp; promotion to confirmed is a separate explicit action.
func (s *service) Cancel(ctx context.Context, id string, actorID string, isAdmin bool) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && res.UserID != actorID {
		return nil, ErrPermissionDenied
	}
	if res.Status == StatusCancelled || res.Status == StatusCompleted {
		return nil, ErrNotCancellable
	}

	wasBlocking := res.Status == StatusConfirmed || res.Status == StatusPending

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	res.Status = StatusCancelled
	s.metrics.BookingsCancelled.Inc()

	// Best-effort: a failed notification never fails the cancellation.
	if wasBlocking {
		if err := s.notifyWaitlist(ctx, res.CourtID, res.Date); err != nil {
			log.Printf("booking: waitlist notification after cancel of %s failed: %v", res.ID, err)
		}
	}

	return res, nil
}

func (s *service) notifyWaitlist(ctx context.Context, courtID string, date time.Time) error {
	next, err := s.repo.NextWaitlistEntry(ctx, courtID, date)
	if err != nil {
		return err
	}
	if next == nil || next.NotifiedAt != nil {
		return nil
	}
	return s.repo.MarkNotified(ctx, next.ID, s.now())
}

// CheckAvailability resolves references and runs the combined check without
// creating anything; used by the pre-booking availability endpoint.
func (s *service) CheckAvailability(ctx context.Context, req CreateRequest) (*CombinedReport, error) {
	refs, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.checker.CheckAll(ctx, s.checkRequest(req, refs))
}

// Quote prices a proposed booking without persisting anything.
func (s *service) Quote(ctx context.Context, req CreateRequest) (*pricing.Breakdown, error) {
	refs, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.engine.CalculatePrice(ctx, pricing.PriceRequest{
		Court:     refs.court,
		Date:      req.Date,
		Start:     req.Start,
		End:       req.End,
		Equipment: refs.lines,
		Coach:     refs.coach,
	})
}

func (s *service) Slots(ctx context.Context, courtID string, date time.Time, slotMinutes int) ([]Slot, error) {
	if _, err := s.courts.GetByID(ctx, courtID); err != nil {
		if errors.Is(err, court.ErrNotFound) {
			return nil, ErrCourtNotFound
		}
		return nil, err
	}
	return s.checker.GenerateSlots(ctx, courtID, date, slotMinutes)
}
