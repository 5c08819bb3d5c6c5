package booking

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/courtflow/facility-booking-backend/internal/equipment"
	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
)

// Operating hours for the slot grid.
const (
	openingMinute   = 6 * 60  // 06:00
	closingMinute   = 22 * 60 // 22:00
	defaultSlotStep = 60
)

// ReservationReader is the narrow read surface the availability checker
// needs. Repository satisfies it with both pool-bound and transaction-bound
// instances, so the same checks re-run inside the booking transaction.
type ReservationReader interface {
	ListByCourtDay(ctx context.Context, courtID string, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error)
	ListByCoachDay(ctx context.Context, coachID string, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error)
	ListEquipmentDay(ctx context.Context, dayStart, dayEnd time.Time, excludeID string) ([]*Reservation, error)
}

// EquipmentRequest is one requested equipment line in an availability check.
type EquipmentRequest struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
}

// ResourceReport holds the outcome of a single court or coach check. When
// unavailable, Conflict carries the first overlapping reservation found;
// the check stops at one example rather than enumerating all conflicts.
type ResourceReport struct {
	Available bool         `json:"available"`
	Conflict  *Reservation `json:"conflict,omitempty"`
}

// UnavailableItem explains why one equipment line cannot be satisfied.
type UnavailableItem struct {
	EquipmentID string `json:"equipment_id"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
	Reason      string `json:"reason"`
}

type EquipmentReport struct {
	Available        bool              `json:"available"`
	UnavailableItems []UnavailableItem `json:"unavailable_items,omitempty"`
}

// Issue identifies one failing resource in a combined report.
type Issue struct {
	Kind     string            `json:"kind"` // court, coach or equipment
	Conflict *Reservation      `json:"conflict,omitempty"`
	Items    []UnavailableItem `json:"items,omitempty"`
}

type CombinedReport struct {
	Available bool            `json:"available"`
	Court     ResourceReport  `json:"court"`
	Coach     ResourceReport  `json:"coach"`
	Equipment EquipmentReport `json:"equipment"`
	Issues    []Issue         `json:"issues,omitempty"`
}

// CheckRequest describes one proposed window and the resources it needs.
// Inventory is the equipment snapshot to allocate against; coach ID and
// equipment list are optional. ExcludeID skips one reservation during
// conflict scans, used when re-checking an existing reservation.
type CheckRequest struct {
	CourtID   string
	CoachID   string
	Equipment []EquipmentRequest
	Inventory []*equipment.Equipment
	Date      time.Time
	Start     string
	End       string
	ExcludeID string
}

// AvailabilityChecker answers whether a court, a coach and a set of
// equipment lines are simultaneously free for one proposed window. All
// checks are reads against a snapshot; the booking transaction closes the
// check-then-act race by re-running them before insert.
type AvailabilityChecker struct {
	reservations ReservationReader
}

func NewAvailabilityChecker(reservations ReservationReader) *AvailabilityChecker {
	return &AvailabilityChecker{reservations: reservations}
}

func dayRange(date time.Time) (time.Time, time.Time) {
	dayStart := timewindow.DayStart(date)
	return dayStart, timewindow.NextDay(dayStart)
}

// firstOverlap returns the first reservation overlapping [start, end), or
// nil. Touching boundaries do not overlap.
func firstOverlap(reservations []*Reservation, start, end string) (*Reservation, error) {
	startMin, err := timewindow.ToMinutes(start)
	if err != nil {
		return nil, err
	}
	endMin, err := timewindow.ToMinutes(end)
	if err != nil {
		return nil, err
	}

	for _, res := range reservations {
		resStart, err := timewindow.ToMinutes(res.StartTime)
		if err != nil {
			return nil, err
		}
		resEnd, err := timewindow.ToMinutes(res.EndTime)
		if err != nil {
			return nil, err
		}
		if timewindow.Overlaps(startMin, endMin, resStart, resEnd) {
			return res, nil
		}
	}
	return nil, nil
}

func (c *AvailabilityChecker) CheckCourt(ctx context.Context, courtID string, date time.Time, start, end, excludeID string) (ResourceReport, error) {
	dayStart, dayEnd := dayRange(date)
	reservations, err := c.reservations.ListByCourtDay(ctx, courtID, dayStart, dayEnd, excludeID)
	if err != nil {
		return ResourceReport{}, err
	}

	conflict, err := firstOverlap(reservations, start, end)
	if err != nil {
		return ResourceReport{}, err
	}
	return ResourceReport{Available: conflict == nil, Conflict: conflict}, nil
}

// CheckCoach reports reservation conflicts only. The coach's weekly
// schedule is a separate concern checked against the Coach entity itself;
// the booking service applies both before committing.
func (c *AvailabilityChecker) CheckCoach(ctx context.Context, coachID string, date time.Time, start, end, excludeID string) (ResourceReport, error) {
	if coachID == "" {
		return ResourceReport{Available: true}, nil
	}

	dayStart, dayEnd := dayRange(date)
	reservations, err := c.reservations.ListByCoachDay(ctx, coachID, dayStart, dayEnd, excludeID)
	if err != nil {
		return ResourceReport{}, err
	}

	conflict, err := firstOverlap(reservations, start, end)
	if err != nil {
		return ResourceReport{}, err
	}
	return ResourceReport{Available: conflict == nil, Conflict: conflict}, nil
}

// CheckEquipment verifies that every requested line fits within the
// inventory capacity left over by overlapping reservations. The day's
// candidate reservations are fetched once and reused across all lines.
func (c *AvailabilityChecker) CheckEquipment(ctx context.Context, requested []EquipmentRequest, inventory []*equipment.Equipment, date time.Time, start, end, excludeID string) (EquipmentReport, error) {
	if len(requested) == 0 {
		return EquipmentReport{Available: true}, nil
	}

	startMin, err := timewindow.ToMinutes(start)
	if err != nil {
		return EquipmentReport{}, err
	}
	endMin, err := timewindow.ToMinutes(end)
	if err != nil {
		return EquipmentReport{}, err
	}

	byID := make(map[string]*equipment.Equipment, len(inventory))
	for _, item := range inventory {
		byID[item.ID] = item
	}

	dayStart, dayEnd := dayRange(date)
	reservations, err := c.reservations.ListEquipmentDay(ctx, dayStart, dayEnd, excludeID)
	if err != nil {
		return EquipmentReport{}, err
	}

	var unavailable []UnavailableItem
	for _, req := range requested {
		if req.Quantity <= 0 {
			continue
		}

		item, ok := byID[req.EquipmentID]
		if !ok {
			unavailable = append(unavailable, UnavailableItem{
				EquipmentID: req.EquipmentID,
				Requested:   req.Quantity,
				Reason:      "not found",
			})
			continue
		}

		booked := 0
		for _, res := range reservations {
			resStart, err := timewindow.ToMinutes(res.StartTime)
			if err != nil {
				return EquipmentReport{}, err
			}
			resEnd, err := timewindow.ToMinutes(res.EndTime)
			if err != nil {
				return EquipmentReport{}, err
			}
			if !timewindow.Overlaps(startMin, endMin, resStart, resEnd) {
				continue
			}
			for _, ref := range res.Equipment {
				if ref.EquipmentID == req.EquipmentID {
					booked += ref.Quantity
				}
			}
		}

		available := item.TotalQuantity - booked
		if req.Quantity > available {
			unavailable = append(unavailable, UnavailableItem{
				EquipmentID: req.EquipmentID,
				Requested:   req.Quantity,
				Available:   available,
				Reason:      "insufficient quantity",
			})
		}
	}

	return EquipmentReport{Available: len(unavailable) == 0, UnavailableItems: unavailable}, nil
}

// CheckAll runs the court, coach and equipment checks concurrently and
// combines them. This is the single entry point the booking service calls
// before committing a reservation.
func (c *AvailabilityChecker) CheckAll(ctx context.Context, req CheckRequest) (*CombinedReport, error) {
	var report CombinedReport

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Court, err = c.CheckCourt(gctx, req.CourtID, req.Date, req.Start, req.End, req.ExcludeID)
		return err
	})
	g.Go(func() error {
		var err error
		report.Coach, err = c.CheckCoach(gctx, req.CoachID, req.Date, req.Start, req.End, req.ExcludeID)
		return err
	})
	g.Go(func() error {
		var err error
		report.Equipment, err = c.CheckEquipment(gctx, req.Equipment, req.Inventory, req.Date, req.Start, req.End, req.ExcludeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Available = report.Court.Available && report.Coach.Available && report.Equipment.Available
	if !report.Court.Available {
		report.Issues = append(report.Issues, Issue{Kind: "court", Conflict: report.Court.Conflict})
	}
	if !report.Coach.Available {
		report.Issues = append(report.Issues, Issue{Kind: "coach", Conflict: report.Coach.Conflict})
	}
	if !report.Equipment.Available {
		report.Issues = append(report.Issues, Issue{Kind: "equipment", Items: report.Equipment.UnavailableItems})
	}
	return &report, nil
}

// Slot is one fixed-duration candidate window in the day grid.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// GenerateSlots walks the operating hours in slotMinutes steps and tests
// each slot against the day's blocking court reservations. The grid is
// recomputed fresh on every call; coach and equipment are not considered.
func (c *AvailabilityChecker) GenerateSlots(ctx context.Context, courtID string, date time.Time, slotMinutes int) ([]Slot, error) {
	if slotMinutes <= 0 {
		slotMinutes = defaultSlotStep
	}

	dayStart, dayEnd := dayRange(date)
	reservations, err := c.reservations.ListByCourtDay(ctx, courtID, dayStart, dayEnd, "")
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for start := openingMinute; start+slotMinutes <= closingMinute; start += slotMinutes {
		end := start + slotMinutes

		available := true
		for _, res := range reservations {
			resStart, err := timewindow.ToMinutes(res.StartTime)
			if err != nil {
				return nil, err
			}
			resEnd, err := timewindow.ToMinutes(res.EndTime)
			if err != nil {
				return nil, err
			}
			if timewindow.Overlaps(start, end, resStart, resEnd) {
				available = false
				break
			}
		}

		slots = append(slots, Slot{
			Start:     timewindow.FromMinutes(start),
			End:       timewindow.FromMinutes(end),
			Available: available,
		})
	}
	return slots, nil
}
