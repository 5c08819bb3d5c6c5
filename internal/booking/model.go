package booking

import (
	"net/http"
	"time"

	"github.com/courtflow/facility-booking-backend/internal/pkg/apperror"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "requested time slot is not available")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "end time must be later than start time")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrCourtNotFound     = apperror.New(http.StatusNotFound, "court not found")
	ErrCourtInactive     = apperror.New(http.StatusBadRequest, "court is not active")
	ErrCoachNotFound     = apperror.New(http.StatusNotFound, "coach not found")
	ErrCoachInactive     = apperror.New(http.StatusBadRequest, "coach is not active")
	ErrCoachOffSchedule  = apperror.New(http.StatusConflict, "coach is not available at the requested time")
	ErrEquipmentNotFound = apperror.New(http.StatusNotFound, "equipment not found")
	ErrEquipmentInactive = apperror.New(http.StatusBadRequest, "equipment is not active")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrStartTimePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrNotCancellable    = apperror.New(http.StatusConflict, "booking can no longer be cancelled")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusWaitlist  Status = "waitlist"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusWaitlist:
		return true
	}
	return false
}

// blockingStatuses are the reservation states that occupy a resource.
// Cancelled, completed and waitlist entries never block a new booking.
var blockingStatuses = []Status{StatusConfirmed, StatusPending}

// EquipmentRef is one reserved equipment line, stored inside the
// reservation row as JSONB.
type EquipmentRef struct {
	EquipmentID string `json:"equipment_id"`
	Quantity    int    `json:"quantity"`
}

// Reservation is the persisted booking record. Date is a UTC day bucket
// with the time of day carried separately as "HH:MM" strings, so one day's
// reservations are queryable as a [dayStart, nextDay) range. The price
// breakdown is a snapshot taken at creation time; recomputing prices later
// never touches stored rows.
type Reservation struct {
	ID               string
	UserID           string
	CourtID          string
	CoachID          *string
	Equipment        []EquipmentRef
	Date             time.Time
	StartTime        string
	EndTime          string
	Status           Status
	Breakdown        *pricing.Breakdown
	WaitlistPosition *int
	NotifiedAt       *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Filter struct {
	UserID   string
	CourtID  string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}
