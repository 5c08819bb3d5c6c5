package http

import (
	"time"

	"github.com/courtflow/facility-booking-backend/internal/booking"
	"github.com/courtflow/facility-booking-backend/internal/pricing"
)

const dateLayout = "2006-01-02"

// EquipmentLineDTO is one requested equipment item with quantity.
type EquipmentLineDTO struct {
	EquipmentID string `json:"equipment_id" binding:"required,uuid"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

func equipmentRequests(lines []EquipmentLineDTO) []booking.EquipmentRequest {
	reqs := make([]booking.EquipmentRequest, len(lines))
	for i, line := range lines {
		reqs[i] = booking.EquipmentRequest{EquipmentID: line.EquipmentID, Quantity: line.Quantity}
	}
	return reqs
}

type BookingResponse struct {
	ID               string             `json:"id"`
	UserID           string             `json:"user_id"`
	CourtID          string             `json:"court_id"`
	CoachID          *string            `json:"coach_id,omitempty"`
	Equipment        []EquipmentLineDTO `json:"equipment"`
	Date             string             `json:"date"`
	StartTime        string             `json:"start_time"`
	EndTime          string             `json:"end_time"`
	Status           string             `json:"status"`
	Breakdown        *pricing.Breakdown `json:"breakdown,omitempty"`
	WaitlistPosition *int               `json:"waitlist_position,omitempty"`
	NotifiedAt       *time.Time         `json:"notified_at,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

func NewBookingResponse(r *booking.Reservation) BookingResponse {
	equipment := make([]EquipmentLineDTO, len(r.Equipment))
	for i, ref := range r.Equipment {
		equipment[i] = EquipmentLineDTO{EquipmentID: ref.EquipmentID, Quantity: ref.Quantity}
	}
	return BookingResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		CourtID:          r.CourtID,
		CoachID:          r.CoachID,
		Equipment:        equipment,
		Date:             r.Date.Format(dateLayout),
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		Status:           string(r.Status),
		Breakdown:        r.Breakdown,
		WaitlistPosition: r.WaitlistPosition,
		NotifiedAt:       r.NotifiedAt,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	CourtID  string `form:"court_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed waitlist"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// BookingWindowRequest is the shared body for create, waitlist,
// check-availability and quote endpoints.
type BookingWindowRequest struct {
	CourtID   string             `json:"court_id" binding:"required,uuid"`
	CoachID   *string            `json:"coach_id" binding:"omitempty,uuid"`
	Equipment []EquipmentLineDTO `json:"equipment" binding:"omitempty,dive"`
	Date      string             `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string             `json:"start_time" binding:"required"`
	EndTime   string             `json:"end_time" binding:"required"`
	Notes     string             `json:"notes"`
}

func (r *BookingWindowRequest) toCreateRequest(userID string) (booking.CreateRequest, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return booking.CreateRequest{}, err
	}
	return booking.CreateRequest{
		UserID:    userID,
		CourtID:   r.CourtID,
		CoachID:   r.CoachID,
		Equipment: equipmentRequests(r.Equipment),
		Date:      date,
		Start:     r.StartTime,
		End:       r.EndTime,
		Notes:     r.Notes,
	}, nil
}

// UpdateStatusRequest carries a lifecycle transition. Waitlist entries are
// created through the waitlist endpoint, which assigns a position, so
// "waitlist" is not a valid target here.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

// SlotsRequest defines query parameters for the slot grid.
type SlotsRequest struct {
	CourtID  string `form:"court_id" binding:"required,uuid"`
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Duration int    `form:"duration" binding:"omitempty,min=15,max=480"`
}
