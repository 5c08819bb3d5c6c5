package http

import (
	"time"

	"github.com/courtflow/facility-booking-backend/internal/coach"
)

type TimeRangeDTO struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

type CoachResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone,omitempty"`
	Specialization string            `json:"specialization,omitempty"`
	ExperienceYrs  int               `json:"experience_years"`
	HourlyRate     float64           `json:"hourly_rate"`
	Bio            string            `json:"bio,omitempty"`
	ImageID        *string           `json:"image_id,omitempty"`
	IsActive       bool              `json:"is_active"`
	Availability   [7][]TimeRangeDTO `json:"availability"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// CoachTag is a minimal coach reference embedded in other responses.
type CoachTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toAvailabilityDTO(w coach.WeekAvailability) [7][]TimeRangeDTO {
	var out [7][]TimeRangeDTO
	for day, ranges := range w {
		out[day] = make([]TimeRangeDTO, len(ranges))
		for i, r := range ranges {
			out[day][i] = TimeRangeDTO{Start: r.Start, End: r.End}
		}
	}
	return out
}

func fromAvailabilityDTO(dto *[7][]TimeRangeDTO) *coach.WeekAvailability {
	if dto == nil {
		return nil
	}
	var w coach.WeekAvailability
	for day, ranges := range dto {
		w[day] = make([]coach.TimeRange, len(ranges))
		for i, r := range ranges {
			w[day][i] = coach.TimeRange{Start: r.Start, End: r.End}
		}
	}
	return &w
}

func NewResponse(co *coach.Coach) CoachResponse {
	return CoachResponse{
		ID:             co.ID,
		Name:           co.Name,
		Email:          co.Email,
		Phone:          co.Phone,
		Specialization: co.Specialization,
		ExperienceYrs:  co.ExperienceYrs,
		HourlyRate:     co.HourlyRate,
		Bio:            co.Bio,
		ImageID:        co.ImageID,
		IsActive:       co.IsActive,
		Availability:   toAvailabilityDTO(co.Availability),
		CreatedAt:      co.CreatedAt,
		UpdatedAt:      co.UpdatedAt,
	}
}

type ListCoachesRequest struct {
	Specialization string `form:"specialization"`
	IsActive       *bool  `form:"is_active"`
	Page           int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type CreateCoachRequest struct {
	Name           string             `json:"name" binding:"required"`
	Email          string             `json:"email" binding:"required,email"`
	Phone          string             `json:"phone"`
	Specialization string             `json:"specialization"`
	ExperienceYrs  int                `json:"experience_years" binding:"min=0"`
	HourlyRate     float64            `json:"hourly_rate" binding:"min=0"`
	Bio            string             `json:"bio"`
	ImageID        *string            `json:"image_id" binding:"omitempty,uuid"`
	Availability   *[7][]TimeRangeDTO `json:"availability"`
}

type UpdateCoachRequest struct {
	Name           *string            `json:"name"`
	Email          *string            `json:"email" binding:"omitempty,email"`
	Phone          *string            `json:"phone"`
	Specialization *string            `json:"specialization"`
	ExperienceYrs  *int               `json:"experience_years" binding:"omitempty,min=0"`
	HourlyRate     *float64           `json:"hourly_rate" binding:"omitempty,min=0"`
	Bio            *string            `json:"bio"`
	ImageID        *string            `json:"image_id" binding:"omitempty,uuid"`
	IsActive       *bool              `json:"is_active"`
	Availability   *[7][]TimeRangeDTO `json:"availability"`
}
