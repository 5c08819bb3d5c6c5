package http

import (
	"time"

	"github.com/courtflow/facility-booking-backend/internal/court"
)

type CourtResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price"`
	Amenities   []string  `json:"amenities"`
	ImageID     *string   `json:"image_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourtTag is a minimal court reference embedded in other responses.
type CourtTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

func NewResponse(c *court.Court) CourtResponse {
	amenities := c.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return CourtResponse{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		Description: c.Description,
		BasePrice:   c.BasePrice,
		Amenities:   amenities,
		ImageID:     c.ImageID,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type ListCourtsRequest struct {
	Type     string `form:"type" binding:"omitempty,oneof=indoor outdoor"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type CreateCourtRequest struct {
	Name        string   `json:"name" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=indoor outdoor"`
	Description string   `json:"description"`
	BasePrice   float64  `json:"base_price" binding:"min=0"`
	Amenities   []string `json:"amenities"`
	ImageID     *string  `json:"image_id" binding:"omitempty,uuid"`
}

type UpdateCourtRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type" binding:"omitempty,oneof=indoor outdoor"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price" binding:"omitempty,min=0"`
	Amenities   []string `json:"amenities"`
	ImageID     *string  `json:"image_id" binding:"omitempty,uuid"`
	IsActive    *bool    `json:"is_active"`
}
