package http

import (
	"time"

	"github.com/courtflow/facility-booking-backend/internal/equipment"
)

type EquipmentResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Description   string    `json:"description,omitempty"`
	TotalQuantity int       `json:"total_quantity"`
	PricePerHour  float64   `json:"price_per_hour"`
	ImageID       *string   `json:"image_id,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewResponse(e *equipment.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:            e.ID,
		Name:          e.Name,
		Type:          string(e.Type),
		Description:   e.Description,
		TotalQuantity: e.TotalQuantity,
		PricePerHour:  e.PricePerHour,
		ImageID:       e.ImageID,
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

type ListEquipmentRequest struct {
	Type     string `form:"type" binding:"omitempty,oneof=racket shoes shuttlecock other"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type CreateEquipmentRequest struct {
	Name          string  `json:"name" binding:"required"`
	Type          string  `json:"type" binding:"required,oneof=racket shoes shuttlecock other"`
	Description   string  `json:"description"`
	TotalQuantity int     `json:"total_quantity" binding:"min=0"`
	PricePerHour  float64 `json:"price_per_hour" binding:"min=0"`
	ImageID       *string `json:"image_id" binding:"omitempty,uuid"`
}

type UpdateEquipmentRequest struct {
	Name          *string  `json:"name"`
	Type          *string  `json:"type" binding:"omitempty,oneof=racket shoes shuttlecock other"`
	Description   *string  `json:"description"`
	TotalQuantity *int     `json:"total_quantity" binding:"omitempty,min=0"`
	PricePerHour  *float64 `json:"price_per_hour" binding:"omitempty,min=0"`
	ImageID       *string  `json:"image_id" binding:"omitempty,uuid"`
	IsActive      *bool    `json:"is_active"`
}
