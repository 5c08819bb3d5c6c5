package http

import (
	"time"

	"github.com/courtflow/facility-booking-backend/internal/pricing"
)

type RuleResponse struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description,omitempty"`
	Type           string      `json:"type"`
	StartTime      string      `json:"start_time,omitempty"`
	EndTime        string      `json:"end_time,omitempty"`
	ApplicableDays []int       `json:"applicable_days"`
	SpecificDates  []time.Time `json:"specific_dates"`
	ModifierType   string      `json:"modifier_type"`
	ModifierValue  float64     `json:"modifier_value"`
	AppliesTo      string      `json:"applies_to"`
	Priority       int         `json:"priority"`
	IsActive       bool        `json:"is_active"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func NewResponse(r *pricing.Rule) RuleResponse {
	days := r.ApplicableDays
	if days == nil {
		days = []int{}
	}
	dates := r.SpecificDates
	if dates == nil {
		dates = []time.Time{}
	}
	return RuleResponse{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Type:           string(r.Type),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		ApplicableDays: days,
		SpecificDates:  dates,
		ModifierType:   string(r.ModifierType),
		ModifierValue:  r.ModifierValue,
		AppliesTo:      string(r.AppliesTo),
		Priority:       r.Priority,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type ListRulesRequest struct {
	Type     string `form:"type" binding:"omitempty,oneof=peak_hour weekend holiday indoor_premium early_bird custom"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type CreateRuleRequest struct {
	Name           string      `json:"name" binding:"required"`
	Description    string      `json:"description"`
	Type           string      `json:"type" binding:"required,oneof=peak_hour weekend holiday indoor_premium early_bird custom"`
	StartTime      string      `json:"start_time"`
	EndTime        string      `json:"end_time"`
	ApplicableDays []int       `json:"applicable_days" binding:"omitempty,dive,min=0,max=6"`
	SpecificDates  []time.Time `json:"specific_dates"`
	ModifierType   string      `json:"modifier_type" binding:"required,oneof=multiplier fixed_addition fixed_subtraction percentage"`
	ModifierValue  float64     `json:"modifier_value"`
	AppliesTo      string      `json:"applies_to" binding:"omitempty,oneof=all indoor outdoor"`
	Priority       int         `json:"priority"`
	IsActive       *bool       `json:"is_active"`
}

type UpdateRuleRequest struct {
	Name           *string     `json:"name"`
	Description    *string     `json:"description"`
	Type           *string     `json:"type" binding:"omitempty,oneof=peak_hour weekend holiday indoor_premium early_bird custom"`
	StartTime      *string     `json:"start_time"`
	EndTime        *string     `json:"end_time"`
	ApplicableDays []int       `json:"applicable_days" binding:"omitempty,dive,min=0,max=6"`
	SpecificDates  []time.Time `json:"specific_dates"`
	ModifierType   *string     `json:"modifier_type" binding:"omitempty,oneof=multiplier fixed_addition fixed_subtraction percentage"`
	ModifierValue  *float64    `json:"modifier_value"`
	AppliesTo      *string     `json:"applies_to" binding:"omitempty,oneof=all indoor outdoor"`
	Priority       *int        `json:"priority"`
	IsActive       *bool       `json:"is_active"`
}
