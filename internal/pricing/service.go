package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtflow/facility-booking-backend/internal/pkg/timewindow"
)

type CreateRuleRequest struct {
	Name           string
	Description    string
	Type           string
	StartTime      string
	EndTime        string
	ApplicableDays []int
	SpecificDates  []time.Time
	ModifierType   string
	ModifierValue  float64
	AppliesTo      string
	Priority       int
	IsActive       *bool
}

type UpdateRuleRequest struct {
	Name           *string
	Description    *string
	Type           *string
	StartTime      *string
	EndTime        *string
	ApplicableDays []int
	SpecificDates  []time.Time
	ModifierType   *string
	ModifierValue  *float64
	AppliesTo      *string
	Priority       *int
	IsActive       *bool
}

// Service manages the pricing rule catalogue for administrators. The engine
// reads the same repository through the RuleSource interface.
type Service interface {
	Create(ctx context.Context, req CreateRuleRequest) (*Rule, error)
	GetByID(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context, filter Filter) ([]*Rule, int, error)
	Update(ctx context.Context, id string, req UpdateRuleRequest) (*Rule, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateGate(startTime, endTime string) error {
	if startTime != "" {
		if _, err := timewindow.ToMinutes(startTime); err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
	}
	if endTime != "" {
		if _, err := timewindow.ToMinutes(endTime); err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}
	}
	return nil
}

func validateDays(days []int) error {
	for _, d := range days {
		if d < 0 || d > 6 {
			return ErrInvalidDay
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRuleRequest) (*Rule, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !RuleType(req.Type).Valid() {
		return nil, ErrInvalidRuleType
	}
	if !ModifierType(req.ModifierType).Valid() {
		return nil, ErrInvalidModifier
	}
	scope := Scope(req.AppliesTo)
	if scope == "" {
		scope = ScopeAll
	}
	if !scope.Valid() {
		return nil, ErrInvalidScope
	}
	if err := validateGate(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if err := validateDays(req.ApplicableDays); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	rule := &Rule{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Type:           RuleType(req.Type),
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ApplicableDays: req.ApplicableDays,
		SpecificDates:  req.SpecificDates,
		ModifierType:   ModifierType(req.ModifierType),
		ModifierValue:  req.ModifierValue,
		AppliesTo:      scope,
		Priority:       req.Priority,
		IsActive:       active,
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Rule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Rule, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRuleRequest) (*Rule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		rule.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.Type != nil {
		if !RuleType(*req.Type).Valid() {
			return nil, ErrInvalidRuleType
		}
		rule.Type = RuleType(*req.Type)
	}
	if req.StartTime != nil {
		rule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		rule.EndTime = *req.EndTime
	}
	if err := validateGate(rule.StartTime, rule.EndTime); err != nil {
		return nil, err
	}
	if req.ApplicableDays != nil {
		if err := validateDays(req.ApplicableDays); err != nil {
			return nil, err
		}
		rule.ApplicableDays = req.ApplicableDays
	}
	if req.SpecificDates != nil {
		rule.SpecificDates = req.SpecificDates
	}
	if req.ModifierType != nil {
		if !ModifierType(*req.ModifierType).Valid() {
			return nil, ErrInvalidModifier
		}
		rule.ModifierType = ModifierType(*req.ModifierType)
	}
	if req.ModifierValue != nil {
		rule.ModifierValue = *req.ModifierValue
	}
	if req.AppliesTo != nil {
		if !Scope(*req.AppliesTo).Valid() {
			return nil, ErrInvalidScope
		}
		rule.AppliesTo = Scope(*req.AppliesTo)
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
